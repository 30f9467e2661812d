package chat

import (
	"fmt"
	"strings"

	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/jobs"
	"github.com/tlegrand/emploi-assistant/internal/recommend"
)

func formatProfile(p *cv.Profile) string {
	var b strings.Builder
	b.WriteString("Voici l'analyse de votre CV :\n\n")

	if p.FullName != "" {
		fmt.Fprintf(&b, "**Nom complet** : %s\n", p.FullName)
	}
	if p.Email != "" {
		fmt.Fprintf(&b, "**Email** : %s\n", p.Email)
	}
	if p.Phone != "" {
		fmt.Fprintf(&b, "**Téléphone** : %s\n", p.Phone)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "**Localisation** : %s\n", p.Location)
	}
	if p.DesiredJob != "" {
		fmt.Fprintf(&b, "\n**Poste recherché** : %s\n", p.DesiredJob)
	}

	if len(p.Skills) > 0 {
		b.WriteString("\n**Compétences clés** :\n")
		for _, skill := range p.Skills {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
	}

	if len(p.Experiences) > 0 {
		b.WriteString("\n**Expérience professionnelle** :\n")
		for _, exp := range p.Experiences {
			fmt.Fprintf(&b, "\n**%s** chez %s\n", exp.Position, exp.Company)
			if exp.StartDate != "" && exp.EndDate != "" {
				fmt.Fprintf(&b, "Période : %s - %s\n", exp.StartDate, exp.EndDate)
			}
			if exp.Location != "" {
				fmt.Fprintf(&b, "Lieu : %s\n", exp.Location)
			}
			if exp.Description != "" {
				fmt.Fprintf(&b, "Description : %s\n", exp.Description)
			}
		}
	}

	if len(p.Projects) > 0 {
		b.WriteString("\n**Projets personnels et académiques** :\n")
		for _, proj := range p.Projects {
			fmt.Fprintf(&b, "\n**%s**\n", proj.Title)
			if proj.Description != "" {
				fmt.Fprintf(&b, "Description : %s\n", proj.Description)
			}
			if len(proj.Technologies) > 0 {
				fmt.Fprintf(&b, "Technologies : %s\n", strings.Join(proj.Technologies, ", "))
			}
		}
	}

	if len(p.Education) > 0 {
		b.WriteString("\n**Formation** :\n")
		for _, edu := range p.Education {
			fmt.Fprintf(&b, "\n**%s en %s**\n", edu.Diploma, edu.FieldOfStudy)
			fmt.Fprintf(&b, "Établissement : %s\n", edu.Institution)
			if edu.StartDate != "" && edu.EndDate != "" {
				fmt.Fprintf(&b, "Période : %s - %s\n", edu.StartDate, edu.EndDate)
			}
		}
	}

	if len(p.Languages) > 0 {
		b.WriteString("\n**Langues** :\n")
		for _, lang := range p.Languages {
			fmt.Fprintf(&b, "- %s\n", lang)
		}
	}

	if p.Summary != "" {
		fmt.Fprintf(&b, "\n**Résumé** :\n%s\n", p.Summary)
	}

	return b.String()
}

func formatSearchResults(response *jobs.SearchResponse) string {
	if response.TotalCount == 0 {
		return "Je n'ai pas trouvé d'offres d'emploi correspondant à votre profil. Essayez d'élargir vos critères de recherche."
	}

	var b strings.Builder
	if response.TotalCount == 1 {
		b.WriteString("J'ai trouvé 1 offre d'emploi correspondant à votre profil.\n")
	} else {
		fmt.Fprintf(&b, "J'ai trouvé %d offres d'emploi correspondant à votre profil.\n", response.TotalCount)
	}

	if len(response.FailedSources) > 0 {
		sources := make([]string, 0, len(response.FailedSources))
		for _, src := range response.FailedSources {
			sources = append(sources, src.String())
		}
		fmt.Fprintf(&b, "(certaines sources n'ont pas répondu : %s)\n", strings.Join(sources, ", "))
	}

	b.WriteString("\n### Offres trouvées:\n")

	limit := len(response.Results)
	if limit > maxDisplayedResults {
		limit = maxDisplayedResults
	}

	for i, job := range response.Results[:limit] {
		fmt.Fprintf(&b, "\n#### %d. %s chez %s\n\n", i+1, job.Title, job.Company)

		if job.Location.City != "" {
			fmt.Fprintf(&b, "📍 **Localisation**: %s\n\n", job.Location.String())
		}
		if job.JobType != "" {
			fmt.Fprintf(&b, "📋 **Type de contrat**: %s\n\n", job.JobType)
		}
		if job.SalaryRange != "" {
			fmt.Fprintf(&b, "💰 **Salaire**: %s\n\n", job.SalaryRange)
		}
		if job.Description != "" {
			fmt.Fprintf(&b, "📝 **Description**: %s\n\n", truncateAtWord(job.Description, maxDescriptionLength))
		}
		if job.URL != "" {
			fmt.Fprintf(&b, "🔗 [Voir l'offre complète](%s)\n\n", job.URL)
		}

		if i < limit-1 {
			b.WriteString("---\n")
		}
	}

	return b.String()
}

func formatRecommendations(result *recommend.Result) string {
	var b strings.Builder
	b.WriteString("Voici mes recommandations pour vous :\n\n")

	if len(result.HighlightedSkills) > 0 {
		b.WriteString("**Compétences à mettre en avant** :\n")
		for _, skill := range result.HighlightedSkills {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
		b.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		b.WriteString("**Compétences à développer** :\n")
		for _, skill := range result.MissingSkills {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
		b.WriteString("\n")
	}

	if len(result.CVImprovements) > 0 {
		b.WriteString("**Améliorations suggérées pour votre CV** :\n")
		for _, improvement := range result.CVImprovements {
			fmt.Fprintf(&b, "- %s\n", improvement)
		}
		b.WriteString("\n")
	}

	if result.CareerAdvice != "" {
		fmt.Fprintf(&b, "**Conseils de carrière** :\n%s\n\n", result.CareerAdvice)
	}

	if len(result.RankedJobs) > 0 {
		b.WriteString("**Offres d'emploi recommandées** :\n")
		for _, job := range result.RankedJobs {
			fmt.Fprintf(&b, "- **%s** chez %s\n", job.Title, job.Company)
			fmt.Fprintf(&b, "  Score de correspondance : %.2f\n", job.MatchScore)
			if job.Reason != "" {
				fmt.Fprintf(&b, "  Raison : %s\n", job.Reason)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// truncateAtWord cuts s to at most limit runes, backing up to the previous
// word boundary and appending an ellipsis.
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return cut + "..."
}
