package jobs

// Source identifies one external job board.
type Source string

const (
	SourceFranceTravail Source = "france_travail"
	SourceLinkedIn      Source = "linkedin"
	SourceIndeed        Source = "indeed"
	SourceGlassdoor     Source = "glassdoor"
)

// AllSources lists every supported source in a stable order.
func AllSources() []Source {
	return []Source{SourceFranceTravail, SourceLinkedIn, SourceIndeed, SourceGlassdoor}
}

func (s Source) String() string {
	return string(s)
}
