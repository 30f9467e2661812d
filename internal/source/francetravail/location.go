package francetravail

import (
	"regexp"
	"strings"
)

// DefaultDepartment is used when no known location format is recognized.
const DefaultDepartment = "75"

// postalCodeRe matches a 5-digit postal code that is not part of a longer
// digit run.
var postalCodeRe = regexp.MustCompile(`(?:^|[^0-9])([0-9]{5})(?:[^0-9]|$)`)

var cityDepartments = map[string]string{
	"paris":     "75",
	"lyon":      "69",
	"marseille": "13",
	"toulouse":  "31",
	"nice":      "06",
	"bordeaux":  "33",
	"lille":     "59",
}

// ResolveDepartment maps a free-form location string to a department code.
// Resolution is a pure function of the input, in priority order: a 5-digit
// postal code anywhere in the string, an exact 2-digit numeric code, a known
// city name, then the default department.
func ResolveDepartment(location string) string {
	if m := postalCodeRe.FindStringSubmatch(location); m != nil {
		return m[1][:2]
	}

	if len(location) == 2 && isDigits(location) {
		return location
	}

	if dept, ok := cityDepartments[strings.ToLower(location)]; ok {
		return dept
	}

	return DefaultDepartment
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// contractTypes maps title keywords to the France Travail contract codes, in
// detection order.
var contractTypes = []struct {
	keyword string
	code    string
}{
	{"Stage", "STG"},
	{"Alternance", "ALT"},
	{"CDD", "CDD"},
	{"CDI", "CDI"},
	{"Intérim", "MIS"},
	{"Freelance", "LIB"},
	{"Saisonnier", "SAI"},
}

// DetectContractType looks for a contract-type keyword in the job title and
// strips it from the query text. The filler word "technique" is removed as
// well since it only narrows the search.
func DetectContractType(title string) (cleaned, code string) {
	cleaned = title
	lower := strings.ToLower(title)

	for _, ct := range contractTypes {
		kw := strings.ToLower(ct.keyword)
		if strings.Contains(lower, kw) {
			code = ct.code
			cleaned = strings.TrimSpace(strings.ReplaceAll(lower, kw, ""))
			break
		}
	}

	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "technique", ""))
	return cleaned, code
}
