package jobs

const (
	// DefaultRadiusKM is applied when a search does not specify a radius.
	DefaultRadiusKM = 50
	// DefaultLimitPerSource caps results fetched from a single board.
	DefaultLimitPerSource = 10
)

// SearchCriteria describes one logical search request. Location is free-form:
// a city name, a postal code or a department code. Each source interprets it
// on its own.
type SearchCriteria struct {
	Title          string   `json:"title" mapstructure:"title"`
	Location       string   `json:"location,omitempty" mapstructure:"location"`
	RadiusKM       int      `json:"radius_km,omitempty" mapstructure:"radius-km"`
	Keywords       []string `json:"keywords,omitempty" mapstructure:"keywords"`
	LimitPerSource int      `json:"limit_per_source,omitempty" mapstructure:"limit-per-source"`
}

// WithDefaults returns a copy with zero-valued fields replaced by defaults.
func (c SearchCriteria) WithDefaults() SearchCriteria {
	if c.RadiusKM <= 0 {
		c.RadiusKM = DefaultRadiusKM
	}
	if c.LimitPerSource <= 0 {
		c.LimitPerSource = DefaultLimitPerSource
	}
	return c
}
