package jobs

// SearchResponse is the aggregated outcome of one search: the merged postings
// plus bookkeeping of which sources answered and which failed. Built once and
// never mutated.
type SearchResponse struct {
	Criteria         SearchCriteria `json:"criteria"`
	Results          []*JobPosting  `json:"results"`
	AvailableSources []Source       `json:"available_sources"`
	FailedSources    []Source       `json:"failed_sources"`
	TotalCount       int            `json:"total_count"`
}

// Failed reports whether the given source is in the failed set.
func (r *SearchResponse) Failed(source Source) bool {
	for _, s := range r.FailedSources {
		if s == source {
			return true
		}
	}
	return false
}
