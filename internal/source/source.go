package source

import (
	"context"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

// Client is the capability every job board adapter implements. SearchJobs
// either returns the full batch of source-native records (length bounded by
// the criteria limit) or fails atomically with a *jobs.SourceError; it never
// reports a partial success. Normalize converts one raw record into the
// canonical posting shape and fails only for that record.
type Client interface {
	Source() jobs.Source
	SearchJobs(ctx context.Context, criteria jobs.SearchCriteria) ([]jobs.RawRecord, error)
	Normalize(raw jobs.RawRecord) (*jobs.JobPosting, error)
}
