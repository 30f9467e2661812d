// Package aggregator fans a single search out to every configured job board,
// tolerates individual board failures, and merges the normalized results.
package aggregator

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
	"github.com/tlegrand/emploi-assistant/internal/source"
)

type Aggregator struct {
	registry *source.Registry
	logger   *zap.Logger
}

func New(registry *source.Registry, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		registry: registry,
		logger:   logger,
	}
}

// outcome is what one source task reports back to the collector.
type outcome struct {
	src     jobs.Source
	client  source.Client
	records []jobs.RawRecord
	err     error
}

// Search dispatches the criteria to all available sources concurrently and
// blocks until every task has resolved. A failing source lands in
// FailedSources and never aborts its siblings; the only terminal error is
// having zero sources to query.
func (a *Aggregator) Search(ctx context.Context, criteria jobs.SearchCriteria) (*jobs.SearchResponse, error) {
	criteria = criteria.WithDefaults()

	attempted := a.registry.Available()
	if len(attempted) == 0 {
		return nil, jobs.ErrNoSourceAvailable
	}

	a.logger.Info("starting the search",
		zap.String("title", criteria.Title),
		zap.String("location", criteria.Location),
		zap.Int("sources", len(attempted)),
	)

	// One task per source, one buffer slot per task: workers never block on
	// send and never touch shared state.
	outcomes := make(chan outcome, len(attempted))

	for _, src := range attempted {
		client, _ := a.registry.Client(src)
		go func(src jobs.Source, client source.Client) {
			records, err := client.SearchJobs(ctx, criteria)
			outcomes <- outcome{src: src, client: client, records: records, err: err}
		}(src, client)
	}

	// Fan-in: only this goroutine mutates the aggregate structures.
	results := make([]*jobs.JobPosting, 0)
	failed := make(map[jobs.Source]bool)

	for range attempted {
		o := <-outcomes
		if o.err != nil {
			a.logger.Warn("source search failed",
				zap.String("source", o.src.String()),
				zap.String("kind", string(jobs.KindOf(o.err))),
				zap.Error(o.err),
			)
			failed[o.src] = true
			continue
		}

		results = append(results, a.normalize(o)...)
	}

	sortByPostedDate(results)

	succeeded := make([]jobs.Source, 0, len(attempted))
	failedList := make([]jobs.Source, 0, len(failed))
	for _, src := range attempted {
		if failed[src] {
			failedList = append(failedList, src)
			continue
		}
		succeeded = append(succeeded, src)
	}

	return &jobs.SearchResponse{
		Criteria:         criteria,
		Results:          results,
		AvailableSources: succeeded,
		FailedSources:    failedList,
		TotalCount:       len(results),
	}, nil
}

// normalize converts one source's raw batch, dropping records that cannot be
// normalized instead of failing the batch.
func (a *Aggregator) normalize(o outcome) []*jobs.JobPosting {
	postings := make([]*jobs.JobPosting, 0, len(o.records))

	for _, raw := range o.records {
		posting, err := o.client.Normalize(raw)
		if err != nil {
			a.logger.Warn("skipping malformed record",
				zap.String("source", o.src.String()),
				zap.Error(err),
			)
			continue
		}
		postings = append(postings, posting)
	}

	a.logger.Debug("normalized source results",
		zap.String("source", o.src.String()),
		zap.Int("raw", len(o.records)),
		zap.Int("kept", len(postings)),
	)

	return postings
}

// sortByPostedDate orders postings by posted date descending. Dates are kept
// in whatever string format each board reports, so this is a best-effort
// lexicographic ordering, not a true chronological one. Postings without a
// date sort last; the merge is returned as-is when nothing is comparable.
func sortByPostedDate(postings []*jobs.JobPosting) {
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].PostedDate > postings[j].PostedDate
	})
}
