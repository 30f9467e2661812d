package source

import (
	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
	"github.com/tlegrand/emploi-assistant/internal/source/francetravail"
	"github.com/tlegrand/emploi-assistant/internal/source/glassdoor"
	"github.com/tlegrand/emploi-assistant/internal/source/indeed"
	"github.com/tlegrand/emploi-assistant/internal/source/linkedin"
)

// Config holds the per-source credential blocks. A nil block means the source
// is intentionally not configured.
type Config struct {
	FranceTravail *francetravail.Config `mapstructure:"france-travail"`
	LinkedIn      *linkedin.Config      `mapstructure:"linkedin"`
	Indeed        *indeed.Config        `mapstructure:"indeed"`
	Glassdoor     *glassdoor.Config     `mapstructure:"glassdoor"`
}

// Registry holds the set of configured source clients. A source whose client
// could not be built (missing credentials) is recorded as absent; construction
// never fails past the registry boundary.
type Registry struct {
	clients map[jobs.Source]Client
}

// NewRegistry builds every client the config allows. Sources that cannot be
// configured are logged and skipped.
func NewRegistry(cfg Config, logger *zap.Logger) *Registry {
	r := &Registry{clients: make(map[jobs.Source]Client)}

	r.add(jobs.SourceFranceTravail, logger, func() (Client, error) {
		if cfg.FranceTravail == nil {
			return nil, nil
		}
		return francetravail.New(*cfg.FranceTravail, logger)
	})
	r.add(jobs.SourceLinkedIn, logger, func() (Client, error) {
		if cfg.LinkedIn == nil {
			return nil, nil
		}
		return linkedin.New(*cfg.LinkedIn, logger)
	})
	r.add(jobs.SourceIndeed, logger, func() (Client, error) {
		if cfg.Indeed == nil {
			return nil, nil
		}
		return indeed.New(*cfg.Indeed, logger)
	})
	r.add(jobs.SourceGlassdoor, logger, func() (Client, error) {
		if cfg.Glassdoor == nil {
			return nil, nil
		}
		return glassdoor.New(*cfg.Glassdoor, logger)
	})

	return r
}

func (r *Registry) add(src jobs.Source, logger *zap.Logger, build func() (Client, error)) {
	client, err := build()
	if err != nil {
		logger.Warn("source is unavailable",
			zap.String("source", src.String()),
			zap.Error(err),
		)
		return
	}
	if client == nil {
		logger.Debug("source is not configured", zap.String("source", src.String()))
		return
	}

	r.clients[src] = client
}

// Available returns the configured sources in a stable order.
func (r *Registry) Available() []jobs.Source {
	available := make([]jobs.Source, 0, len(r.clients))
	for _, src := range jobs.AllSources() {
		if _, ok := r.clients[src]; ok {
			available = append(available, src)
		}
	}
	return available
}

// Client returns the client for the given source, if configured.
func (r *Registry) Client(src jobs.Source) (Client, bool) {
	client, ok := r.clients[src]
	return client, ok
}

// Register installs a client directly. It is used by tests and by callers
// assembling a registry from non-standard clients.
func (r *Registry) Register(client Client) {
	if r.clients == nil {
		r.clients = make(map[jobs.Source]Client)
	}
	r.clients[client.Source()] = client
}

// NewEmptyRegistry returns a registry with no configured sources.
func NewEmptyRegistry() *Registry {
	return &Registry{clients: make(map[jobs.Source]Client)}
}
