package warden

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/viant/warden/service/dao/session"
	"github.com/viant/warden/service/dao/session/fs"
	"github.com/viant/warden/service/hook"
	"github.com/viant/warden/service/review"
	"github.com/viant/warden/service/template"
)

// Service is the engine facade: it owns the store and exposes the hook and
// review services over it.
type Service struct {
	config   Config
	store    dao.Service
	hooks    *hook.Service
	reviews  *review.Service
	logger   *zap.Logger
	provider hook.ContextProvider
}

// New creates an engine facade. Without options the durable store under the
// configured home directory is used.
func New(options ...Option) (*Service, error) {
	service := &Service{
		config: DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(service)
	}

	if service.store == nil {
		store, err := fs.New(filepath.Join(service.config.Storage.Path, "sessions"))
		if err != nil {
			return nil, err
		}
		service.store = store
	}

	templates := template.New(service.config.Storage.Path)
	service.hooks = hook.New(service.store,
		hook.WithConfig(service.config.Hook()),
		hook.WithLogger(service.logger),
		hook.WithTemplates(templates),
		hook.WithContextProvider(service.provider),
	)
	service.reviews = review.New(service.store)
	return service, nil
}

// Hooks returns the lifecycle event handlers.
func (s *Service) Hooks() *hook.Service {
	return s.hooks
}

// Reviews returns the reviewer-facing operations.
func (s *Service) Reviews() *review.Service {
	return s.reviews
}

// Store returns the underlying session store.
func (s *Service) Store() dao.Service {
	return s.store
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.config
}

// Shutdown releases resources. Present for symmetry; the current backends
// hold no connections.
func (s *Service) Shutdown(context.Context) error {
	return nil
}
