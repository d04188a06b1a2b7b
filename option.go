package warden

import (
	"go.uber.org/zap"

	"github.com/viant/warden/service/dao/session"
	"github.com/viant/warden/service/hook"
)

// Option customizes the engine facade.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithStore sets the session store; the default is the durable store under
// the configured home directory.
func WithStore(store dao.Service) Option {
	return func(s *Service) { s.store = store }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithContextProvider sets the session-start context provider.
func WithContextProvider(provider hook.ContextProvider) Option {
	return func(s *Service) { s.provider = provider }
}
