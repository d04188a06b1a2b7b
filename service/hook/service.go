// Package hook implements the admission-control handlers invoked by the
// agent runtime on lifecycle events. Every handler follows the same shape:
// load session state, decide, persist, answer. Infrastructure failures never
// block the reviewed agent; the handlers log a warning and fail open.
package hook

import (
	"context"

	"go.uber.org/zap"

	"github.com/viant/warden/model/session"
	"github.com/viant/warden/service/dao/session"
	"github.com/viant/warden/service/gate"
	"github.com/viant/warden/service/template"
)

// Review modes controlling when a prompt opens a review cycle.
const (
	ModeAlways = "always"
	ModePrompt = "prompt"
	ModeNever  = "never"
)

// Defaults for the reviewer wiring.
const (
	DefaultReviewerAgent = "warden:reviewer"
	DefaultTriggerPrefix = "#warden"
)

// Config carries the tunable behaviour of the handlers.
type Config struct {
	// Mode selects when prompts trigger review: always, prompt or never.
	Mode string `json:"mode" yaml:"mode"`

	// TriggerPrefix marks review-triggering prompts in prompt mode.
	TriggerPrefix string `json:"trigger_prefix" yaml:"trigger_prefix"`

	// ReviewerAgent is the subagent type whose completion is validated.
	ReviewerAgent string `json:"reviewer_agent" yaml:"reviewer_agent"`

	Gates     gate.Config           `json:"gates" yaml:"gates"`
	Breaker   session.BreakerConfig `json:"circuit_breaker" yaml:"circuit_breaker"`
	Trace     session.TraceConfig   `json:"trace" yaml:"trace"`
	Templates template.Config       `json:"templates" yaml:"templates"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Mode:          ModePrompt,
		TriggerPrefix: DefaultTriggerPrefix,
		ReviewerAgent: DefaultReviewerAgent,
		Gates:         gate.DefaultConfig(),
		Breaker:       session.DefaultBreakerConfig(),
		Trace:         session.DefaultTraceConfig(),
		Templates:     template.DefaultConfig(),
	}
}

// ContextProvider supplies optional text injected at session start, e.g. an
// inventory of available second-opinion reviewers.
type ContextProvider func(ctx context.Context) string

// Service dispatches lifecycle events to their handlers.
type Service struct {
	store     dao.Service
	templates *template.Service
	config    Config
	logger    *zap.Logger
	provider  ContextProvider
}

// Option customizes a hook service.
type Option func(*Service)

// WithLogger sets the structured logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithContextProvider sets the session-start context provider.
func WithContextProvider(provider ContextProvider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithTemplates sets the template service used to render block messages.
func WithTemplates(templates *template.Service) Option {
	return func(s *Service) {
		if templates != nil {
			s.templates = templates
		}
	}
}

// New creates a hook service over the supplied store.
func New(store dao.Service, options ...Option) *Service {
	service := &Service{
		store:     store,
		templates: template.New(""),
		config:    DefaultConfig(),
		logger:    zap.NewNop(),
	}
	for _, option := range options {
		option(service)
	}
	if service.config.Mode == "" {
		service.config.Mode = ModePrompt
	}
	if service.config.TriggerPrefix == "" {
		service.config.TriggerPrefix = DefaultTriggerPrefix
	}
	if service.config.ReviewerAgent == "" {
		service.config.ReviewerAgent = DefaultReviewerAgent
	}
	return service
}

// Config exposes the effective configuration.
func (s *Service) Config() Config {
	return s.config
}

// save persists state, logging instead of failing: by the time a handler
// saves, the admission answer has already been decided.
func (s *Service) save(ctx context.Context, state *session.State) {
	if err := s.store.Put(ctx, state); err != nil {
		s.logger.Warn("failed to save session state",
			zap.String("session_id", state.SessionID),
			zap.Error(err))
	}
}
