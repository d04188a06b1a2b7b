// Package template selects and renders the block message shown to the
// reviewed agent. Selection supports weighted A/B variants; rendering is a
// single placeholder substitution. Anything richer belongs to the embedding
// presentation layer.
package template

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/viant/afs"
)

// DefaultBlockTemplate is used when no custom template file is installed.
const DefaultBlockTemplate = `Review required before exit.

Spawn the reviewer agent with this prompt:

` + "```" + `
SESSION_ID={{session_id}}

## Summary
[What you did and why]

## Files Changed
[List of modified files]
` + "```" + `
`

// Config selects the active template variant.
type Config struct {
	// Active is a template id, or "random" for weighted selection.
	Active string `json:"active" yaml:"active"`

	// Weights drive random selection, e.g. {"v1": 70, "v2": 30}.
	Weights map[string]int `json:"weights" yaml:"weights"`
}

// DefaultConfig always selects the built-in default template.
func DefaultConfig() Config {
	return Config{Active: "default", Weights: map[string]int{"default": 100}}
}

// Service loads block templates from a directory, falling back to the
// built-in default.
type Service struct {
	baseDir string
	fs      afs.Service
}

// New creates a template service reading custom templates from
// <baseDir>/templates.
func New(baseDir string) *Service {
	return &Service{baseDir: baseDir, fs: afs.New()}
}

// Select returns the template id to use for the next block message.
func (s *Service) Select(config Config) string {
	if config.Active != "random" {
		if config.Active == "" {
			return "default"
		}
		return config.Active
	}
	return weightedRandom(config.Weights)
}

// Load returns the template body for id, falling back to the default when no
// custom file exists.
func (s *Service) Load(ctx context.Context, id string) string {
	if s.baseDir != "" {
		location := path.Join(s.baseDir, "templates", "block-"+id+".md")
		if data, err := s.fs.DownloadWithURL(ctx, location); err == nil && len(data) > 0 {
			return string(data)
		}
	}
	return DefaultBlockTemplate
}

// Render substitutes the session identifier into a template body.
func Render(body, sessionID string) string {
	return strings.ReplaceAll(body, "{{session_id}}", sessionID)
}

// weightedRandom picks a template id with probability proportional to its
// weight. The roll is derived from the wall clock, which spreads selections
// well enough for A/B usage without a dedicated random source.
func weightedRandom(weights map[string]int) string {
	if len(weights) == 0 {
		return "default"
	}
	total := 0
	for _, weight := range weights {
		total += weight
	}
	if total <= 0 {
		for id := range weights {
			return id
		}
	}

	roll := int(time.Now().UnixNano() % int64(total))
	cumulative := 0
	for id, weight := range weights {
		cumulative += weight
		if roll < cumulative {
			return id
		}
	}
	for id := range weights {
		return id
	}
	return "default"
}
