// Package fs implements the durable, file-backed session store. One JSON
// document per session lives under <base>/<id>.json; writes land in a
// temporary file first and become visible through a single atomic move, so a
// crash mid-write never produces a corrupted record.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/warden/model/session"
	dao "github.com/viant/warden/service/dao/session"
)

// Service implements a filesystem-based session store.
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service = (*Service)(nil)

// Get loads a session record; a missing id yields (nil, nil).
func (s *Service) Get(ctx context.Context, id string) (*session.State, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.sessionPath(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check session %s: %w", id, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file %s: %w", location, err)
	}

	state := &session.State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return state, nil
}

// Put persists a session record atomically: the document is uploaded to a
// temporary location and swapped in with a single move.
func (s *Service) Put(ctx context.Context, state *session.State) error {
	if state == nil {
		return dao.ErrNilState
	}
	if state.SessionID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", state.SessionID, err)
	}

	// The temp name keeps the .json extension so afs Move renames it in
	// place instead of treating the destination as a folder.
	temp := s.sessionPath(state.SessionID + ".tmp")
	if err := s.fs.Upload(ctx, temp, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", temp, err)
	}
	if err := s.fs.Move(ctx, temp, s.sessionPath(state.SessionID)); err != nil {
		return fmt.Errorf("failed to commit session file %s: %w", temp, err)
	}
	return nil
}

// List scans the sessions directory and returns up to limit summaries sorted
// by creation time descending. Unreadable or malformed records are skipped so
// one corrupted file never hides the rest.
func (s *Service) List(ctx context.Context, limit int) ([]*dao.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	var summaries []*dao.Summary
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			continue
		}
		state := &session.State{}
		if err := json.Unmarshal(data, state); err != nil || state.SessionID == "" {
			continue
		}
		summaries = append(summaries, dao.Summarize(state))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Delete removes a session record; a missing record is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.sessionPath(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check session %s: %w", id, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete session file %s: %w", location, err)
	}
	return nil
}

// sessionPath returns the file path for a session record.
func (s *Service) sessionPath(id string) string {
	return url.Join(s.basePath, fmt.Sprintf("%s.json", id))
}

// New creates a filesystem session store rooted at basePath, creating the
// directory when absent.
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create sessions directory: %w", err)
		}
	}
	basePath = url.Normalize(basePath, file.Scheme)

	return &Service{basePath: basePath, fs: fs}, nil
}
