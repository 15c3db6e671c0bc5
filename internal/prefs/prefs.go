package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"panaudit/internal/logging"
)

const dateLayout = "2006-01-02"

type values struct {
	LastDate string `json:"last_date,omitempty"`
	ViewMode string `json:"view_mode,omitempty"`
}

// Store provides thread-safe access to the preference file. If path is
// empty, the store is non-functional (all operations become no-ops).
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	values values
}

// NewStore creates a preference store. The file is created lazily on first
// write; a corrupt or missing file starts the store empty.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "prefs")

	s := &Store{path: path, logger: logger}
	if path == "" {
		return s
	}

	if err := s.load(); err != nil {
		logger.Warn("failed to load preferences, starting empty", logging.Error(err))
	}
	return s
}

// LastDate returns the remembered audit date. Dates that don't parse or lie
// in the future relative to now are treated as absent.
func (s *Store) LastDate(now time.Time) (string, bool) {
	s.mu.RLock()
	stored := strings.TrimSpace(s.values.LastDate)
	s.mu.RUnlock()

	if stored == "" {
		return "", false
	}
	parsed, err := time.ParseInLocation(dateLayout, stored, now.Location())
	if err != nil {
		return "", false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.After(today) {
		return "", false
	}
	return stored, true
}

// SetLastDate remembers an audit date.
func (s *Store) SetLastDate(date string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.LastDate = date
	return s.save()
}

// ClearLastDate forgets the remembered date. Called whenever a restaurant is
// selected or an audit starts.
func (s *Store) ClearLastDate() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values.LastDate == "" {
		return nil
	}
	s.values.LastDate = ""
	return s.save()
}

// ViewMode returns the preferred view mode, empty when unset.
func (s *Store) ViewMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.ViewMode
}

// SetViewMode remembers the preferred view mode.
func (s *Store) SetViewMode(mode string) error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.ViewMode = strings.TrimSpace(mode)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read preference file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return fmt.Errorf("parse preference file: %w", err)
	}
	return nil
}

// save writes the preferences to disk atomically.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preference directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preference file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preference file: %w", err)
	}
	return nil
}
