package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"readiness-mcp/internal/workspace"

	"github.com/rs/zerolog/log"
)

// Store keeps simulation runs per workspace, backed by one JSONL file each.
type Store struct {
	dir string

	saveMu sync.Mutex // serialises writers of the temp file
	mu     sync.RWMutex
	runs   map[string][]Run // Partitioned by workspace ID
	loaded map[string]bool
}

// NewStore creates a store rooted at dir. An empty dir keeps runs in memory only.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		runs:   make(map[string][]Run),
		loaded: make(map[string]bool),
	}
}

// Append adds runs for a workspace, skipping simulation IDs already present,
// and keeps the log ordered by completion time.
func (s *Store) Append(workspaceID string, runs []Run) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(workspaceID, runs)
}

func (s *Store) appendLocked(workspaceID string, runs []Run) int {
	existing := s.runs[workspaceID]
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.SimulationID] = true
	}

	added := 0
	for _, r := range runs {
		if r.SimulationID == "" || seen[r.SimulationID] {
			continue
		}
		seen[r.SimulationID] = true
		existing = append(existing, r)
		added++
	}
	if added == 0 {
		return 0
	}

	sort.SliceStable(existing, func(i, j int) bool {
		if !existing[i].CompletedAt.Equal(existing[j].CompletedAt) {
			return existing[i].CompletedAt.Before(existing[j].CompletedAt)
		}
		return existing[i].SimulationID < existing[j].SimulationID
	})
	s.runs[workspaceID] = existing
	return added
}

func (s *Store) path(workspaceID string) (string, error) {
	if !workspace.ValidID(workspaceID) {
		return "", fmt.Errorf("invalid workspace id %q", workspaceID)
	}
	return filepath.Join(s.dir, workspaceID+".jsonl"), nil
}

// Load merges the persisted runs of a workspace into memory. A missing file is not an error.
func (s *Store) Load(workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(workspaceID)
}

func (s *Store) loadLocked(workspaceID string) error {
	if s.dir == "" || s.loaded[workspaceID] {
		return nil
	}
	path, err := s.path(workspaceID)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded[workspaceID] = true
			return nil
		}
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer file.Close()

	var runs []Run
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r Run
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			log.Warn().Err(err).Str("workspace", workspaceID).Msg("Skipping invalid JSON line in run history")
			continue
		}
		runs = append(runs, r)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading run history: %w", err)
	}

	s.loaded[workspaceID] = true
	s.appendLocked(workspaceID, runs)
	log.Debug().Str("workspace", workspaceID).Int("count", len(runs)).Msg("Loaded run history")
	return nil
}

// Save writes the runs of a workspace to disk via a temp file and rename.
func (s *Store) Save(workspaceID string) error {
	if s.dir == "" {
		return nil
	}
	path, err := s.path(workspaceID)
	if err != nil {
		return err
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	runs := append([]Run(nil), s.runs[workspaceID]...)
	s.mu.RUnlock()
	if len(runs) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, r := range runs {
		if err := encoder.Encode(r); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode run: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename history file: %w", err)
	}
	return nil
}

// Record loads the workspace's history if needed, appends run and persists it.
func (s *Store) Record(run Run) error {
	s.mu.Lock()
	if err := s.loadLocked(run.WorkspaceID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.appendLocked(run.WorkspaceID, []Run{run})
	s.mu.Unlock()

	return s.Save(run.WorkspaceID)
}

// Recent returns up to limit runs of a workspace, newest first. limit <= 0 returns all.
func (s *Store) Recent(workspaceID string, limit int) ([]Run, error) {
	s.mu.Lock()
	err := s.loadLocked(workspaceID)
	runs := s.runs[workspaceID]
	out := make([]Run, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of runs held in memory for a workspace.
func (s *Store) Count(workspaceID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs[workspaceID])
}
