// Package history records which media ids were served to each user so
// recent recommendations are not repeated.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"movierec/internal/model"
)

// Record is one served recommendation.
type Record struct {
	UserID    string          `json:"user_id"`
	MediaID   int             `json:"media_id"`
	MediaType model.MediaType `json:"media_type"`
	Timestamp int64           `json:"timestamp"`
}

// Store persists and queries served-recommendation history.
type Store interface {
	// RecentMediaIDs returns the media ids served to the user within the
	// last N days.
	RecentMediaIDs(userID string, days int) ([]int, error)
	// Save appends served items for the user.
	Save(userID string, items []model.ScoredCandidate) error
}

// FileStore is an append-only jsonl implementation with an in-memory index.
type FileStore struct {
	filePath string
	mu       sync.RWMutex
	records  []Record
}

// NewFileStore opens (or creates) the history file and loads it into memory.
func NewFileStore(filePath string) (*FileStore, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	fs := &FileStore{filePath: filePath}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			// Skip corrupt lines rather than failing startup.
			continue
		}
		s.records = append(s.records, record)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan history file: %w", err)
	}
	return nil
}

// RecentMediaIDs scans the in-memory records for the user's recent items.
func (s *FileStore) RecentMediaIDs(userID string, days int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Unix() - int64(days*24*60*60)
	var ids []int
	for _, r := range s.records {
		if r.UserID == userID && r.Timestamp >= cutoff {
			ids = append(ids, r.MediaID)
		}
	}
	return ids, nil
}

// Save appends the served items to the file and the in-memory index.
func (s *FileStore) Save(userID string, items []model.ScoredCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file for appending: %w", err)
	}
	defer f.Close()

	now := time.Now().Unix()
	encoder := json.NewEncoder(f)
	for _, item := range items {
		record := Record{
			UserID:    userID,
			MediaID:   item.ID,
			MediaType: item.MediaType,
			Timestamp: now,
		}
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write history record: %w", err)
		}
		s.records = append(s.records, record)
	}
	return nil
}

// Cleanup drops records older than the retention window and rewrites the
// file.
func (s *FileStore) Cleanup(retainDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Unix() - int64(retainDays*24*60*60)
	kept := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Timestamp >= cutoff {
			kept = append(kept, r)
		}
	}

	tmpPath := s.filePath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	encoder := json.NewEncoder(f)
	for _, r := range kept {
		if err := encoder.Encode(r); err != nil {
			f.Close()
			return fmt.Errorf("failed to rewrite history record: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp history file: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	s.records = kept
	return nil
}
