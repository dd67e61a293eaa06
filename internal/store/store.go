/*
Package store persists generated reports to dated files and keeps a small JSON
index of what was written.
*/
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

const indexFileName = "reports_index.json"

type index struct {
	Reports map[string]string // date -> file path
}

// Store writes reports under a single directory. Safe for concurrent use.
type Store struct {
	dir       string
	mutex     sync.Mutex
	index     index
	indexPath string
}

// NewStore creates the report directory if needed and loads the index.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	s := &Store{
		dir:       dir,
		indexPath: filepath.Join(dir, indexFileName),
	}
	s.loadIndex()
	return s, nil
}

func (s *Store) loadIndex() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.index = index{Reports: make(map[string]string)}

	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		log.Warnf("Error reading report index (%s): %v. Starting fresh index.", s.indexPath, err)
		return
	}

	var loaded index
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warnf("Error unmarshalling report index: %v. Starting fresh index.", err)
		return
	}
	if loaded.Reports != nil {
		s.index = loaded
	}
}

func (s *Store) saveIndex() {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		log.Warnf("Error marshalling report index: %v", err)
		return
	}
	if err := os.WriteFile(s.indexPath, data, 0o644); err != nil {
		log.Warnf("Error writing report index %s: %v", s.indexPath, err)
	}
}

// Save writes the report for the given date and records it in the index. A
// report saved twice for the same date is overwritten, keeping the cycle
// idempotent for reruns.
func (s *Store) Save(date string, content string) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("%s_AI_Daily.md", date))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.index.Reports[date] = path
	s.saveIndex()

	log.Infof("Report saved: %s", path)
	return path, nil
}

// Lookup returns the stored report path for a date, if any.
func (s *Store) Lookup(date string) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	path, ok := s.index.Reports[date]
	return path, ok
}
