package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Record
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeRecord(row)
		}
	})
}

func (s *Store) saveFile() {
	s.mu.RLock()
	rows := make([]Record, 0, len(s.byID))
	for _, r := range s.byID {
		rows = append(rows, r)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(id string) (Record, bool) {
	s.ensureLoadedFile()
	s.mu.RLock()
	r, ok := s.byID[id]
	s.mu.RUnlock()
	return r, ok
}

func (s *Store) putFile(r Record) {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.byID[r.ID] = r
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) deleteFile(id string) {
	s.ensureLoadedFile()
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) listFile() []Record {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]Record, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}
