package session

import (
	"encoding/json"
	"log"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  stage TEXT NOT NULL DEFAULT 'welcome',
  cat_name TEXT NOT NULL DEFAULT '',
  record JSONB NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sessions_stage ON sessions (stage);
`)
	})
	return s.schemaErr
}

func (s *Store) getDB(id string) (Record, bool) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false
	}
	var raw []byte
	if err := s.db.QueryRow(`SELECT record FROM sessions WHERE id = $1`, id).Scan(&raw); err != nil {
		return Record{}, false
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, false
	}
	return normalizeRecord(r), true
}

func (s *Store) putDB(r Record) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	_, err = s.db.Exec(`
INSERT INTO sessions (id, stage, cat_name, record, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id)
DO UPDATE SET stage=EXCLUDED.stage,
  cat_name=EXCLUDED.cat_name,
  record=EXCLUDED.record,
  updated_at=EXCLUDED.updated_at`,
		r.ID, string(r.Stage), r.CatName, raw, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		log.Printf("session: persist %s failed: %v", r.ID, err)
	}
}

func (s *Store) deleteDB(id string) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	_, _ = s.db.Exec(`DELETE FROM sessions WHERE id = $1`, id)
}

func (s *Store) listDB() []Record {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT record FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		out = append(out, normalizeRecord(r))
	}
	return out
}
