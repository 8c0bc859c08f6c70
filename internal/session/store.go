package session

import (
	"database/sql"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store persists session records. It runs on a JSON file by default and
// on Postgres when given a DSN; reads through an LRU so the hot path of
// the live flow never waits on the backend.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Record

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, Record]
}

const cacheSize = 1024

// New opens a file-backed store at path.
func New(path string) *Store {
	c, _ := lru.New[string, Record](cacheSize)
	return &Store{
		path:  path,
		byID:  make(map[string]Record),
		cache: c,
	}
}

// NewPostgres opens a Postgres-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	c, err := lru.New[string, Record](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: c}, nil
}

// Open picks the backend: Postgres when dsn is non-empty and reachable,
// the file at path otherwise.
func Open(path, dsn string) *Store {
	if strings.TrimSpace(dsn) != "" {
		if s, err := NewPostgres(dsn); err == nil {
			return s
		}
	}
	return New(path)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the record for id.
func (s *Store) Get(id string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false
	}
	if s.cache != nil {
		if r, ok := s.cache.Get(id); ok {
			return r, true
		}
	}
	var (
		r  Record
		ok bool
	)
	if s.db != nil {
		r, ok = s.getDB(id)
	} else {
		r, ok = s.getFile(id)
	}
	if ok && s.cache != nil {
		s.cache.Add(id, r)
	}
	return r, ok
}

// Put writes the record, replacing any prior snapshot of the session.
func (s *Store) Put(r Record) {
	if s == nil {
		return
	}
	r = normalizeRecord(r)
	if r.ID == "" {
		return
	}
	if s.db != nil {
		s.putDB(r)
	} else {
		s.putFile(r)
	}
	if s.cache != nil {
		s.cache.Add(r.ID, r)
	}
}

// Delete removes a session's record, for full resets.
func (s *Store) Delete(id string) {
	if s == nil {
		return
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	if s.cache != nil {
		s.cache.Remove(id)
	}
	if s.db != nil {
		s.deleteDB(id)
	} else {
		s.deleteFile(id)
	}
}

// List returns all persisted records, newest first.
func (s *Store) List() []Record {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}
