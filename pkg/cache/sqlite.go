// Package cache хранит ответы REST API в локальной SQLite базе.
//
// Ключ - полный URL запроса с query, значение - тело ответа.
// У записи есть срок жизни; просроченные записи не отдаются
// и удаляются через Purge.
//
// Использование:
//
//	store, err := cache.New("plenty-cache.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	client, err := plenty.NewFromConfig(cfg.Plenty, plenty.WithCache(store, cfg.Cache.TTL))
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ilkoid/plenty-api/pkg/plenty"
)

// Store - кэш ответов поверх SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Проверка что Store реализует plenty.ResponseCache
var _ plenty.ResponseCache = (*Store)(nil)

// Option настраивает Store.
type Option func(*Store)

// WithNow подменяет источник текущего времени (тесты).
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New открывает (или создаёт) базу по пути dbPath.
// ":memory:" - база в памяти.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// Одно соединение: для ":memory:" каждое соединение - отдельная база
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return store, nil
}

// Close закрывает соединение с базой.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		stored_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_responses_expires_at
		ON responses(expires_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get возвращает тело ответа по ключу.
// Отсутствующая или просроченная запись даёт (nil, false, nil).
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		body      []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT body, expires_at FROM responses WHERE key = ?`, key,
	).Scan(&body, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	if s.now().UnixNano() >= expiresAt {
		return nil, false, nil
	}
	return body, true, nil
}

// Put сохраняет тело ответа. Существующая запись перезаписывается.
// ttl <= 0 - запись не сохраняется.
func (s *Store) Put(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO responses (key, body, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, key, body, now.UnixNano(), now.Add(ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Purge удаляет просроченные записи и возвращает их количество.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM responses WHERE expires_at <= ?`, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	return res.RowsAffected()
}

// Len возвращает количество записей, включая просроченные.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache len: %w", err)
	}
	return n, nil
}
