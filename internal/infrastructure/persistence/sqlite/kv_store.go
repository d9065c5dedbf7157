package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/logging"
)

// AreaLocal is the kv area holding the authoritative local tier.
const AreaLocal = "local"

type kvStore struct {
	provider port.DatabaseProvider
	area     string
}

// NewKVStore returns a key-value tier stored in the kv_store table under area.
func NewKVStore(provider port.DatabaseProvider, area string) repository.KeyValueStore {
	return newKVStore(provider, area)
}

var _ repository.Updater = (*kvStore)(nil)

func newKVStore(provider port.DatabaseProvider, area string) *kvStore {
	return &kvStore{provider: provider, area: area}
}

func (s *kvStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := "SELECT key, value FROM kv_store WHERE area = ?"
	args := []any{s.area}
	if len(keys) > 0 {
		query += " AND key IN (" + placeholders(len(keys)) + ")"
		for _, k := range keys {
			args = append(args, k)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query kv %s: %w", s.area, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan kv %s: %w", s.area, err)
		}
		out[key] = json.RawMessage(value)
	}
	return out, rows.Err()
}

func (s *kvStore) Set(ctx context.Context, entries map[string]json.RawMessage) error {
	log := logging.FromContext(ctx)
	if len(entries) == 0 {
		return nil
	}
	db, err := s.provider.DB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kv transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("kv rollback reported non-terminal error")
		}
	}()

	for key, value := range entries {
		if !json.Valid(value) {
			return fmt.Errorf("kv %s: value for %q is not valid JSON", s.area, key)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv_store (area, key, value, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(area, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			s.area, key, string(value)); err != nil {
			return fmt.Errorf("upsert kv %s/%s: %w", s.area, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit kv transaction: %w", err)
	}
	return nil
}

// Update holds a write lock on the database from the read to the write, so a
// concurrent omni process sharing the file cannot interleave its own update.
func (s *kvStore) Update(
	ctx context.Context,
	key string,
	fn func(current json.RawMessage) (json.RawMessage, error),
) (err error) {
	log := logging.FromContext(ctx)
	db, err := s.provider.DB(ctx)
	if err != nil {
		return err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire kv connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("begin kv update: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if _, rollbackErr := conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK"); rollbackErr != nil {
			log.Debug().Err(rollbackErr).Msg("kv update rollback reported non-terminal error")
		}
	}()

	var current json.RawMessage
	var value string
	err = conn.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE area = ? AND key = ?", s.area, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	case err != nil:
		return fmt.Errorf("read kv %s/%s: %w", s.area, key, err)
	default:
		current = json.RawMessage(value)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if !json.Valid(next) {
		return fmt.Errorf("kv %s: value for %q is not valid JSON", s.area, key)
	}
	if _, err = conn.ExecContext(ctx, `
		INSERT INTO kv_store (area, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(area, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.area, key, string(next)); err != nil {
		return fmt.Errorf("upsert kv %s/%s: %w", s.area, key, err)
	}
	if _, err = conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit kv update: %w", err)
	}
	return nil
}

func (s *kvStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	db, err := s.provider.DB(ctx)
	if err != nil {
		return err
	}
	args := []any{s.area}
	for _, k := range keys {
		args = append(args, k)
	}
	_, err = db.ExecContext(ctx,
		"DELETE FROM kv_store WHERE area = ? AND key IN ("+placeholders(len(keys))+")", args...)
	if err != nil {
		return fmt.Errorf("delete kv %s: %w", s.area, err)
	}
	return nil
}

func (s *kvStore) Clear(ctx context.Context) error {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM kv_store WHERE area = ?", s.area); err != nil {
		return fmt.Errorf("clear kv %s: %w", s.area, err)
	}
	return nil
}

func (s *kvStore) BytesInUse(ctx context.Context, keys ...string) (int, error) {
	entries, err := s.Get(ctx, keys...)
	if err != nil {
		return 0, err
	}
	total := 0
	for k, v := range entries {
		total += len(k) + len(v)
	}
	return total, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
