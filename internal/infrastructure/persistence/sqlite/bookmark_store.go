package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/logging"
)

type bookmarkStore struct {
	provider port.DatabaseProvider
}

// NewBookmarkStore returns the external mirror backed by the bookmark_nodes table.
func NewBookmarkStore(provider port.DatabaseProvider) repository.BookmarkMirror {
	return &bookmarkStore{provider: provider}
}

func (s *bookmarkStore) CreateFolder(ctx context.Context, parentID entity.BookmarkID, title string) (entity.BookmarkNode, error) {
	return s.insert(ctx, parentID, title, "")
}

func (s *bookmarkStore) CreateLeaf(ctx context.Context, parentID entity.BookmarkID, url, title string) (entity.BookmarkNode, error) {
	if url == "" {
		return entity.BookmarkNode{}, errors.New("bookmark url cannot be empty")
	}
	return s.insert(ctx, parentID, title, url)
}

func (s *bookmarkStore) insert(ctx context.Context, parentID entity.BookmarkID, title, url string) (entity.BookmarkNode, error) {
	log := logging.FromContext(ctx)
	db, err := s.provider.DB(ctx)
	if err != nil {
		return entity.BookmarkNode{}, err
	}

	parent, err := parseNodeID(parentID)
	if err != nil {
		return entity.BookmarkNode{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return entity.BookmarkNode{}, fmt.Errorf("begin bookmark transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("bookmark rollback reported non-terminal error")
		}
	}()

	if parent.Valid {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM bookmark_nodes WHERE id = ? AND url IS NULL", parent.Int64).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.BookmarkNode{}, fmt.Errorf("bookmark folder %s: %w", parentID, entity.ErrNotFound)
		}
		if err != nil {
			return entity.BookmarkNode{}, fmt.Errorf("lookup bookmark folder: %w", err)
		}
	}

	var position int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM bookmark_nodes WHERE parent_id IS ?", parent,
	).Scan(&position); err != nil {
		return entity.BookmarkNode{}, fmt.Errorf("next bookmark position: %w", err)
	}

	var urlValue sql.NullString
	if url != "" {
		urlValue = sql.NullString{String: url, Valid: true}
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookmark_nodes (parent_id, title, url, position) VALUES (?, ?, ?, ?)",
		parent, title, urlValue, position)
	if err != nil {
		return entity.BookmarkNode{}, fmt.Errorf("insert bookmark: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return entity.BookmarkNode{}, err
	}

	if err := tx.Commit(); err != nil {
		return entity.BookmarkNode{}, fmt.Errorf("commit bookmark transaction: %w", err)
	}

	return entity.BookmarkNode{
		ID:       formatNodeID(id),
		ParentID: parentID,
		Title:    title,
		URL:      url,
		Position: position,
	}, nil
}

func (s *bookmarkStore) ListChildren(ctx context.Context, parentID entity.BookmarkID) ([]entity.BookmarkNode, error) {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return nil, err
	}
	parent, err := parseNodeID(parentID)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, title, url, position FROM bookmark_nodes WHERE parent_id IS ? ORDER BY position, id", parent)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var nodes []entity.BookmarkNode
	for rows.Next() {
		var (
			id       int64
			title    string
			url      sql.NullString
			position int
		)
		if err := rows.Scan(&id, &title, &url, &position); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		nodes = append(nodes, entity.BookmarkNode{
			ID:       formatNodeID(id),
			ParentID: parentID,
			Title:    title,
			URL:      url.String,
			Position: position,
		})
	}
	return nodes, rows.Err()
}

func (s *bookmarkStore) RemoveSubtree(ctx context.Context, id entity.BookmarkID) error {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return err
	}
	nodeID, err := parseNodeID(id)
	if err != nil {
		return err
	}
	if !nodeID.Valid {
		return errors.New("cannot remove the mirror root")
	}

	// children go through ON DELETE CASCADE
	res, err := db.ExecContext(ctx, "DELETE FROM bookmark_nodes WHERE id = ?", nodeID.Int64)
	if err != nil {
		return fmt.Errorf("remove bookmark subtree: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("bookmark %s: %w", id, entity.ErrNotFound)
	}
	return nil
}

func parseNodeID(id entity.BookmarkID) (sql.NullInt64, error) {
	if id == "" {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("invalid bookmark id %q: %w", id, err)
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func formatNodeID(id int64) entity.BookmarkID {
	return entity.BookmarkID(strconv.FormatInt(id, 10))
}
