package repository

import (
	"context"

	"github.com/bnema/omni/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_bookmark.go -package=mocks github.com/bnema/omni/internal/domain/repository BookmarkMirror

// BookmarkMirror is the external durable mirror: a tree of folders and leaves.
type BookmarkMirror interface {
	// CreateFolder creates a folder under parentID (empty = top level).
	CreateFolder(ctx context.Context, parentID entity.BookmarkID, title string) (entity.BookmarkNode, error)

	// CreateLeaf creates a bookmark under parentID.
	CreateLeaf(ctx context.Context, parentID entity.BookmarkID, url, title string) (entity.BookmarkNode, error)

	// ListChildren returns direct children of parentID in position order.
	ListChildren(ctx context.Context, parentID entity.BookmarkID) ([]entity.BookmarkNode, error)

	// RemoveSubtree removes a node and all its descendants.
	RemoveSubtree(ctx context.Context, id entity.BookmarkID) error
}
