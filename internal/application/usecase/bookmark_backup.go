package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/logging"
)

var (
	folderIDPattern     = regexp.MustCompile(`\[([^\[\]]*)\]$`)
	folderSuffixPattern = regexp.MustCompile(`\s*\[[^\[\]]*\]$`)
)

// bookmarkBackup maps sessions onto the mirror tree:
//
//	Omni Sessions/Auto Backup/<name> [<id>]/[Window N (K tabs)/]<leaf>
type bookmarkBackup struct {
	mirror repository.BookmarkMirror
	newID  func() entity.SessionID
}

func newBookmarkBackup(mirror repository.BookmarkMirror, newID func() entity.SessionID) *bookmarkBackup {
	return &bookmarkBackup{mirror: mirror, newID: newID}
}

func (b *bookmarkBackup) findFolder(ctx context.Context, parent entity.BookmarkID, title string) (entity.BookmarkNode, bool, error) {
	children, err := b.mirror.ListChildren(ctx, parent)
	if err != nil {
		return entity.BookmarkNode{}, false, err
	}
	for _, c := range children {
		if c.IsFolder() && c.Title == title {
			return c, true, nil
		}
	}
	return entity.BookmarkNode{}, false, nil
}

// write replaces the backup folder with the given sessions.
func (b *bookmarkBackup) write(ctx context.Context, sessions []entity.Session) error {
	log := logging.FromContext(ctx)

	root, ok, err := b.findFolder(ctx, "", entity.MirrorRootTitle)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}
	if !ok {
		if root, err = b.mirror.CreateFolder(ctx, "", entity.MirrorRootTitle); err != nil {
			return fmt.Errorf("%w: create root: %v", entity.ErrMirrorUnavailable, err)
		}
	}

	old, ok, err := b.findFolder(ctx, root.ID, entity.MirrorBackupTitle)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}
	if ok {
		if err := b.mirror.RemoveSubtree(ctx, old.ID); err != nil {
			return fmt.Errorf("%w: clear backup: %v", entity.ErrMirrorUnavailable, err)
		}
	}

	backup, err := b.mirror.CreateFolder(ctx, root.ID, entity.MirrorBackupTitle)
	if err != nil {
		return fmt.Errorf("%w: create backup: %v", entity.ErrMirrorUnavailable, err)
	}

	leaves := 0
	for _, s := range sessions {
		n, err := b.writeSession(ctx, backup.ID, s)
		if err != nil {
			return fmt.Errorf("%w: session %s: %v", entity.ErrMirrorUnavailable, s.ID, err)
		}
		leaves += n
	}

	log.Debug().Str(logging.FieldEvent, "mirror_written").Int("sessions", len(sessions)).Int("bookmarks", leaves).
		Msg("bookmark mirror updated")
	return nil
}

func (b *bookmarkBackup) writeSession(ctx context.Context, parent entity.BookmarkID, s entity.Session) (int, error) {
	name := s.Name
	if strings.TrimSpace(name) == "" {
		name = "Session"
	}
	folder, err := b.mirror.CreateFolder(ctx, parent, fmt.Sprintf("%s [%s]", name, s.ID))
	if err != nil {
		return 0, err
	}

	if len(s.Windows) <= 1 {
		return b.writeLeaves(ctx, folder.ID, entity.FlattenWindows(s.Windows))
	}

	total := 0
	for i, w := range s.Windows {
		sub, err := b.mirror.CreateFolder(ctx, folder.ID, fmt.Sprintf("Window %d (%d tabs)", i+1, len(w.Tabs)))
		if err != nil {
			return total, err
		}
		n, err := b.writeLeaves(ctx, sub.ID, w.Tabs)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (b *bookmarkBackup) writeLeaves(ctx context.Context, parent entity.BookmarkID, tabs []entity.TabSnapshot) (int, error) {
	n := 0
	for _, t := range tabs {
		if t.URL == "" {
			continue
		}
		title := t.Title
		if title == "" {
			title = t.URL
		}
		if _, err := b.mirror.CreateLeaf(ctx, parent, t.URL, title); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// read rebuilds sessions from the backup folder. A missing folder yields no sessions.
func (b *bookmarkBackup) read(ctx context.Context, now time.Time) ([]entity.Session, error) {
	root, ok, err := b.findFolder(ctx, "", entity.MirrorRootTitle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}
	if !ok {
		return nil, nil
	}
	backup, ok, err := b.findFolder(ctx, root.ID, entity.MirrorBackupTitle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}
	if !ok {
		return nil, nil
	}

	folders, err := b.mirror.ListChildren(ctx, backup.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}

	sessions := make([]entity.Session, 0, len(folders))
	for _, folder := range folders {
		if !folder.IsFolder() {
			continue
		}
		windows, err := b.readWindows(ctx, folder.ID, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
		}
		if len(windows) == 0 {
			continue
		}
		id, name := parseFolderTitle(folder.Title)
		if id == "" {
			id = b.newID()
		}
		sessions = append(sessions, entity.NewSession(id, name, windows, now))
	}
	return sessions, nil
}

// readWindows accepts leaves directly under the session folder (one window)
// and window sub-folders (one window each).
func (b *bookmarkBackup) readWindows(ctx context.Context, folder entity.BookmarkID, now time.Time) ([]entity.WindowGroup, error) {
	children, err := b.mirror.ListChildren(ctx, folder)
	if err != nil {
		return nil, err
	}

	saved := entity.NewTimestamp(now)
	var (
		direct  entity.WindowGroup
		windows []entity.WindowGroup
	)
	for _, c := range children {
		if !c.IsFolder() {
			direct.Tabs = append(direct.Tabs, leafSnapshot(c, 0, len(direct.Tabs), saved))
			continue
		}
		leaves, err := b.mirror.ListChildren(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		windowID := len(windows) + 1
		group := entity.WindowGroup{WindowID: windowID}
		for _, leaf := range leaves {
			if leaf.IsFolder() {
				continue
			}
			group.Tabs = append(group.Tabs, leafSnapshot(leaf, windowID, len(group.Tabs), saved))
		}
		windows = append(windows, group)
	}
	if len(direct.Tabs) > 0 {
		windows = append([]entity.WindowGroup{direct}, windows...)
	}
	return windows, nil
}

func leafSnapshot(n entity.BookmarkNode, windowID, index int, saved entity.Timestamp) entity.TabSnapshot {
	return entity.TabSnapshot{
		URL:      n.URL,
		Title:    n.Title,
		WindowID: windowID,
		Index:    index,
		Saved:    saved,
	}
}

// clean removes the backup folder.
func (b *bookmarkBackup) clean(ctx context.Context) (entity.MirrorCleanResult, error) {
	root, ok, err := b.findFolder(ctx, "", entity.MirrorRootTitle)
	if err != nil {
		return entity.MirrorCleanResult{}, fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}
	if !ok {
		return entity.MirrorCleanResult{Reason: entity.CleanReasonRootNotFound}, nil
	}
	backup, ok, err := b.findFolder(ctx, root.ID, entity.MirrorBackupTitle)
	if err != nil {
		return entity.MirrorCleanResult{}, fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}
	if !ok {
		return entity.MirrorCleanResult{Reason: entity.CleanReasonBackupNotFound}, nil
	}
	if err := b.mirror.RemoveSubtree(ctx, backup.ID); err != nil {
		return entity.MirrorCleanResult{}, fmt.Errorf("%w: %v", entity.ErrMirrorUnavailable, err)
	}
	return entity.MirrorCleanResult{Deleted: true}, nil
}

// parseFolderTitle splits "<name> [<id>]". The id is empty when the suffix is
// missing or blank; the name falls back to RecoveredSessionName.
func parseFolderTitle(title string) (entity.SessionID, string) {
	var id string
	if m := folderIDPattern.FindStringSubmatch(title); m != nil {
		id = strings.TrimSpace(m[1])
	}
	name := strings.TrimSpace(folderSuffixPattern.ReplaceAllString(title, ""))
	if name == "" {
		name = entity.RecoveredSessionName
	}
	return entity.SessionID(id), name
}
