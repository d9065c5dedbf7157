package entity

// BookmarkID identifies a node in the external mirror.
type BookmarkID string

// BookmarkNode is a folder (empty URL) or a leaf bookmark.
type BookmarkNode struct {
	ID       BookmarkID
	ParentID BookmarkID // empty = top level
	Title    string
	URL      string
	Position int // order within parent
}

// IsFolder returns true if the node has no URL.
func (n BookmarkNode) IsFolder() bool {
	return n.URL == ""
}

// MirrorCleanResult reports what CleanMirror did.
type MirrorCleanResult struct {
	Deleted bool   `json:"deleted"`
	Reason  string `json:"reason,omitempty"`
}

// Reasons reported by CleanMirror when nothing was deleted.
const (
	CleanReasonMirrorUnavailable = "mirror_unavailable"
	CleanReasonRootNotFound      = "root_not_found"
	CleanReasonBackupNotFound    = "backup_folder_not_found"
)

// Mirror layout titles.
const (
	MirrorRootTitle      = "Omni Sessions"
	MirrorBackupTitle    = "Auto Backup"
	RecoveredSessionName = "Recovered Session"
)
