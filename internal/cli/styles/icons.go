package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe     = "\uf0ac" //  browser/web
	IconVersion   = "\uf02b" //  tag
	IconGitBranch = "\ue725" //  git branch
	IconCalendar  = "\uf073" //  calendar
	IconGithub    = "\uf09b" //  github
	IconHeart     = "\uf004" //  heart
	IconGo        = "\ue627" //  go gopher
	IconArrow     = "\uf061" //  arrow right

	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconWarning = "\uf071" // warning
	IconInfo    = "\uf05a" // info

	// Storage
	IconTrash    = "\uf1f8" // trash
	IconConfig   = "\ue615" // config
	IconDatabase = "\uf1c0" // database
	IconCloud    = "\uf0c2" // cloud (synced tier)
	IconBookmark = "\uf02e" // bookmark (mirror)
	IconExport   = "\uf56e" // file-export
	IconImport   = "\uf56f" // file-import

	// Sessions / tabs
	IconSession      = "\uf2d2" // window
	IconSessionStack = "\uf24d" // clone/stack
	IconTab          = "\uf0ce" // table
	IconPin          = "\uf08d" // thumb-tack
	IconClock        = "\uf017" // clock
	IconPause        = "\uf04c" // pause (suspended)
	IconRestore      = "\uf0e2" // rotate-left (restore)
	IconBroom        = "\uf51a" // broom (sweep)
	IconSearch       = "\uf002" // search
)
