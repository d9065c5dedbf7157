package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfigInfo renders the config file and the storage tiers it points at.
func (r *ConfigRenderer) RenderConfigInfo(configPath, dbPath, syncedPath string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	pathStyle := r.theme.Subtle

	return fmt.Sprintf(
		"\n  %s Config %s\n  %s Local  %s\n  %s Synced %s\n",
		iconStyle.Render(IconConfig), pathStyle.Render(configPath),
		iconStyle.Render(IconDatabase), pathStyle.Render(dbPath),
		iconStyle.Render(IconCloud), pathStyle.Render(syncedPath),
	)
}

// RenderCreated renders the message after writing a default config file.
func (r *ConfigRenderer) RenderCreated(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)

	return fmt.Sprintf(
		"\n  %s Wrote default config to %s\n",
		iconStyle.Render(IconCheck),
		r.theme.Highlight.Render(path),
	)
}

// RenderExists renders the message when init finds an existing file.
func (r *ConfigRenderer) RenderExists(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)

	return fmt.Sprintf(
		"\n  %s Config %s already exists (use --force to overwrite)\n",
		iconStyle.Render(IconWarning),
		r.theme.Subtle.Render(path),
	)
}

// RenderSchemaWritten renders where the JSON schema was written.
func (r *ConfigRenderer) RenderSchemaWritten(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)

	return fmt.Sprintf(
		"\n  %s Schema written to %s\n",
		iconStyle.Render(IconCheck),
		r.theme.Highlight.Render(path),
	)
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}
