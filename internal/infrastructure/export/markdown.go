package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/bnema/omni/internal/domain/entity"
)

// MarkdownExporter writes a human-readable listing. It cannot be imported back.
type MarkdownExporter struct{}

// Export writes one section per session and one list per window.
func (e *MarkdownExporter) Export(doc entity.ExportDocument, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Omni sessions\n\nExported %s, %d sessions.\n", doc.ExportDate, len(doc.Sessions))

	for _, s := range doc.Sessions {
		fmt.Fprintf(&b, "\n## %s\n\n", escapeMarkdown(s.Name))
		fmt.Fprintf(&b, "- ID: `%s`\n- Tabs: %d in %d windows\n", s.ID, s.TabCount, s.WindowCount)
		if !s.Created.IsZero() {
			fmt.Fprintf(&b, "- Created: %s\n", s.Created.UTC().Format("2006-01-02 15:04"))
		}
		for i, win := range s.Windows {
			if len(s.Windows) > 1 {
				fmt.Fprintf(&b, "\n### Window %d\n", i+1)
			}
			b.WriteString("\n")
			for _, tab := range win.Tabs {
				title := tab.Title
				if title == "" {
					title = tab.URL
				}
				fmt.Fprintf(&b, "- [%s](%s)\n", escapeMarkdown(title), tab.URL)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
