// Package export writes and reads session export documents in several formats.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bnema/omni/internal/domain/entity"
)

// Exporter writes an export document in one format.
type Exporter interface {
	Export(doc entity.ExportDocument, w io.Writer) error
	Extension() string
}

// NewExporter returns the exporter for a format name.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}

// FormatFromPath guesses the format and compression from a file name
// such as "sessions.yaml.zst". Unknown extensions report json.
func FormatFromPath(path string) (format string, compressed bool) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ZstdExtension) {
		compressed = true
		name = strings.TrimSuffix(name, ZstdExtension)
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return "yaml", compressed
	case ".md", ".markdown":
		return "md", compressed
	default:
		return "json", compressed
	}
}
