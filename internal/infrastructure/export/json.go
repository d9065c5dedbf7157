package export

import (
	"encoding/json"
	"io"

	"github.com/bnema/omni/internal/domain/entity"
)

// JSONExporter writes the canonical, importable format.
type JSONExporter struct{}

// Export writes doc as indented JSON.
func (e *JSONExporter) Export(doc entity.ExportDocument, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
