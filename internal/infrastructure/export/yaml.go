package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bnema/omni/internal/domain/entity"
)

// YAMLExporter writes the document as YAML. Timestamps stay epoch milliseconds.
type YAMLExporter struct{}

// Export writes doc as YAML.
func (e *YAMLExporter) Export(doc entity.ExportDocument, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(doc)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
