package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bnema/omni/internal/domain/entity"
)

// ReadAll reads an export file in any supported importable form (JSON or
// YAML, optionally zstd-compressed) and returns it as JSON, ready for
// SessionStore.ImportAll. Compression and format are detected from content.
func ReadAll(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	data, err := decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty export", entity.ErrInvalidFormat)
	}
	if trimmed[0] == '{' {
		return trimmed, nil
	}
	return yamlToJSON(trimmed)
}

// Parse reads and validates an export document.
func Parse(r io.Reader) (entity.ExportDocument, error) {
	data, err := ReadAll(r)
	if err != nil {
		return entity.ExportDocument{}, err
	}
	return entity.ParseExportDocument(data)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: export is not a mapping", entity.ErrInvalidFormat)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
	return out, nil
}
