package export

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/bnema/omni/internal/domain/entity"
)

const schemaID = "https://github.com/bnema/omni/export.schema.json"

// Schema returns the JSON schema of the export document.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Mapper: mapTypes,
	}
	schema := r.Reflect(&entity.ExportDocument{})

	schema.ID = schemaID
	schema.Title = "Omni Session Export"
	schema.Description = "Saved browser sessions exported by omni"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

var timestampType = reflect.TypeOf(entity.Timestamp{})

func mapTypes(t reflect.Type) *jsonschema.Schema {
	if t == timestampType {
		return &jsonschema.Schema{
			Type:        "integer",
			Description: "Epoch milliseconds",
		}
	}
	return nil
}
