package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ArmiesSchema describes armies.yaml for editor validation.
func ArmiesSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(new(ArmiesConfig))
	schema.Title = "Pixel Armies rosters"
	schema.Description = "Army definitions read from " + ArmiesFile
	return schema
}

func MarshalSchema(schema *jsonschema.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
