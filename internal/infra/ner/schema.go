package ner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// PersonNames is the structured answer expected from model-backed recognizers.
type PersonNames struct {
	Names []string `json:"names" jsonschema:"description=Distinct names of people or characters exactly as they appear in the text"`
}

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var personNamesSchema = generateSchema[PersonNames]()

// parsePersonNames decodes a model reply. Text around the outermost JSON
// object (code fences, a stray preamble) is ignored.
func parsePersonNames(reply string) ([]string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in model reply", ErrInvalidResponse)
	}

	var out PersonNames
	if err := json.Unmarshal([]byte(reply[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return out.Names, nil
}
