package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// packageSchemaJSON is the JSON Schema for node package manifests.
// Embedded as a constant to avoid filesystem dependencies.
const packageSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://opsconductor.dev/schemas/node-package.json",
  "type": "object",
  "required": ["id", "name", "version", "nodes"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "name": { "type": "string", "minLength": 1 },
    "version": { "type": "string", "minLength": 1 },
    "nodes": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": { "$ref": "#/$defs/node_type" }
    },
    "categories": {
      "type": "object",
      "additionalProperties": { "$ref": "#/$defs/category" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "node_type": {
      "type": "object",
      "required": ["id", "name", "executor"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "description": { "type": "string" },
        "category": { "type": "string" },
        "icon": { "type": "string" },
        "color": { "type": "string" },
        "inputs": { "type": "array", "items": { "$ref": "#/$defs/port" } },
        "outputs": { "type": "array", "items": { "$ref": "#/$defs/port" } },
        "parameters": { "type": "array", "items": { "$ref": "#/$defs/parameter" } },
        "executor": { "type": "string", "minLength": 1 },
        "execution_context": { "$ref": "#/$defs/execution_context" }
      },
      "additionalProperties": false
    },
    "port": {
      "type": "object",
      "required": ["id", "type"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "type": { "type": "string", "enum": ["trigger", "data"] },
        "required": { "type": "boolean" }
      },
      "additionalProperties": false
    },
    "parameter": {
      "type": "object",
      "required": ["id", "type"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "type": {
          "type": "string",
          "enum": ["text", "number", "boolean", "select", "multiselect", "password",
                   "code", "key-value-list", "text-list", "time-list", "date-list",
                   "extraction-list"]
        },
        "default": {},
        "required": { "type": "boolean" },
        "options": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["value"],
            "properties": {
              "value": { "type": "string" },
              "label": { "type": "string" }
            },
            "additionalProperties": false
          }
        },
        "min": { "type": "number" },
        "max": { "type": "number" },
        "syntax": { "type": "string", "enum": ["cel", "expr", "jq", "cron"] },
        "help": { "type": "string" },
        "visible_when": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["field", "value"],
            "properties": {
              "field": { "type": "string", "minLength": 1 },
              "value": {}
            },
            "additionalProperties": false
          }
        }
      },
      "additionalProperties": false
    },
    "category": {
      "type": "object",
      "required": ["label"],
      "properties": {
        "label": { "type": "string", "minLength": 1 },
        "icon": { "type": "string" },
        "order": { "type": "integer" }
      },
      "additionalProperties": false
    },
    "execution_context": {
      "type": "object",
      "properties": {
        "platforms": { "type": "array", "items": { "type": "string" } },
        "capabilities": { "type": "array", "items": { "type": "string" } }
      },
      "additionalProperties": false
    }
  }
}`

var packageSchema = mustCompilePackageSchema()

func mustCompilePackageSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(packageSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("unmarshal package schema: %v", err))
	}
	if err := c.AddResource("https://opsconductor.dev/schemas/node-package.json", doc); err != nil {
		panic(fmt.Sprintf("add package schema resource: %v", err))
	}
	s, err := c.Compile("https://opsconductor.dev/schemas/node-package.json")
	if err != nil {
		panic(fmt.Sprintf("compile package schema: %v", err))
	}
	return s
}

// ParseManifest decodes a package manifest from YAML or JSON bytes,
// structurally validating it against the embedded JSON Schema first.
// Semantic checks (ValidatePackage) run later at registry build time.
func ParseManifest(data []byte) (*schema.NodePackage, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, schema.NewError(schema.ErrCodeMalformedDoc, "manifest is not valid YAML or JSON").WithCause(err)
	}

	// Round-trip through JSON so numbers become json.Number for the schema
	// library and the map keys normalize to strings.
	jsonBytes, err := json.Marshal(normalizeYAML(generic))
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeMalformedDoc, "manifest cannot be represented as JSON").WithCause(err)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(jsonBytes)))
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeMalformedDoc, "manifest cannot be represented as JSON").WithCause(err)
	}
	if err := packageSchema.Validate(doc); err != nil {
		return nil, manifestSchemaError(err)
	}

	var pkg schema.NodePackage
	if err := json.Unmarshal(jsonBytes, &pkg); err != nil {
		return nil, schema.NewError(schema.ErrCodeMalformedDoc, "manifest does not decode into a node package").WithCause(err)
	}
	return &pkg, nil
}

// LoadManifestFile reads and parses one manifest file (.yaml, .yml or .json).
func LoadManifestFile(path string) (*schema.NodePackage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "read manifest %s", path).WithCause(err)
	}
	pkg, err := ParseManifest(data)
	if err != nil {
		if fe, ok := err.(*schema.FlowError); ok {
			if fe.Details == nil {
				fe.Details = map[string]any{}
			}
			fe.Details["path"] = path
		}
		return nil, err
	}
	return pkg, nil
}

// LoadManifestDir loads every manifest in dir (non-recursive), sorted by
// file name for deterministic registry builds.
func LoadManifestDir(dir string) ([]*schema.NodePackage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "read manifest dir %s", dir).WithCause(err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	pkgs := make([]*schema.NodePackage, 0, len(names))
	for _, name := range names {
		pkg, err := LoadManifestFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

// normalizeYAML converts map[any]any trees produced by YAML decoding into
// map[string]any so they can be marshaled as JSON objects.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

// manifestSchemaError converts a jsonschema.ValidationError into a
// MALFORMED_DOCUMENT FlowError listing each violation.
func manifestSchemaError(err error) *schema.FlowError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeMalformedDoc, err.Error())
	}
	violations := collectViolations(verr)
	msg := "manifest failed structural validation"
	if len(violations) == 1 {
		msg = violations[0]
	}
	return schema.NewError(schema.ErrCodeMalformedDoc, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf messages
// with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}
	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
