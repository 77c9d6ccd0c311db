package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	settings "github.com/goliatone/go-settings"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs an OpenAPI-compatible schema generator for built
// snapshots. Tree and page nodes become nested objects keyed by id; setting
// nodes become typed properties with their serialized default attached.
func NewGenerator(opts ...GeneratorOption) settings.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option returns a settings.Option that wires the OpenAPI schema generator
// into a finalized document.
func Option(opts ...GeneratorOption) settings.Option {
	return settings.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(value any) (settings.SchemaDocument, error) {
	root, err := schemaForNode(value)
	if err != nil {
		return settings.SchemaDocument{}, err
	}
	doc, err := buildDocument(g.config, root)
	if err != nil {
		return settings.SchemaDocument{}, err
	}
	return settings.SchemaDocument{
		Format:   settings.SchemaFormatOpenAPI,
		Document: doc,
	}, nil
}

func schemaForNode(value any) (map[string]any, error) {
	if value == nil {
		return emptyObjectSchema(), nil
	}
	node, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("openapi: snapshot node must be an object, got %T", value)
	}

	if isSettingNode(node) {
		return schemaForDefault(node["default"]), nil
	}

	properties := map[string]any{}
	for _, container := range []string{"children", "settings"} {
		entries, ok := node[container].([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			child, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("openapi: snapshot child must be an object, got %T", entry)
			}
			id, _ := child["id"].(string)
			if id == "" {
				return nil, fmt.Errorf("openapi: snapshot child is missing an id")
			}
			schema, err := schemaForNode(child)
			if err != nil {
				return nil, err
			}
			properties[id] = schema
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func isSettingNode(node map[string]any) bool {
	if _, ok := node["default"]; !ok {
		return false
	}
	_, hasChildren := node["children"]
	_, hasSettings := node["settings"]
	return !hasChildren && !hasSettings
}

func schemaForDefault(value any) map[string]any {
	switch typed := value.(type) {
	case nil:
		return map[string]any{"type": "null"}
	case bool:
		return map[string]any{"type": "boolean", "default": typed}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return map[string]any{"type": "integer", "default": typed}
	case float32, float64:
		return map[string]any{"type": "number", "default": typed}
	case json.Number:
		return map[string]any{"type": "number", "default": typed}
	case string:
		return map[string]any{"type": "string", "default": typed}
	case time.Time:
		return map[string]any{"type": "string", "format": "date-time"}
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		properties := make(map[string]any, len(keys))
		for _, key := range keys {
			properties[key] = schemaForDefault(typed[key])
		}
		return map[string]any{"type": "object", "properties": properties}
	case []any:
		itemSchema := map[string]any{}
		if len(typed) > 0 {
			itemSchema = schemaForDefault(typed[0])
		}
		return map[string]any{"type": "array", "items": itemSchema}
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%T", typed),
		}
	}
}

func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
