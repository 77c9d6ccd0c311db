package settings

import (
	"fmt"
	"strings"
)

// FieldDescriptor describes a setting key and the type inferred from its
// serialized default.
type FieldDescriptor struct {
	Path string
	Type string
}

// DefaultSchemaGenerator returns the built-in descriptor-based schema
// generator. It flattens a built snapshot into one descriptor per setting,
// keyed exactly like the lens ("/"-joined paths), in attachment order.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(value any) (SchemaDocument, error) {
	descriptors := deriveFieldDescriptors(value)
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: descriptors,
	}, nil
}

func deriveFieldDescriptors(value any) []FieldDescriptor {
	node, ok := value.(map[string]any)
	if !ok || len(node) == 0 {
		return nil
	}

	if isSettingNode(node) {
		return []FieldDescriptor{{
			Path: nodeKey(node),
			Type: typeName(node["default"]),
		}}
	}

	var fields []FieldDescriptor
	for _, container := range []string{"children", "settings"} {
		entries, ok := node[container].([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			fields = append(fields, deriveFieldDescriptors(entry)...)
		}
	}
	return fields
}

func isSettingNode(node map[string]any) bool {
	if _, ok := node["default"]; !ok {
		return false
	}
	_, hasChildren := node["children"]
	_, hasSettings := node["settings"]
	return !hasChildren && !hasSettings
}

// nodeKey reads the serialized path, tolerating the []any shape produced by
// a JSON round trip.
func nodeKey(node map[string]any) string {
	switch path := node["path"].(type) {
	case []string:
		return Path(path).Key()
	case []any:
		segments := make([]string, 0, len(path))
		for _, segment := range path {
			if s, ok := segment.(string); ok {
				segments = append(segments, s)
			}
		}
		return strings.Join(segments, "/")
	}
	if id, ok := node["id"].(string); ok {
		return id
	}
	return ""
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}
