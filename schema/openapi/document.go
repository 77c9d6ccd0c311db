package openapi

import (
	"fmt"
	"sort"
)

func buildDocument(cfg generatorConfig, root map[string]any) (map[string]any, error) {
	if root == nil {
		return nil, fmt.Errorf("openapi: root schema node cannot be nil")
	}

	schema := any(root)
	var components map[string]any
	if cfg.rootComponent != "" {
		components = map[string]any{
			"schemas": map[string]any{
				cfg.rootComponent: root,
			},
		}
		schema = map[string]any{
			"$ref": "#/components/schemas/" + cfg.rootComponent,
		}
	}

	operation := map[string]any{
		"operationId": cfg.operation.OperationID,
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				cfg.contentType: map[string]any{
					"schema": schema,
				},
			},
		},
		"responses": responsesSection(cfg.responses),
	}
	if cfg.operation.Summary != "" {
		operation["summary"] = cfg.operation.Summary
	}

	doc := map[string]any{
		"openapi": cfg.openAPIVersion,
		"info":    infoSection(cfg.info),
		"paths": map[string]any{
			cfg.operation.Path: map[string]any{
				cfg.operation.Method: operation,
			},
		},
	}
	if components != nil {
		doc["components"] = components
	}
	return doc, nil
}

func infoSection(info openapiInfo) map[string]any {
	section := map[string]any{
		"title":   info.Title,
		"version": info.Version,
	}
	if info.Description != "" {
		section["description"] = info.Description
	}
	return section
}

func responsesSection(responses map[string]responseConfig) map[string]any {
	statuses := make([]string, 0, len(responses))
	for status := range responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	section := make(map[string]any, len(statuses))
	for _, status := range statuses {
		section[status] = map[string]any{
			"description": responses[status].Description,
		}
	}
	return section
}
