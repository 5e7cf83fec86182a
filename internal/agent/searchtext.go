package agent

import (
	"fmt"
	"sort"
	"strings"
)

// buildMetadataSearchText flattens a metadata document into the text its
// embedding is computed from. Type-specific collections (form fields, view
// columns, entity properties) are summarized by name.
func buildMetadataSearchText(metadata map[string]any, metadataType string) string {
	parts := []string{"Type: " + metadataType}

	if value := stringValue(metadata, "id"); value != "" {
		parts = append(parts, "ID: "+value)
	}
	if value := stringValue(metadata, "name"); value != "" {
		parts = append(parts, "Name: "+value)
	}
	if value := stringValue(metadata, "description"); value != "" {
		parts = append(parts, "Description: "+value)
	}

	switch metadataType {
	case "form":
		if names := collectItemNames(metadata, "fields"); len(names) > 0 {
			parts = append(parts, "Fields: "+strings.Join(names, ", "))
		}
	case "view":
		if names := collectItemNames(metadata, "columns"); len(names) > 0 {
			parts = append(parts, "Columns: "+strings.Join(names, ", "))
		}
	case "entity":
		if props, ok := metadata["properties"].(map[string]any); ok && len(props) > 0 {
			names := make([]string, 0, len(props))
			for name := range props {
				names = append(names, name)
			}
			sort.Strings(names)
			parts = append(parts, "Properties: "+strings.Join(names, ", "))
		}
	}

	return strings.Join(parts, " | ")
}

// buildDataSearchText flattens a data record into searchable text. Nested
// values are skipped; only scalars identify a record well.
func buildDataSearchText(data map[string]any, entityType string) string {
	parts := []string{"Entity: " + entityType}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch value := data[key].(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s: %s", key, value))
		case bool:
			parts = append(parts, fmt.Sprintf("%s: %t", key, value))
		case float64, int, int64:
			parts = append(parts, fmt.Sprintf("%s: %v", key, value))
		}
	}

	return strings.Join(parts, " | ")
}

func collectItemNames(metadata map[string]any, key string) []string {
	items, ok := metadata[key].([]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name := stringValue(entry, "name"); name != "" {
			names = append(names, name)
		}
	}

	return names
}
