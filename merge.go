package settings

// CloneSnapshot returns a deep copy of a plain snapshot value so callers can
// mutate the result without reaching back into the source. Maps and slices
// are copied recursively; scalars are returned as-is.
func CloneSnapshot(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return map[string]any(nil)
		}
		clone := make(map[string]any, len(typed))
		for key, entry := range typed {
			clone[key] = CloneSnapshot(entry)
		}
		return clone
	case []any:
		if typed == nil {
			return []any(nil)
		}
		clone := make([]any, len(typed))
		for i, entry := range typed {
			clone[i] = CloneSnapshot(entry)
		}
		return clone
	case []string:
		if typed == nil {
			return []string(nil)
		}
		clone := make([]string, len(typed))
		copy(clone, typed)
		return clone
	default:
		return value
	}
}

// MergeSnapshots composes plain snapshot values ordered from strongest to
// weakest, returning a new value that keeps entries from stronger snapshots
// while filling missing keys from weaker ones. Consumers use it to splice a
// built tree beneath an existing collection snapshot.
func MergeSnapshots(values ...any) any {
	if len(values) == 0 {
		return nil
	}
	merged := CloneSnapshot(values[len(values)-1])
	for i := len(values) - 2; i >= 0; i-- {
		merged = mergeSnapshotValue(values[i], merged)
	}
	return merged
}

func mergeSnapshotValue(strong, weak any) any {
	if strong == nil {
		return CloneSnapshot(weak)
	}
	strongMap, ok := strong.(map[string]any)
	if !ok {
		return CloneSnapshot(strong)
	}
	result := map[string]any{}
	if weakMap, ok := weak.(map[string]any); ok {
		for key, entry := range weakMap {
			result[key] = CloneSnapshot(entry)
		}
	}
	for key, entry := range strongMap {
		if existing, ok := result[key]; ok {
			result[key] = mergeSnapshotValue(entry, existing)
			continue
		}
		result[key] = CloneSnapshot(entry)
	}
	return result
}
