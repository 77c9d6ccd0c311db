package activity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NodeEventInput describes the common fields for schema lifecycle events.
// Path is the "/"-joined node path; it doubles as the object id when no
// explicit one is supplied.
type NodeEventInput struct {
	ActorID      string
	UserID       string
	TenantID     string
	ObjectID     string
	Channel      string
	Metadata     map[string]any
	Path         string
	CollectionID string
	SnapshotID   string
	OldValue     any
	NewValue     any
	OccurredAt   time.Time
}

// BuildNodeAttachedEvent constructs a normalized activity event for a child
// node attachment.
func BuildNodeAttachedEvent(input NodeEventInput) Event {
	return buildNodeEvent("settings.node.attached", "settings.node", input)
}

// BuildTreeBuiltEvent constructs a normalized activity event for a tree
// finalization. A snapshot id is generated when the input does not carry
// one.
func BuildTreeBuiltEvent(input NodeEventInput) Event {
	if strings.TrimSpace(input.SnapshotID) == "" {
		input.SnapshotID = uuid.NewString()
	}
	return buildNodeEvent("settings.tree.built", "settings.tree", input)
}

// BuildValueSetEvent constructs a normalized activity event for a lens
// write.
func BuildValueSetEvent(input NodeEventInput) Event {
	return buildNodeEvent("settings.value.set", "settings.value", input)
}

func buildNodeEvent(verb, objectType string, input NodeEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if input.CollectionID != "" {
		metadata = ensureMetadata(metadata)
		metadata["collection_id"] = input.CollectionID
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.SnapshotID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
