package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHooksNotifyFansOut(t *testing.T) {
	first := &CaptureHook{}
	second := &CaptureHook{}
	hooks := Hooks{first, nil, second}

	event := Event{
		Verb:       "settings.value.set",
		ObjectType: "settings.value",
		ObjectID:   "Root/Stuff/Gubbin",
	}
	if err := hooks.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(first.Events) != 1 || len(second.Events) != 1 {
		t.Fatalf("expected both hooks notified, got %d and %d", len(first.Events), len(second.Events))
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	errFirst := errors.New("first failed")
	errSecond := errors.New("second failed")
	hooks := Hooks{
		&CaptureHook{Err: errFirst},
		&CaptureHook{Err: errSecond},
	}

	err := hooks.Notify(context.Background(), Event{
		Verb:       "settings.tree.built",
		ObjectType: "settings.tree",
		ObjectID:   "Root",
	})
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected both hook errors joined, got %v", err)
	}
}

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	for _, event := range []Event{
		{},
		{Verb: "settings.value.set"},
		{Verb: "settings.value.set", ObjectType: "settings.value"},
	} {
		if err := hooks.Notify(context.Background(), event); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected incomplete events dropped, got %d", len(capture.Events))
	}
}

func TestHooksNotifyNilContext(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	err := hooks.Notify(nil, Event{
		Verb:       "settings.node.attached",
		ObjectType: "settings.node",
		ObjectID:   "Root/Stuff",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event delivered with defaulted context, got %d", len(capture.Events))
	}
}

func TestNormalizeEventTrimsAndDefaults(t *testing.T) {
	metadata := map[string]any{"path": "Root/Stuff"}
	event := Event{
		Verb:       "  settings.value.set  ",
		ActorID:    " actor ",
		ObjectType: " settings.value ",
		ObjectID:   " Root/Stuff/Gubbin ",
		Metadata:   metadata,
	}

	normalized := NormalizeEvent(event)
	if normalized.Verb != "settings.value.set" || normalized.ActorID != "actor" {
		t.Fatalf("expected trimmed fields, got %+v", normalized)
	}
	if normalized.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt defaulted")
	}

	normalized.Metadata["path"] = "tampered"
	if metadata["path"] != "Root/Stuff" {
		t.Fatalf("expected metadata cloned, source was mutated")
	}
}

func TestNormalizeEventKeepsExplicitTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	normalized := NormalizeEvent(Event{OccurredAt: at})
	if !normalized.OccurredAt.Equal(at) {
		t.Fatalf("expected explicit timestamp kept, got %v", normalized.OccurredAt)
	}
}
