package hydrate

import (
	"errors"
	"strings"
	"testing"
)

type target struct {
	ID       string   `json:"id"`
	Path     []string `json:"path"`
	Priority int      `json:"priority"`
}

func TestDecodeBasic(t *testing.T) {
	decoder := NewDecoder[target]()
	result, err := decoder.Decode(Context{TreeID: "Root"}, map[string]any{
		"id":       "Root",
		"path":     []string{"Root"},
		"priority": 5,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ID != "Root" || result.Priority != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Path) != 1 || result.Path[0] != "Root" {
		t.Fatalf("unexpected path: %v", result.Path)
	}
}

func TestDecodeNilSnapshotFails(t *testing.T) {
	decoder := NewDecoder[target]()
	_, err := decoder.Decode(Context{TreeID: "Root"}, nil)
	if err == nil {
		t.Fatalf("expected an error for nil snapshot")
	}
	if !strings.Contains(err.Error(), `"Root"`) {
		t.Fatalf("expected the tree id in the error, got %v", err)
	}
}

func TestDecodePreHookMutatesSnapshot(t *testing.T) {
	decoder := NewDecoder[target](WithPreHook[target](func(ctx Context, snapshot map[string]any) (map[string]any, error) {
		snapshot["priority"] = 9
		return snapshot, nil
	}))

	source := map[string]any{"id": "Root", "priority": 1}
	result, err := decoder.Decode(Context{TreeID: "Root"}, source)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Priority != 9 {
		t.Fatalf("expected pre-hook to win, got %d", result.Priority)
	}
	if source["priority"] != 1 {
		t.Fatalf("expected the caller snapshot untouched, got %v", source["priority"])
	}
}

func TestDecodePostHookValidates(t *testing.T) {
	errInvalid := errors.New("priority out of range")
	decoder := NewDecoder[target](WithPostHook[target](func(ctx Context, result *target) error {
		if result.Priority > 10 {
			return errInvalid
		}
		return nil
	}))

	_, err := decoder.Decode(Context{TreeID: "Root"}, map[string]any{"priority": 11})
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected post-hook error, got %v", err)
	}
}

func TestDecodeDisallowUnknownFields(t *testing.T) {
	decoder := NewDecoder[target](WithDisallowUnknownFields[target]())
	_, err := decoder.Decode(Context{TreeID: "Root"}, map[string]any{"unexpected": true})
	if err == nil {
		t.Fatalf("expected unknown field to fail decoding")
	}
}

func TestDecodeCustomDecoder(t *testing.T) {
	decoder := NewDecoder[target](WithCustomDecoder[target](func(ctx Context, snapshot map[string]any) (target, error) {
		return target{ID: ctx.TreeID + ":" + ctx.CollectionID}, nil
	}))

	result, err := decoder.Decode(Context{TreeID: "Root", CollectionID: "HostMenu"}, map[string]any{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ID != "Root:HostMenu" {
		t.Fatalf("expected the custom decoder output, got %q", result.ID)
	}
}
