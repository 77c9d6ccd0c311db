package settings

import (
	"errors"
	"reflect"
	"testing"
)

func TestExplainReportsStoreHit(t *testing.T) {
	store := newMapStore()
	store.values["Root/Stuff/Gubbin"] = true
	gubbin := lensFixture(t, WithStore(store))

	trace, err := gubbin.Explain()
	if err != nil {
		t.Fatalf("unexpected error from Explain: %v", err)
	}
	if trace.Key != "Root/Stuff/Gubbin" {
		t.Fatalf("expected the joined key, got %q", trace.Key)
	}
	if trace.Source != "store" || trace.Value != true {
		t.Fatalf("expected a store-sourced true, got %q %v", trace.Source, trace.Value)
	}
	if len(trace.Tiers) != 1 || !trace.Tiers[0].Found {
		t.Fatalf("expected a single found store tier, got %#v", trace.Tiers)
	}
}

func TestExplainRecordsFullChainToDefault(t *testing.T) {
	gubbin := lensFixture(t, WithStore(newMapStore()))

	silent := func(Path) (any, error) { return nil, nil }
	trace, err := gubbin.Explain(silent)
	if err != nil {
		t.Fatalf("unexpected error from Explain: %v", err)
	}
	if trace.Source != "default" || trace.Value != false {
		t.Fatalf("expected the static default, got %q %v", trace.Source, trace.Value)
	}

	sources := make([]string, len(trace.Tiers))
	for i, tier := range trace.Tiers {
		sources[i] = tier.Source
		if tier.Found && i != len(trace.Tiers)-1 {
			t.Fatalf("expected only the final tier to report found, got %#v", trace.Tiers)
		}
	}
	want := []string{"store", "fallback", "default"}
	if !reflect.DeepEqual(sources, want) {
		t.Fatalf("expected tier order %v, got %v", want, sources)
	}
}

func TestExplainPropagatesFallbackFailure(t *testing.T) {
	gubbin := lensFixture(t)
	_, err := gubbin.Explain(DefaultTable(map[string]any{}))
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	trace := Trace{
		Key:    "Root/Stuff/Gubbin",
		Source: "fallback",
		Value:  3.141,
		Tiers: []Provenance{
			{Source: "store", Found: false},
			{Source: "fallback", Found: true, Value: 3.141},
		},
	}

	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error from ToJSON: %v", err)
	}
	restored, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("unexpected error from TraceFromJSON: %v", err)
	}
	if !reflect.DeepEqual(trace, restored) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", restored, trace)
	}
}

func TestTraceFromJSONRejectsMalformedPayload(t *testing.T) {
	if _, err := TraceFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected an error for malformed payload")
	}
}
