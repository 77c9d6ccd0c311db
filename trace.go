package settings

import (
	"encoding/json"
)

// Trace captures provenance information for a lens resolution: which of the
// store, fallback, and default tiers were consulted and which one answered.
type Trace struct {
	Key    string       `json:"key"`
	Source string       `json:"source"`
	Value  any          `json:"value,omitempty"`
	Tiers  []Provenance `json:"tiers"`
}

// Provenance details how a single tier contributed to a traced resolution.
type Provenance struct {
	Source string `json:"source"`
	Found  bool   `json:"found"`
	Value  any    `json:"value,omitempty"`
}

// Explain resolves the setting exactly like Get while recording which tier
// produced the value. Fallback failures propagate unchanged.
func (s *Setting) Explain(fallbacks ...Fallback) (Trace, error) {
	value, source, tiers, err := s.resolve(fallbacks)
	if err != nil {
		return Trace{}, err
	}
	return Trace{
		Key:    s.Key(),
		Source: source,
		Value:  value,
		Tiers:  tiers,
	}, nil
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated
// via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
