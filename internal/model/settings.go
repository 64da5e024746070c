package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Settings is the editable server configuration.
//
// The client only relays edits; it never computes derived settings.
// Fields the client does not expose (dark_mode, last_updated, ...) are kept
// in Extra and written back unchanged, so a save never drops them.
type Settings struct {
	// Threshold is the final score at or above which a scan is phishing.
	Threshold float64

	// MLWeight is the weight of the ML probability in the final score.
	MLWeight float64

	// TrustedDomains is the set of domains the server treats as trusted.
	TrustedDomains []string

	// Extra holds every other top-level field, verbatim.
	Extra map[string]json.RawMessage

	// unset holds the known keys the decoded object lacked. They are left
	// out on encode until an edit sets them.
	unset map[string]bool
}

// Known JSON keys of Settings.
const (
	keyThreshold      = "threshold"
	keyMLWeight       = "ml_weight"
	keyTrustedDomains = "trusted_domains"
)

// sensitiveSettingKeys are server fields that are round-tripped but never displayed.
var sensitiveSettingKeys = map[string]bool{
	"admin_pass": true,
}

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Settings{Extra: make(map[string]json.RawMessage)}
	for _, key := range []string{keyThreshold, keyMLWeight, keyTrustedDomains} {
		if _, ok := raw[key]; !ok {
			out.markUnset(key)
		}
	}
	for key, value := range raw {
		var err error
		switch key {
		case keyThreshold:
			err = json.Unmarshal(value, &out.Threshold)
		case keyMLWeight:
			err = json.Unmarshal(value, &out.MLWeight)
		case keyTrustedDomains:
			err = json.Unmarshal(value, &out.TrustedDomains)
		default:
			out.Extra[key] = append(json.RawMessage(nil), value...)
		}
		if err != nil {
			return fmt.Errorf("settings field %q: %w", key, err)
		}
	}

	*s = out
	return nil
}

// MarshalJSON encodes the known fields together with Extra.
// Known fields missing from the decoded object stay missing, so a save never
// posts a zero the server did not send. Keys are emitted in sorted order, so
// equal settings encode identically.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+3)
	for key, value := range s.Extra {
		out[key] = value
	}
	if !s.unset[keyThreshold] {
		out[keyThreshold] = s.Threshold
	}
	if !s.unset[keyMLWeight] {
		out[keyMLWeight] = s.MLWeight
	}
	if !s.unset[keyTrustedDomains] {
		domains := s.TrustedDomains
		if domains == nil {
			domains = []string{}
		}
		out[keyTrustedDomains] = domains
	}

	return json.Marshal(out)
}

// Has reports whether the known field key ("threshold", "ml_weight" or
// "trusted_domains") will be encoded.
func (s *Settings) Has(key string) bool {
	return !s.unset[key]
}

func (s *Settings) markUnset(key string) {
	if s.unset == nil {
		s.unset = make(map[string]bool)
	}
	s.unset[key] = true
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := &Settings{
		Threshold: s.Threshold,
		MLWeight:  s.MLWeight,
	}
	if s.TrustedDomains != nil {
		c.TrustedDomains = append([]string(nil), s.TrustedDomains...)
	}
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	for k := range s.unset {
		c.markUnset(k)
	}
	return c
}

// Redacted returns a copy without the sensitive extra fields, for display.
func (s *Settings) Redacted() *Settings {
	c := s.Clone()
	if c == nil {
		return nil
	}
	for key := range sensitiveSettingKeys {
		delete(c.Extra, key)
	}
	return c
}

// HasTrustedDomain reports whether domain is in the trusted set.
func (s *Settings) HasTrustedDomain(domain string) bool {
	for _, d := range s.TrustedDomains {
		if d == domain {
			return true
		}
	}
	return false
}

// VisibleExtra returns the displayable extra fields as compact JSON strings,
// sorted by key. Sensitive fields are omitted.
func (s *Settings) VisibleExtra() []KeyValue {
	keys := make([]string, 0, len(s.Extra))
	for key := range s.Extra {
		if sensitiveSettingKeys[key] {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]KeyValue, 0, len(keys))
	for _, key := range keys {
		var buf bytes.Buffer
		if err := json.Compact(&buf, s.Extra[key]); err != nil {
			buf.Reset()
			buf.Write(s.Extra[key])
		}
		out = append(out, KeyValue{Key: key, Value: buf.String()})
	}
	return out
}

// KeyValue is a display pair.
type KeyValue struct {
	Key   string
	Value string
}

// SettingsEdit holds the fields a user changed. A nil field is left as fetched.
type SettingsEdit struct {
	Threshold      *float64
	MLWeight       *float64
	TrustedDomains []string
}

// IsEmpty reports whether the edit changes nothing.
func (e SettingsEdit) IsEmpty() bool {
	return e.Threshold == nil && e.MLWeight == nil && e.TrustedDomains == nil
}

// Merge applies the edit on top of base and returns a new Settings.
// Fields not named by the edit, including Extra, are carried over unchanged.
func (e SettingsEdit) Merge(base *Settings) *Settings {
	merged := base.Clone()
	if merged == nil {
		merged = &Settings{}
	}
	if e.Threshold != nil {
		merged.Threshold = *e.Threshold
		delete(merged.unset, keyThreshold)
	}
	if e.MLWeight != nil {
		merged.MLWeight = *e.MLWeight
		delete(merged.unset, keyMLWeight)
	}
	if e.TrustedDomains != nil {
		merged.TrustedDomains = append([]string(nil), e.TrustedDomains...)
		delete(merged.unset, keyTrustedDomains)
	}
	return merged
}
