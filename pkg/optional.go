package pkg

import (
	"encoding/json"
	"strings"
)

// OptionalString tells apart a JSON field that is absent, null or set.
// Set is false when the field was absent, Value is nil when it was null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Sanitized trims the value, blank becomes nil.
func (o OptionalString) Sanitized() *string {
	return SanitizeOptionalString(o.Value)
}

// SanitizeOptionalString trims s and maps blank to nil.
func SanitizeOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
