package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// matchFormFieldMap caches JSON tag -> struct field index mappings
var (
	matchFormFieldMap     map[string]int
	matchFormFieldMapOnce sync.Once
)

func getMatchFormFieldMap() map[string]int {
	matchFormFieldMapOnce.Do(func() {
		t := reflect.TypeOf(MatchForm{})
		matchFormFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			matchFormFieldMap[name] = i
		}
	})
	return matchFormFieldMap
}

// UnmarshalJSON accepts both string-encoded and native JSON numbers.
// Scoreboard clients send "overs": 10.2 while the HTML form always posts
// strings; both end up as the raw text so validation behaves identically.
func (f *MatchForm) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type Alias MatchForm
	a := (*Alias)(f)

	// Fast path: every value is already a string
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	// Slow path: field-by-field with number-to-string coercion
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	fieldMap := getMatchFormFieldMap()
	v := reflect.ValueOf(f).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}
		s, err := coerceRawToString(rawVal)
		if err != nil {
			return fmt.Errorf("flex unmarshal %s: %w", key, err)
		}
		v.Field(idx).SetString(s)
	}

	return nil
}

// coerceRawToString returns the textual form of a JSON string, number or null.
func coerceRawToString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("expected string or number, got %s", trimmed)
	}
}
