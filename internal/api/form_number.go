package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// formNumber decodes a JSON number that clients may also send as a string.
// A blank string or null leaves the field unset.
type formNumber[T int | uint | float64] struct {
	value *T
}

func (field *formNumber[T]) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		field.value = nil
		return nil
	}

	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			field.value = nil
			return nil
		}
		raw = []byte(text)
	}

	var parsed T
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid number %s: %w", raw, err)
	}
	field.value = &parsed
	return nil
}

func (field formNumber[T]) ptr() *T {
	return field.value
}
