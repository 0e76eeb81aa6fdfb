// Package apierror defines the wire shapes for error responses and a
// normalizer that flattens any of them into one human-readable string.
//
// Three payload shapes exist, mirroring what the dashboard expects:
// a detail object {"detail": "..."}, a per-field map
// {"email": ["Required"]}, and a raw string body.
package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// FieldErrors maps field names to one or more validation messages.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Empty reports whether no field has an error.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Detail writes a {"detail": "..."} payload with the given status.
func Detail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": message})
}

// Fields writes a per-field validation payload with HTTP 400.
func Fields(w http.ResponseWriter, errs FieldErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(errs)
}

// Flatten turns an error response body into a single readable string.
// Shapes handled, in order: raw string, {"detail": ...}, field-error map.
// Anything else reports the HTTP status.
func Flatten(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("HTTP %d", status)
	}

	var raw string
	if err := json.Unmarshal(body, &raw); err == nil {
		return raw
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return trimmed
	}

	if d, ok := obj["detail"]; ok {
		var detail string
		if err := json.Unmarshal(d, &detail); err == nil {
			return detail
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		var msgs []string
		if err := json.Unmarshal(obj[k], &msgs); err == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(msgs, ", ")))
			continue
		}
		var msg string
		if err := json.Unmarshal(obj[k], &msg); err == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", k, msg))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("HTTP %d", status)
	}
	return strings.Join(parts, " | ")
}
