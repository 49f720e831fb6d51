package validator

import (
	"slices"
	"strings"
	"time"
)

// Validator collects validation errors keyed by field
// keys keeps the order errors were added in so that
// responses carrying a single message are deterministic
type Validator struct {
	Errors map[string]string
	keys   []string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the errors map doesn't contain any entries
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message to the map
// as long as no entry already exists for the given key
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.keys = append(v.keys, key)
	}
}

// Check adds an error message to the map only if a validation check is not `ok`
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// First returns the message of the earliest failed check
func (v *Validator) First() string {
	if len(v.keys) == 0 {
		return ""
	}

	return v.Errors[v.keys[0]]
}

// generic function that returns true if value is in the list of permitted values
func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	return slices.Contains(permittedValues, value)
}

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidDate reports whether value parses with the given time layout
func ValidDate(value, layout string) bool {
	_, err := time.Parse(layout, value)
	return err == nil
}
