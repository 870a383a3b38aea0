package yamlconfig

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Section is a subtree of a Source.
type Section struct {
	key    string
	value  any
	exists bool
}

// Key returns the path the section was requested with.
func (s *Section) Key() string {
	return s.key
}

// Exists reports whether the source has a value at the section's path.
func (s *Section) Exists() bool {
	return s.exists
}

// Value returns the child value at the relative path name.
func (s *Section) Value(name string) (any, bool) {
	if !s.exists {
		return nil, false
	}
	if name == "" {
		return s.value, true
	}
	m, ok := s.value.(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(m, splitPath(name))
}

// Decode copies the section onto target, which must be a non-nil pointer.
// Field names match keys case-insensitively; a `config` tag overrides the
// name. Strings are converted to the field type where possible, so values
// coming from the environment decode like native YAML values. Durations
// accept time.ParseDuration syntax and string slices accept comma-separated
// lists.
//
// Decoding a section that does not exist leaves target untouched.
func (s *Section) Decode(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if !s.exists {
		return nil
	}
	return decoder.Decode(s.value)
}

func (s *Section) String() string {
	var b strings.Builder
	b.WriteString(s.key)
	if !s.exists {
		b.WriteString(" (missing)")
	}
	return b.String()
}
