// Package yamlconfig is a hierarchical configuration source backed by YAML
// documents, with optional overrides from .env files and the process
// environment.
//
// Keys are case-insensitive. Section paths may be separated with ":" or ".",
// so "Database:Primary" and "database.primary" name the same section.
// Environment overrides use "__" between levels: DATABASE__PRIMARY__HOST=db1
// sets database.primary.host.
package yamlconfig

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gburgyan/go-autoreg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envSeparator separates hierarchy levels in environment variable names.
const envSeparator = "__"

// Source is a parsed configuration tree. It is immutable once built and safe
// for concurrent use.
type Source struct {
	values map[string]any
}

// Option is a functional option for Parse and Load.
type Option func(*options)

type options struct {
	envFiles  []string
	useEnv    bool
	envPrefix string
}

// WithEnvFile overlays the variables defined in the given .env files. Later
// files take precedence over earlier ones. When WithEnvironment is also
// given, its prefix applies to the file entries too: only names carrying the
// prefix are used, and the prefix is stripped.
func WithEnvFile(files ...string) Option {
	return func(o *options) {
		o.envFiles = append(o.envFiles, files...)
	}
}

// WithEnvironment overlays process environment variables whose name starts
// with prefix; the prefix is stripped before the name is mapped to a path.
// Environment variables win over .env files. An empty prefix overlays the
// whole process environment, PATH and HOME included.
func WithEnvironment(prefix string) Option {
	return func(o *options) {
		o.useEnv = true
		o.envPrefix = prefix
	}
}

// Load reads and parses the YAML file at path.
func Load(path string, opts ...Option) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration %s: %w", path, err)
	}
	return Parse(data, opts...)
}

// Parse builds a Source from a YAML document. An empty document yields an
// empty Source.
func Parse(data []byte, opts ...Option) (*Source, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	s := &Source{values: normalizeMap(raw)}

	if len(o.envFiles) > 0 {
		env, err := godotenv.Read(o.envFiles...)
		if err != nil {
			return nil, fmt.Errorf("reading env files: %w", err)
		}
		s.overlay(env, o.envPrefix)
	}
	if o.useEnv {
		env := map[string]string{}
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
		s.overlay(env, o.envPrefix)
	}
	return s, nil
}

// GetSection returns the section at key. The result is never nil; use
// Section.Exists to tell whether anything is configured there.
func (s *Source) GetSection(key string) autoreg.ConfigurationSection {
	return s.Section(key)
}

// Section is GetSection with the concrete result type.
func (s *Source) Section(key string) *Section {
	value, ok := lookup(s.values, splitPath(key))
	return &Section{key: key, value: value, exists: ok}
}

// overlay applies env in a fixed order: shallower paths first, then by
// name. A child key such as CACHE__SIZE therefore always wins over a scalar
// CACHE set alongside it.
func (s *Source) overlay(env map[string]string, prefix string) {
	type override struct {
		path  []string
		value string
	}
	var overrides []override
	for name, value := range env {
		if prefix != "" {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			name = strings.TrimPrefix(name, prefix)
		}
		path := strings.Split(strings.ToLower(name), envSeparator)
		if len(path) == 0 || path[0] == "" {
			continue
		}
		overrides = append(overrides, override{path: path, value: value})
	}

	sort.Slice(overrides, func(i, j int) bool {
		a, b := overrides[i].path, overrides[j].path
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return strings.Join(a, envSeparator) < strings.Join(b, envSeparator)
	})
	for _, o := range overrides {
		setPath(s.values, o.path, o.value)
	}
}

func splitPath(key string) []string {
	fields := strings.FieldsFunc(strings.ToLower(key), func(r rune) bool {
		return r == ':' || r == '.'
	})
	return fields
}

func lookup(values map[string]any, path []string) (any, bool) {
	var current any = values
	for _, part := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath stores value at path, replacing scalars that stand in the way.
func setPath(values map[string]any, path []string, value string) {
	current := values
	for _, part := range path[:len(path)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

// normalizeMap lower-cases every key in the tree. yaml.v3 produces
// map[string]any for string keys and map[any]any otherwise.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[strings.ToLower(fmt.Sprint(k))] = normalizeValue(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}
