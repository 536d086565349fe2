// Package settings provides the key/value analysis properties FxCop runs are configured with.
package settings

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/viper"
)

// keyDelimiter keeps dotted property names such as sonar.cs.fxcop.assembly flat.
const keyDelimiter = "::"

// Settings is a read-only view over analysis properties.
// A key holding an empty or blank value counts as absent, so an empty
// sonar.cs.fxcop.reportPath does not select report reuse. Key lookups are
// case-insensitive: sonar.cs.fxcop.fxCopCmdPath and sonar.cs.fxcop.fxcopcmdpath are the same key.
type Settings interface {
	HasKey(key string) bool
	Get(key string) (string, bool)
}

// Properties is a layered property source: file values, then explicit overrides.
type Properties struct {
	v *viper.Viper
}

// New returns an empty property set.
func New() *Properties {
	return &Properties{v: viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))}
}

// FromMap returns a property set holding values.
func FromMap(values map[string]string) *Properties {
	p := New()
	for k, v := range values {
		p.Set(k, v)
	}
	return p
}

// Load reads a properties file. Files ending in .properties use Java properties syntax,
// anything else is handed to viper (yaml, json, toml).
func Load(path string) (*Properties, error) {
	p := New()
	if path == "" {
		return p, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".properties") {
		props, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return nil, fmt.Errorf("failed to load properties file %q: %w", path, err)
		}
		values := make(map[string]interface{}, props.Len())
		for k, v := range props.Map() {
			values[k] = v
		}
		if err := p.v.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("failed to merge properties from %q: %w", path, err)
		}
		return p, nil
	}

	p.v.SetConfigFile(path)
	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read properties file %q: %w", path, err)
	}
	return p, nil
}

// Set overrides a single property.
func (p *Properties) Set(key, value string) {
	p.v.Set(key, value)
}

// ApplyOverrides applies key=value pairs as given on the command line.
func (p *Properties) ApplyOverrides(pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid property %q, expected key=value", pair)
		}
		p.Set(key, strings.TrimSpace(value))
	}
	return nil
}

// HasKey reports whether key holds a non-empty value.
func (p *Properties) HasKey(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Get returns the value of key.
func (p *Properties) Get(key string) (string, bool) {
	if !p.v.IsSet(key) {
		return "", false
	}
	value := strings.TrimSpace(p.v.GetString(key))
	if value == "" {
		return "", false
	}
	return value, true
}

// Keys lists every property key, sorted.
func (p *Properties) Keys() []string {
	keys := p.v.AllKeys()
	sort.Strings(keys)
	return keys
}

// GetInt returns the integer value of key. ok is false when the key is absent.
func GetInt(s Settings, key string) (value int, ok bool, err error) {
	raw, ok := s.Get(key)
	if !ok {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("property %q must be an integer: %q", key, raw)
	}
	return value, true, nil
}

// GetBool returns the boolean value of key, or def when absent or malformed.
func GetBool(s Settings, key string, def bool) bool {
	raw, ok := s.Get(key)
	if !ok {
		return def
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return value
}

// GetList splits a comma separated property. Entries are trimmed and empty ones dropped.
func GetList(s Settings, key string) []string {
	raw, ok := s.Get(key)
	if !ok {
		return nil
	}
	var list []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
