package helper

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig holds configuration loaded from a YAML file with dotted-path
// access. Environment variables prefixed with BIO_KG_ override file values,
// with "__" separating path segments (BIO_KG_RETRIEVAL__MAX_HOPS=1 overrides
// retrieval.max_hops).
type AppConfig struct {
	raw map[string]interface{}
}

const envPrefix = "BIO_KG_"

// LoadConfig reads a YAML configuration file and applies environment overrides
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError("read config file", err)
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewError("parse config yaml", err)
	}

	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		dotted := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "__", ".")
		assign(raw, dotted, value)
	}

	return &AppConfig{raw: raw}, nil
}

// Get returns the value at a dotted path, or fallback if absent
func (c *AppConfig) Get(dottedPath string, fallback interface{}) interface{} {
	var node interface{} = c.raw
	for _, part := range strings.Split(dottedPath, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return fallback
		}
		node, ok = m[part]
		if !ok {
			return fallback
		}
	}
	return node
}

// GetString returns a string value at a dotted path
func (c *AppConfig) GetString(dottedPath string, fallback string) string {
	switch v := c.Get(dottedPath, fallback).(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetInt returns an integer value at a dotted path
func (c *AppConfig) GetInt(dottedPath string, fallback int) int {
	switch v := c.Get(dottedPath, fallback).(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetFloat returns a float value at a dotted path
func (c *AppConfig) GetFloat(dottedPath string, fallback float64) float64 {
	switch v := c.Get(dottedPath, fallback).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetBool returns a boolean value at a dotted path
func (c *AppConfig) GetBool(dottedPath string, fallback bool) bool {
	switch v := c.Get(dottedPath, fallback).(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func assign(tree map[string]interface{}, dotted string, value interface{}) {
	parts := strings.Split(dotted, ".")
	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}
