package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads rc-format configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := unquote(strings.TrimSpace(parts[1]))
		if err := cfg.Set(section, key, value); err != nil {
			return nil, sectionError(section, err)
		}
	}

	return cfg, scanner.Err()
}

// ParseYAML reads the YAML form of the configuration. Top-level scalars map
// to the root section, mappings to sections of the same name and the
// "themes" mapping to theme sections:
//
//	lesson: algebra
//	brush:
//	  color: red
//	voice:
//	  yeşil kalem: "tool-change pencil #00FF00"
//	themes:
//	  chalk:
//	    Background: "#203020"
func ParseYAML(r io.Reader) (*Config, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	cfg := New()
	for _, key := range sortedKeys(doc) {
		switch v := doc[key].(type) {
		case map[string]any:
			if strings.EqualFold(key, "themes") {
				for _, name := range sortedKeys(v) {
					fields, ok := v[name].(map[string]any)
					if !ok {
						return nil, fmt.Errorf("theme %s: expected a mapping", name)
					}
					if err := setAll(cfg, "theme."+name, fields); err != nil {
						return nil, err
					}
				}
				continue
			}
			if err := setAll(cfg, key, v); err != nil {
				return nil, err
			}
		default:
			if err := cfg.Set("", key, scalar(v)); err != nil {
				return nil, sectionError("", err)
			}
		}
	}
	return cfg, nil
}

func setAll(cfg *Config, section string, values map[string]any) error {
	for _, k := range sortedKeys(values) {
		if err := cfg.Set(section, k, scalar(values[k])); err != nil {
			return sectionError(section, err)
		}
	}
	return nil
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") {
		return s[1 : len(s)-1]
	}
	return s
}

func sectionError(section string, err error) error {
	if section == "" {
		return fmt.Errorf("error in root section: %w", err)
	}
	return fmt.Errorf("error in section [%s]: %w", section, err)
}

// envKeys lists the settings that can be overridden from the environment,
// as section/key pairs.
var envKeys = [][2]string{
	{"", "lesson"},
	{"", "store"},
	{"", "theme"},
	{"brush", "color"},
	{"brush", "size"},
	{"board", "width"},
	{"board", "height"},
	{"board", "background"},
	{"dictation", "enabled"},
	{"dictation", "bus_name"},
	{"dictation", "object_path"},
	{"server", "addr"},
}

// EnvName returns the environment variable overriding section/key, for
// example LESSONBOARD_BRUSH_COLOR.
func EnvName(section, key string) string {
	name := "LESSONBOARD_"
	if section != "" {
		name += strings.ToUpper(section) + "_"
	}
	return name + strings.ToUpper(key)
}

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, sk := range envKeys {
		name := EnvName(sk[0], sk[1])
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := c.Set(sk[0], sk[1], strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
