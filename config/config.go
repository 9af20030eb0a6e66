// Package config loads and validates the negotiator configuration.
//
// The configuration is a tree of categories and typed entries. Entries are
// dot-separated paths such as "negotiation.available". Every entry has a
// default value; configuration files only override what they set.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"goyave.dev/negotiator/util/errors"
)

type object map[string]any

// Config structure holding a configuration.
//
// This structure is not protected for safe concurrent access. Never use
// `Set()` while the configuration is read by other goroutines.
type Config struct {
	config object
}

// Error returned when the configuration could not be loaded or is invalid.
// Can be unwrapped to get the original error.
type Error struct {
	err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Config error: %s", e.err.Error())
}

func (e *Error) Unwrap() error {
	return e.err
}

type readFunc func(string) (object, error)

// Load loads the config file in the working directory.
// If the "NEGOTIATOR_ENV" env variable is set, the file "config.<env>.json"
// is used. Otherwise "config.json" is used.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads the config file at the given path.
func LoadFrom(path string) (*Config, error) {
	return load(readConfigFile, path)
}

// LoadJSON loads the given JSON string as configuration.
func LoadJSON(cfg string) (*Config, error) {
	return load(readString, cfg)
}

// LoadDefault loads the default configuration.
func LoadDefault() *Config {
	cfg := make(object, len(configDefaults))
	loadDefaults(configDefaults, cfg)
	return &Config{config: cfg}
}

func load(readFunc readFunc, source string) (*Config, error) {
	cfg := LoadDefault()

	conf, err := readFunc(source)
	if err != nil {
		return nil, &Error{err}
	}

	if err := override(conf, cfg.config, ""); err != nil {
		return nil, &Error{err}
	}

	if err := cfg.config.validate(""); err != nil {
		return nil, &Error{err}
	}

	return cfg, nil
}

func readConfigFile(file string) (object, error) {
	conf := object{}
	configFile, err := os.Open(file)
	if err != nil {
		return nil, errors.New(err)
	}
	defer func() {
		_ = configFile.Close()
	}()

	if err := json.NewDecoder(configFile).Decode(&conf); err != nil {
		return nil, errors.Errorf("could not decode %q: %w", file, err)
	}
	return conf, nil
}

func readString(str string) (object, error) {
	conf := object{}
	if err := json.NewDecoder(strings.NewReader(str)).Decode(&conf); err != nil {
		return nil, errors.New(err)
	}
	return conf, nil
}

func getConfigFilePath() string {
	if env := strings.ToLower(os.Getenv("NEGOTIATOR_ENV")); env != "" {
		return "config." + env + ".json"
	}
	return "config.json"
}

func loadDefaults(src object, dst object) {
	for k, v := range src {
		if obj, ok := v.(object); ok {
			sub := make(object, len(obj))
			loadDefaults(obj, sub)
			dst[k] = sub
		} else {
			entry := v.(*Entry)
			value := entry.Value
			if slice, ok := value.([]string); ok {
				value = append([]string{}, slice...)
			}
			dst[k] = &Entry{
				Value:            value,
				AuthorizedValues: entry.AuthorizedValues,
				Type:             entry.Type,
				IsSlice:          entry.IsSlice,
				Required:         entry.Required,
			}
		}
	}
}

func override(src map[string]any, dst object, prefix string) error {
	for key, value := range src {
		path := joinKey(prefix, key)
		if m, ok := value.(map[string]any); ok {
			if entry, exists := dst[key]; exists {
				category, ok := entry.(object)
				if !ok {
					return errors.Errorf("cannot override entry %q with a category", path)
				}
				if err := override(m, category, path); err != nil {
					return err
				}
			} else {
				category := make(object, len(m))
				dst[key] = category
				if err := override(m, category, path); err != nil {
					return err
				}
			}
			continue
		}

		if entry, exists := dst[key]; exists {
			e, ok := entry.(*Entry)
			if !ok {
				return errors.Errorf("cannot override category %q with an entry", path)
			}
			e.Value = value
		} else {
			dst[key] = makeEntryFromValue(value)
		}
	}
	return nil
}

func (o object) validate(prefix string) error {
	errs := []error{}
	for key, entry := range o {
		path := joinKey(prefix, key)
		var err error
		if category, ok := entry.(object); ok {
			err = category.validate(path)
		} else {
			err = entry.(*Entry).validate(path)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.New(errs)
	}
	return nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Get a config entry. Panics if the entry doesn't exist.
func (c *Config) Get(key string) any {
	if val, ok := c.get(key); ok {
		return val
	}

	panic(errors.Errorf("config entry %q doesn't exist", key))
}

func (c *Config) get(key string) (any, bool) {
	current := c.config
	path := strings.Split(key, ".")
	for i, name := range path {
		entry, ok := current[name]
		if !ok {
			return nil, false
		}
		if category, ok := entry.(object); ok {
			current = category
			continue
		}
		if i != len(path)-1 {
			return nil, false
		}
		val := entry.(*Entry).Value
		return val, val != nil // nil means unset
	}
	return nil, false
}

// GetString a config entry as string.
// Panics if entry is not a string or if it doesn't exist.
func (c *Config) GetString(key string) string {
	str, ok := c.Get(key).(string)
	if !ok {
		panic(errors.Errorf("config entry %q is not a string", key))
	}
	return str
}

// GetBool a config entry as bool.
// Panics if entry is not a bool or if it doesn't exist.
func (c *Config) GetBool(key string) bool {
	val, ok := c.Get(key).(bool)
	if !ok {
		panic(errors.Errorf("config entry %q is not a bool", key))
	}
	return val
}

// GetStringSlice a config entry as []string.
// Panics if entry is not a string slice or if it doesn't exist.
func (c *Config) GetStringSlice(key string) []string {
	str, ok := c.Get(key).([]string)
	if !ok {
		panic(errors.Errorf("config entry %q is not a string slice", key))
	}
	return str
}

// Has check if a config entry exists.
func (c *Config) Has(key string) bool {
	_, ok := c.get(key)
	return ok
}

// Set a config entry. Use nil to unset a value.
//
//   - A category cannot be replaced with an entry.
//   - An entry cannot be replaced with a category.
//   - Missing categories are created.
//   - New entries are validated using the type of their initial value.
//
// Panics and reverts the change if the new value is invalid.
func (c *Config) Set(key string, value any) {
	category, entryKey, exists := walk(c.config, key)
	if !exists {
		category[entryKey] = makeEntryFromValue(value)
		return
	}

	entry := category[entryKey].(*Entry)
	previous := entry.Value
	entry.Value = value
	if err := entry.validate(key); err != nil {
		entry.Value = previous
		panic(err)
	}
}

func walk(current object, key string) (object, string, bool) {
	if key == "" {
		panic(errors.New("empty key is not allowed"))
	}

	path := strings.Split(key, ".")
	for i, name := range path[:len(path)-1] {
		entry, ok := current[name]
		if !ok {
			category := object{}
			current[name] = category
			current = category
			continue
		}
		category, ok := entry.(object)
		if !ok {
			panic(errors.Errorf("attempted to add an entry to non-category %q", strings.Join(path[:i+1], ".")))
		}
		current = category
	}

	last := path[len(path)-1]
	entry, exists := current[last]
	if _, isCategory := entry.(object); exists && isCategory {
		panic(errors.Errorf("attempted to replace the %q category with an entry", key))
	}
	return current, last, exists
}
