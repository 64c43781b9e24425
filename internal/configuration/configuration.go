// Package configuration loads the settings of the command line tool from
// dotenv files, with the process environment as fallback for absent keys.
package configuration

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler reads configuration files and maps their keys into typed values.
type Handler struct {
	genericHandler genericConfigProvider
	lookupEnv      func(key string) (string, bool)
}

// NewHandler returns a pointer to a new [Handler]. A nil lookupEnv disables
// the environment fallback.
func NewHandler(genericHandler genericConfigProvider, lookupEnv func(key string) (string, bool)) *Handler {
	return &Handler{
		genericHandler: genericHandler,
		lookupEnv:      lookupEnv,
	}
}

// NewDefaultHandler returns a pointer to a new [Handler] reading dotenv files
// and falling back to the process environment.
func NewDefaultHandler() *Handler {
	return NewHandler(&GodotenvProvider{}, os.LookupEnv)
}

// ReadGeneric reads the given files into one map. Without files the map is
// empty.
func (c *Handler) ReadGeneric(filenames ...string) (map[string]string, error) {
	if len(filenames) == 0 {
		return map[string]string{}, nil
	}

	return c.genericHandler.Read(filenames...)
}

// MapKeyToString returns the value of key, from envMap or else from the
// environment, or "" when it is set in neither.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return value
	}
	if c.lookupEnv != nil {
		if value, exists := c.lookupEnv(key); exists {
			return value
		}
	}

	return ""
}

// MapKeyToInt returns the value of key as an int, or -1 when it is unset or
// not a number.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) int {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToBool returns the value of key as a bool. "1", "true", "yes" and
// "on" are true, case-insensitively.
func (c *Handler) MapKeyToBool(envMap map[string]string, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.MapKeyToString(envMap, key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MapKeyToDuration returns the value of key as a duration. Plain numbers are
// seconds. Unset or malformed values yield 0.
func (c *Handler) MapKeyToDuration(envMap map[string]string, key string) time.Duration {
	value := strings.TrimSpace(c.MapKeyToString(envMap, key))
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}

	return d
}
