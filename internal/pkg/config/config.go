// Package config exposes typed access to layered configuration: a file on
// disk overridden by environment variables.
package config

import (
	"io"
	"time"
)

// Config retrieves configuration values. Missing keys or values that cannot
// be converted yield the zero value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetString(key string) string

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetMillisecond reads an integer number of milliseconds.
	GetMillisecond(key string) time.Duration

	// GetBinary decodes a base64 value. Both the standard and the URL-safe
	// alphabets are accepted, with or without padding.
	GetBinary(key string) []byte

	// GetArray reads "a,b,c" or a YAML list. Elements are trimmed and empty
	// ones dropped.
	GetArray(key string) []string

	// GetMap reads "k1:v1,k2:v2".
	GetMap(key string) map[string]string
}
