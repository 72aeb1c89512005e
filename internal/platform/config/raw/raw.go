// Package raw reads environment variables without logging
// the logger bootstraps from it, so it must not import the logger or config
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Env is a prefixed view over the environment, e.g. New("LOG_")
type Env struct{ prefix string }

// New returns an Env reading keys under prefix
func New(prefix string) Env { return Env{prefix: prefix} }

func (e Env) get(key string) string { return strings.TrimSpace(os.Getenv(e.prefix + key)) }

// String returns the trimmed value or def when blank
func (e Env) String(key, def string) string {
	if v := e.get(key); v != "" {
		return v
	}
	return def
}

// Bool accepts strconv.ParseBool spellings plus yes and no
func (e Env) Bool(key string, def bool) bool {
	switch v := strings.ToLower(e.get(key)); v {
	case "":
		return def
	case "yes":
		return true
	case "no":
		return false
	default:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
}

// Int returns a non negative int or def
func (e Env) Int(key string, def int) int {
	n, err := strconv.Atoi(e.get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
