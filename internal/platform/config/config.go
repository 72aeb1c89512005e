// Package config reads b4b settings from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"b4b/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("NORMALIZER_")
type Conf struct{ prefix string }

// New creates a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the full name of key and its trimmed value
func (c Conf) lookup(key string) (name, val string) {
	name = c.key(key)
	return name, strings.TrimSpace(os.Getenv(name))
}

// MustString panics when key is missing or blank
func (c Conf) MustString(key string) string {
	k, v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", k).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def when missing or blank
func (c Conf) MayString(key, def string) string {
	if _, v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// may parses key with parse, a bad value is logged and def wins
func may[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	k, s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", k).Str("value", s).Interface("default", def).Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// MayInt returns the int under key or def
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, "int", strconv.Atoi)
}

// MayBool returns the bool under key or def, strconv.ParseBool spellings
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns the duration under key or def, e.g. 90s or 1h
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, "duration", time.ParseDuration)
}

// MayCSV splits a comma separated value, blank items are dropped
// def is returned when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	_, s := c.lookup(key)
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value under key or def and panics when it is not one of allowed
// the match is case insensitive, the value is returned as written
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// Masked returns the value under key with everything but the last four runes hidden
// used by startup diagnostics so secrets never hit the log in full
func (c Conf) Masked(key string) string {
	_, v := c.lookup(key)
	return Mask(v)
}

// Mask hides all but the last four runes of s, empty input reports "<unset>"
func Mask(s string) string {
	if s == "" {
		return "<unset>"
	}
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
