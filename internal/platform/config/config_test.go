package config

import (
	"reflect"
	"testing"
	"time"

	kit "b4b/internal/platform/testkit"
)

func TestPrefix_Nests(t *testing.T) {
	t.Parallel()

	c := New().Prefix("SERVICE_").Prefix("PGSQL_")
	if got := c.key("DBURL"); got != "SERVICE_PGSQL_DBURL" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("TELEGRAM_")
	t.Setenv("TELEGRAM_BOT_TOKEN", "  123:abc ")
	t.Setenv("TELEGRAM_BLANK", "   ")

	if got := c.MustString("BOT_TOKEN"); got != "123:abc" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("NORMALIZER_")
	t.Setenv("NORMALIZER_BATCH_SIZE", " 25 ")
	t.Setenv("NORMALIZER_BAD_SIZE", "lots")
	t.Setenv("NORMALIZER_ENABLED", "false")
	t.Setenv("NORMALIZER_BAD_BOOL", "maybe")
	t.Setenv("NORMALIZER_TIMEOUT", "90s")
	t.Setenv("NORMALIZER_BAD_TIMEOUT", "soon")
	t.Setenv("NORMALIZER_CURRENCY", " EUR ")

	cases := []struct {
		name string
		got  any
		want any
	}{
		{"int set", c.MayInt("BATCH_SIZE", 50), 25},
		{"int invalid", c.MayInt("BAD_SIZE", 50), 50},
		{"int missing", c.MayInt("NOPE", 50), 50},
		{"bool set", c.MayBool("ENABLED", true), false},
		{"bool invalid", c.MayBool("BAD_BOOL", true), true},
		{"duration set", c.MayDuration("TIMEOUT", time.Second), 90 * time.Second},
		{"duration invalid", c.MayDuration("BAD_TIMEOUT", time.Second), time.Second},
		{"string set", c.MayString("CURRENCY", "CZK"), "EUR"},
		{"string missing", c.MayString("NOPE", "CZK"), "CZK"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("TELEGRAM_")
	def := []string{"fallback"}

	cases := []struct {
		env  string
		want []string
	}{
		{"", def},
		{" , ,  ,", def},
		{"101, 202 ,,303", []string{"101", "202", "303"}},
	}
	for _, tc := range cases {
		t.Setenv("TELEGRAM_ALLOWED_CHATS", tc.env)
		if got := c.MayCSV("ALLOWED_CHATS", def); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("MayCSV(%q) = %#v, want %#v", tc.env, got, tc.want)
		}
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("LOG_")

	if got := c.MayEnum("MISS", "json", "json", "console"); got != "json" {
		t.Fatalf("default = %q", got)
	}
	if got := c.MayEnum("MISS", "", "json", "console"); got != "" {
		t.Fatalf("empty default = %q", got)
	}

	t.Setenv("LOG_FORMAT", "Console")
	if got := c.MayEnum("FORMAT", "json", "json", "console"); got != "Console" {
		t.Fatalf("allowed value = %q, want it as written", got)
	}

	t.Setenv("LOG_BAD", "xml")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "json", "json", "console") })
}

func TestMask(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                 "<unset>",
		"abc":              "***",
		"sk-live-12345678": "************5678",
		"heslo-žluťoučký":  "***********učký",
	}
	for in, want := range cases {
		if got := Mask(in); got != want {
			t.Fatalf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMasked(t *testing.T) {
	t.Setenv("LLM_API_KEY", "  sk-abcdef  ")
	c := New().Prefix("LLM_")
	if got := c.Masked("API_KEY"); got != "*****cdef" {
		t.Fatalf("Masked = %q", got)
	}
	if got := c.Masked("MISSING"); got != "<unset>" {
		t.Fatalf("Masked(missing) = %q", got)
	}
}
