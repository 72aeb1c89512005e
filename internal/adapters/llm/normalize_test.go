package llm

import (
	"context"
	"testing"

	perr "b4b/internal/platform/errors"
)

func TestStripFences(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{`[{"id":1}]`, `[{"id":1}]`},
		{"```json\n[1]\n```", "[1]"},
		{"```JSON\n[1]\n```", "[1]"},
		{"```\n[1]\n```", "[1]"},
		{"```json[1]```", "[1]"},
		{"  \n```json\n[]\n```  ", "[]"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := StripFences(tc.in); got != tc.want {
			t.Fatalf("StripFences(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalCategory(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Essential-Food":  "Essential-Food",
		"essential-food":  "Essential-Food",
		" TECH ":          "Tech",
		"groceries":       "Other",
		"":                "Other",
		"overpriced-food": "Overpriced-Food",
	}
	for in, want := range tests {
		if got := CanonicalCategory(in); got != want {
			t.Fatalf("CanonicalCategory(%q)=%q want %q", in, got, want)
		}
	}
}

func TestParseResults_DropsInvalidItems(t *testing.T) {
	t.Parallel()

	content := `[
		{"id": 1, "item_name": "", "amount": 10, "category": "Fun"},
		{"id": 0, "item_name": "ghost", "amount": 10, "category": "Fun"},
		{"id": 2, "item_name": "refund", "amount": -5, "category": "Other"},
		{"id": 3, "item_name": "cinema", "amount": 250, "currency": "Kč", "category": "fun"},
		{"id": 4, "item_name": "coffee", "category": "Essential-Food"},
		{"id": 5, "item_name": "tea", "amount": null, "category": "Fun"}
	]`
	got, err := ParseResults(context.Background(), content)
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d want 1: %+v", len(got), got)
	}
	if got[0].ID != 3 || got[0].Currency != "" || got[0].Category != "Fun" {
		t.Fatalf("kept=%+v", got[0])
	}
}

func TestParseResults_AmountMustBePresent(t *testing.T) {
	t.Parallel()

	got, err := ParseResults(context.Background(),
		`[{"id":7,"item_name":"coffee","category":"Essential-Food"},{"id":8,"item_name":"tea","amount":"0","category":"Fun"}]`)
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	if len(got) != 1 || got[0].ID != 8 || !got[0].Amount.IsZero() {
		t.Fatalf("got=%+v want only id 8 with explicit zero", got)
	}
}

func TestParseResults_AllDroppedIsEmptyResponse(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"blank name":     `[{"id":1,"item_name":"","category":"Fun","amount":5}]`,
		"null amount":    `[{"id":8,"item_name":"tea","amount":null,"category":"Fun"}]`,
		"missing amount": `[{"id":7,"item_name":"coffee","category":"Essential-Food"}]`,
		"negative":       `[{"id":2,"item_name":"refund","amount":-5,"category":"Other"}]`,
	}
	for name, content := range cases {
		got, err := ParseResults(context.Background(), content)
		if !perr.IsCode(err, perr.ErrorCodeEmptyResponse) {
			t.Fatalf("%s: err=%v want EmptyResponse", name, err)
		}
		if got != nil {
			t.Fatalf("%s: got=%+v want nil", name, got)
		}
	}
}
