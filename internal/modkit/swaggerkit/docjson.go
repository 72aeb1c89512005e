package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"b4b/internal/platform/config"
	perr "b4b/internal/platform/errors"
)

//go:embed openapi.json
var openapiDoc string

// docReader is a seam so tests can inject a broken document
var docReader = func() string { return openapiDoc }

// errorRef points at the envelope schema every error response shares
const errorRef = "#/components/schemas/ErrorResponse"

// fallbacks are attached to every operation that does not document the status itself
var fallbacks = []struct {
	status int
	code   perr.ErrorCode
	msg    string
}{
	{http.StatusBadRequest, perr.ErrorCodeValidation, "goal must be greater than or equal to 0"},
	{http.StatusInternalServerError, perr.ErrorCodePanic, "internal error"},
}

// serveDocJSON serves the embedded OpenAPI document with the shared error model filled in
func serveDocJSON() http.HandlerFunc {
	suffix := config.New().Prefix("API_").MayString("DOCS_TITLE_SUFFIX", "")
	return func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]any
		if err := json.Unmarshal([]byte(docReader()), &doc); err != nil {
			http.Error(w, "openapi document is not valid json", http.StatusInternalServerError)
			return
		}
		decorate(doc, suffix)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

// decorate pins the document to OAS 3.0.3 under /api/v1 and adds the error envelope
func decorate(doc map[string]any, titleSuffix string) {
	// the bundled ui renders 3.0 only
	if v, _ := doc["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		doc["openapi"] = "3.0.3"
	}
	delete(doc, "swagger")
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{map[string]any{"url": "/api/v1"}}
	}

	if info := child(doc, "info"); titleSuffix != "" {
		if title, ok := info["title"].(string); ok {
			info["title"] = title + " " + titleSuffix
		}
	}

	schemas := child(child(doc, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorSchema()
	}

	paths, _ := doc["paths"].(map[string]any)
	for _, p := range paths {
		methods, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, op := range methods {
			op, ok := op.(map[string]any)
			if !ok {
				continue
			}
			resps := child(op, "responses")
			for _, f := range fallbacks {
				key := strconv.Itoa(f.status)
				if _, ok := resps[key]; !ok {
					resps[key] = errorResponse(f.status, f.code, f.msg)
				}
			}
		}
	}
}

// child returns m[key] as a map, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func errorSchema() map[string]any {
	prop := func(typ string) map[string]any { return map[string]any{"type": typ} }
	return map[string]any{
		"type":        "object",
		"description": "Error envelope returned by every endpoint",
		"properties": map[string]any{
			"status_code": prop("integer"),
			"status":      prop("string"),
			"code":        prop("integer"),
			"error":       prop("string"),
			"request_id":  prop("string"),
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(status int, code perr.ErrorCode, msg string) map[string]any {
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": errorRef},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        int(code),
					"error":       msg,
				},
			},
		},
	}
}
