package backend

import (
	"encoding/json"
	"fmt"
	"sync"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Envelope expressions for the response shapes the content API uses.
const (
	// UnwrapData takes `data` when present, otherwise the whole document (bare arrays).
	UnwrapData = "not_null(data, @)"
	// UnwrapPosts takes the post list from `{data:{posts:[...]}}`.
	UnwrapPosts = "not_null(data.posts, data, @)"
	// UnwrapWhole keeps the document as-is.
	UnwrapWhole = "@"
)

var compiled sync.Map // expression -> jmespath.JMESPath

// compile parses expr once; later calls reuse the compiled expression.
//
//nolint:ireturn // the library exposes compiled expressions as an interface.
func compile(expr string) (jmespath.JMESPath, error) {
	if jp, ok := compiled.Load(expr); ok {
		return jp.(jmespath.JMESPath), nil
	}
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile envelope %q: %w", expr, err)
	}
	actual, _ := compiled.LoadOrStore(expr, jp)
	return actual.(jmespath.JMESPath), nil
}

// decodeEnvelope decodes raw JSON, applies expr and decodes the selected value into out.
func decodeEnvelope(raw []byte, expr string, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if expr == "" || expr == UnwrapWhole {
		return json.Unmarshal(raw, out)
	}
	jp, err := compile(expr)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	selected, err := jp.Search(doc)
	if err != nil {
		return fmt.Errorf("apply envelope %q: %w", expr, err)
	}
	if selected == nil {
		return nil
	}
	b, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("re-encode envelope: %w", err)
	}
	return json.Unmarshal(b, out)
}

// errorMessageExpr picks the human message from an error body.
const errorMessageExpr = "not_null(message, error, data.message)"

// parseErrorBody extracts message and field errors from a failure response.
// The API sends `errors` either as strings or as objects with msg/message.
func parseErrorBody(raw []byte, status int) (string, []string) {
	msg := defaultMessage(status)
	var doc any
	if len(raw) == 0 || json.Unmarshal(raw, &doc) != nil {
		return msg, nil
	}
	if jp, err := compile(errorMessageExpr); err == nil {
		if v, err := jp.Search(doc); err == nil {
			if s, ok := v.(string); ok && s != "" {
				msg = s
			}
		}
	}
	var fieldErrs []string
	if obj, ok := doc.(map[string]any); ok {
		if list, ok := obj["errors"].([]any); ok {
			for _, item := range list {
				switch e := item.(type) {
				case string:
					fieldErrs = append(fieldErrs, e)
				case map[string]any:
					for _, k := range []string{"msg", "message"} {
						if s, ok := e[k].(string); ok && s != "" {
							fieldErrs = append(fieldErrs, s)
							break
						}
					}
				}
			}
		}
	}
	return msg, fieldErrs
}
