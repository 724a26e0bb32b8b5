package render

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// Typesetter converts a raw math expression into display markup. The math
// engine itself is a collaborator; the portal only defines the contract:
// display-mode for $$-delimited expressions, inline for single-$.
type Typesetter interface {
	Typeset(expr string, display bool) (string, error)
}

// SpanTypesetter is the built-in typesetter. It emits the expression inside
// a math span for client-side styling, after checking the expression is
// well formed enough to be worth shipping.
type SpanTypesetter struct{}

var errMalformedMath = errors.New("malformed math expression")

// Typeset validates delimiters and brace balance, then wraps the escaped
// expression in an inline or display math span.
func (SpanTypesetter) Typeset(expr string, display bool) (string, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty expression", errMalformedMath)
	}
	if !balancedBraces(trimmed) {
		return "", fmt.Errorf("%w: unbalanced braces", errMalformedMath)
	}

	mode := "math-inline"
	if display {
		mode = "math-display"
	}
	return `<span class="math ` + mode + `">` + html.EscapeString(trimmed) + `</span>`, nil
}

// balancedBraces checks {} nesting, the most common authoring mistake in
// stored formulas.
func balancedBraces(expr string) bool {
	depth := 0
	escaped := false
	for _, r := range expr {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
