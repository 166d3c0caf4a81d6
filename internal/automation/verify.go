package automation

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
)

// DefaultVerifyExpression judges a login successful when the page has left
// the login route. This is a heuristic, not a proof of authentication: the
// target UI redirects unauthenticated visitors back to the login path, so
// absence of that redirect is the best signal available without an API call.
const DefaultVerifyExpression = "!on_login_route"

// Verifier decides whether a page URL represents an authenticated state.
type Verifier func(currentURL string) bool

// NewVerifier compiles a govaluate expression into a URL predicate. The
// expression sees `url` (current URL), `login_path` (configured login path
// segment), `landing_path`, and the derived booleans `on_login_route` and
// `on_landing_route`.
func NewVerifier(expr, loginPath, landingPath string) (Verifier, error) {
	if expr == "" {
		expr = DefaultVerifyExpression
	}
	compiled, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid verify expression %q: %w", expr, err)
	}
	return func(currentURL string) bool {
		params := map[string]interface{}{
			"url":              currentURL,
			"login_path":       loginPath,
			"landing_path":     landingPath,
			"on_login_route":   strings.Contains(currentURL, loginPath),
			"on_landing_route": strings.Contains(currentURL, landingPath),
		}
		result, err := compiled.Evaluate(params)
		if err != nil {
			return false
		}
		ok, isBool := result.(bool)
		return isBool && ok
	}, nil
}
