package gate

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/skip"
	"github.com/gofiber/fiber/v2/utils"
)

// CookieName carries the access token issued by the auth service.
const CookieName = "accessToken"

const decisionKey = "gate_decision"

// clearCredentialCookie deletes the access token cookie on the client.
var clearCredentialCookie = (&http.Cookie{Name: CookieName, Path: "/", MaxAge: -1}).String()

// DecisionRecorder receives one call per evaluated request.
type DecisionRecorder interface {
	RecordDecision(outcome, reason string)
}

// Middleware returns the Fiber handler enforcing the gate. Paths under any of the
// excluded prefixes bypass it entirely. Redirects keep the request's query
// parameters. recorder may be nil.
func (g *Gate) Middleware(recorder DecisionRecorder, excluded []string) fiber.Handler {
	handler := func(c *fiber.Ctx) error {
		d := g.Decide(utils.CopyString(c.Path()), c.Cookies(CookieName))
		if recorder != nil {
			recorder.RecordDecision(d.Outcome.String(), ReasonCode(d.Reason))
		}

		if !d.Outcome.Redirects() {
			c.Locals(decisionKey, d)
			return c.Next()
		}

		if d.ClearCredential {
			c.Append(fiber.HeaderSetCookie, clearCredentialCookie)
		}
		location := d.LocationWithQuery(string(c.Request().URI().QueryString()))
		return c.Redirect(location, fiber.StatusTemporaryRedirect)
	}

	return skip.New(handler, func(c *fiber.Ctx) bool {
		return IsExcluded(c.Path(), excluded)
	})
}

// DecisionFromContext returns the decision stored for a request that passed the gate.
func DecisionFromContext(c *fiber.Ctx) (Decision, bool) {
	d, ok := c.Locals(decisionKey).(Decision)
	return d, ok
}

// ReasonCode maps a denial reason to a stable label for logs and metrics.
func ReasonCode(reason error) string {
	switch {
	case reason == nil:
		return "none"
	case errors.Is(reason, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(reason, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(reason, ErrUnauthorizedRole):
		return "unauthorized_role"
	case errors.Is(reason, ErrUnrecognizedRole):
		return "unrecognized_role"
	case errors.Is(reason, ErrMalformedPath):
		return "malformed_path"
	default:
		return "other"
	}
}
