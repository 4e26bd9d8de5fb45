package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/logging"
	"github.com/dmitrijs2005/filmvault/internal/server/auth"
	"github.com/dmitrijs2005/filmvault/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

// PublicPaths are reachable without a session, along with everything below them.
var PublicPaths = []string{
	"/login",
	"/register",
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/logout",
	"/healthz",
}

// StaticPrefixes are matched as plain string prefixes.
var StaticPrefixes = []string{
	"/static/",
	"/favicon",
}

const loginPath = "/login"

type ctxKey string

const claimsKey ctxKey = "claims"

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// DenyReason tells why a request was refused.
type DenyReason string

const (
	DenyNone          DenyReason = ""
	DenyMissingCookie DenyReason = "missing_cookie"
	DenyInvalidToken  DenyReason = "invalid_token"
)

// Decision is the outcome of admitting a single request. It is never stored.
type Decision struct {
	Public bool
	Claims *auth.Claims
	Deny   DenyReason
	Err    error
}

func (d Decision) Allowed() bool {
	return d.Deny == DenyNone
}

// IsPublic reports whether path may be served without a session. A public
// path p matches p itself and p + "/...", never "/loginx".
func IsPublic(path string) bool {
	for _, p := range PublicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	for _, p := range StaticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Gate is the route admission middleware. It keeps no per-request state.
type Gate struct {
	tokens  TokenVerifier
	cookies CookieOptions
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewGate(tokens TokenVerifier, cookies CookieOptions, m *metrics.Metrics, l logging.Logger) *Gate {
	return &Gate{tokens: tokens, cookies: cookies, metrics: m, logger: l.With("module", "gate")}
}

// Decide classifies r without side effects.
func (g *Gate) Decide(r *http.Request) Decision {
	if IsPublic(r.URL.Path) {
		return Decision{Public: true}
	}

	cookie, err := r.Cookie(common.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return Decision{Deny: DenyMissingCookie}
	}

	claims, err := g.tokens.Verify(cookie.Value)
	if err != nil {
		return Decision{Deny: DenyInvalidToken, Err: err}
	}
	return Decision{Claims: claims}
}

// Middleware applies Decide. Refused requests are redirected to the login
// page and never reach a handler.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := g.Decide(c.Request)

		switch {
		case d.Public:
			g.count("public")
			c.Next()
			return
		case d.Allowed():
			g.count("allow")
			c.Set(string(claimsKey), d.Claims)
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), claimsKey, d.Claims))
			c.Next()
			return
		}

		g.count(string(d.Deny))
		if d.Deny == DenyInvalidToken {
			g.logger.Debug(c.Request.Context(), "session rejected", "path", c.Request.URL.Path, "reason", d.Err)
			clearSessionCookie(c.Writer, g.cookies)
		}
		c.Redirect(http.StatusTemporaryRedirect, LoginRedirect(c.Request.URL))
		c.Abort()
	}
}

func (g *Gate) count(decision string) {
	if g.metrics != nil {
		g.metrics.GateDecisions.WithLabelValues(decision).Inc()
	}
}

// LoginRedirect builds /login?from=<path and query of u>.
func LoginRedirect(u *url.URL) string {
	q := url.Values{}
	q.Set(common.RedirectParam, u.RequestURI())
	return loginPath + "?" + q.Encode()
}

// SafeRedirect returns target when it is a local absolute path, "" otherwise.
// Browsers drop tab and newline characters from URLs, so any control
// character is refused outright.
func SafeRedirect(target string) string {
	for i := 0; i < len(target); i++ {
		if target[i] < 0x20 || target[i] == 0x7f {
			return ""
		}
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return ""
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return target
}

// ClaimsFrom returns the claims the gate stored for this request.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(string(claimsKey))
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

// ClaimsFromContext is ClaimsFrom for code that only sees a context.Context.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
