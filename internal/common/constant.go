package common

import "time"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SessionLifetime bounds both the token expiration and the cookie Max-Age.
const SessionLifetime = 7 * 24 * time.Hour

// RedirectParam is the login query parameter holding the originally requested path.
const RedirectParam = "from"
