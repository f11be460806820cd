// Package middleware holds the HTTP middleware mounted by the REST router:
// request ids, access logs, panic recovery, CORS, base URL detection, bearer
// authentication, user requirements and rate limiting.
package middleware

import "net/http"

// Middleware wraps an http.Handler. chi's Use and With accept it directly.
type Middleware = func(http.Handler) http.Handler
