package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in the request context so
// handlers downstream of the session middleware can reach it.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session, or nil when the middleware did
// not run.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
