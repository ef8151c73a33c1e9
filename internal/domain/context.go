package domain

import "context"

type sessionKey struct{}

// ContextWithSessionID tags ctx with the chat session id, so spans, tool
// events and logs downstream can be correlated.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionIDFromContext returns the chat session id, or "" outside a session.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
