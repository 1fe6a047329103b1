package pkglog

import "context"

type correlationIDContextKey struct{}

const invalidCorrelationID = "[invalid_chain_id]"

// GetCorrelationID returns the correlation ID stored in the context, or a
// fixed marker when the request never passed through the correlation middleware.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(correlationIDContextKey{}).(string)
	if !ok {
		return invalidCorrelationID
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, cid)
}

// DetachedContext returns a background context that keeps the correlation ID
// of parent. Work that outlives the request (async releases, consumers) uses
// it so its logs still line up with the request that triggered it.
func DetachedContext(parent context.Context) context.Context {
	cid := GetCorrelationID(parent)
	if cid == invalidCorrelationID {
		return context.Background()
	}
	return SetCorrelationID(context.Background(), cid)
}
