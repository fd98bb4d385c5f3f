package http

import (
	"context"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/core"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/user"
)

type ctxKey string

const (
	ctxKeyNamespace ctxKey = "namespace"
	ctxKeyRoute     ctxKey = "route"
	ctxKeyUser      ctxKey = "user"
	ctxKeyVersion   ctxKey = "version"
)

func namespaceFromContext(ctx context.Context) string {
	return ctx.Value(ctxKeyNamespace).(string)
}

func namespaceInContext(ctx context.Context, ns string) context.Context {
	return context.WithValue(ctx, ctxKeyNamespace, ns)
}

// originFromContext derives the request origin, anonymous when no user was
// attached.
func originFromContext(ctx context.Context) core.Origin {
	if u, ok := ctx.Value(ctxKeyUser).(*user.User); ok {
		return core.Origin{UserID: u.ID}
	}

	return core.Origin{}
}

func routeFromContext(ctx context.Context) string {
	return ctx.Value(ctxKeyRoute).(string)
}

func routeInContext(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, ctxKeyRoute, route)
}

func userFromContext(ctx context.Context) *user.User {
	return ctx.Value(ctxKeyUser).(*user.User)
}

func userInContext(ctx context.Context, user *user.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func versionFromContext(ctx context.Context) string {
	return ctx.Value(ctxKeyVersion).(string)
}

func versionInContext(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, ctxKeyVersion, version)
}
