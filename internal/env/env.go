// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/doggiechef/backend/internal/config"
	"github.com/doggiechef/backend/internal/fileserver"
	"github.com/doggiechef/backend/internal/log"
	"github.com/doggiechef/backend/internal/recipe"
)

type Env struct {
	Logger  *slog.Logger
	Recipes *recipe.Service
	Files   *fileserver.FileServer
	Config  config.Config
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects the environment into a context.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx extracts the environment from a context. A context without
// one yields a null environment rather than a nil pointer.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok && e != nil {
		return e
	}
	return Null()
}

// Null returns an environment safe to call logging on but backed by
// nothing.
func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
	}
}
