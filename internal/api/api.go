// Package api sets up and starts the API server with routing and
// middleware.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/doggiechef/backend/internal/api/middleware"
	"github.com/doggiechef/backend/internal/api/routes/photos"
	"github.com/doggiechef/backend/internal/api/routes/ping"
	"github.com/doggiechef/backend/internal/api/routes/recipes"
	"github.com/doggiechef/backend/internal/env"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func addRoutes(router *chi.Mux) {
	router.Get("/ping", ping.HandlePing)

	router.Route("/recipes", func(r chi.Router) {
		r.Get("/", recipes.ListRecipes)
		r.Post("/", recipes.CreateRecipe)
		r.Get("/{recipeID}", recipes.GetRecipe)
		r.Put("/{recipeID}", recipes.UpdateRecipe)
		r.Delete("/{recipeID}", recipes.DeleteRecipe)
	})

	router.Get("/photos/{filename}", photos.ServePhoto)
	router.Get("/filters", recipes.GetFilters)
	router.Get("/stats", recipes.GetStats)
}

// NewRouter assembles the middleware chain and routes.
func NewRouter(environment *env.Env) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(environment.Logger))
	router.Use(middleware.InjectEnv(environment))
	router.Use(middleware.AddCors)

	addRoutes(router)
	return router
}

// Start serves the API until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, environment *env.Env) error {
	server := &http.Server{
		Addr:    environment.Config.ListenAddr,
		Handler: NewRouter(environment),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	environment.Logger.Info("Listening at " + environment.Config.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	environment.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
