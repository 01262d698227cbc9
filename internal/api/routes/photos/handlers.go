// Package photos contains the handler serving locally stored photos.
package photos

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apiError "github.com/doggiechef/backend/internal/api/error"
	"github.com/doggiechef/backend/internal/api/requestid"
	"github.com/doggiechef/backend/internal/env"
)

// ServePhoto streams a photo from the local upload directory. Filenames
// are resolved against the upload directory and may not escape it.
func ServePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	filename := chi.URLParam(r, "filename")
	path, err := env.Files.Resolve(filename)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to resolve photo path",
			slog.String("filename", filename), slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	exists, err := env.Files.Exists(filename)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to stat photo", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !exists {
		_ = apiError.EncodeError(w, apiError.PhotoNotFound, "Photo not found", requestID)
		return
	}

	http.ServeFile(w, r, path)
}
