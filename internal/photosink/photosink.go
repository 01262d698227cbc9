// Package photosink stores recipe photo uploads and hands back a URL or
// path a client can fetch them from. Two backends exist: the local disk
// and an S3-compatible hosted-image service. A deployment uses exactly
// one, chosen at startup.
package photosink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/doggiechef/backend/internal/file"
)

// ErrUnsupportedExtension marks uploads whose filename extension is not in
// the allowed set. Callers processing a batch skip these instead of
// failing the request.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".heic": true,
	".webp": true,
}

// Sink persists raw photo bytes and returns a retrievable URL or path.
type Sink interface {
	// Store persists data under a collision-resistant name derived from
	// originalFilename. It returns ErrUnsupportedExtension when the
	// filename's extension is not an allowed image type.
	Store(ctx context.Context, originalFilename string, data []byte) (string, error)

	// Delete removes a previously stored photo. It is best-effort: a
	// missing file and a URL the sink does not own are not errors.
	Delete(ctx context.Context, urlOrPath string) error
}

// CheckFilename validates the extension of a client-supplied filename.
func CheckFilename(name string) error {
	suffix, idx := file.ExtractSuffix(name)
	if idx == -1 || !allowedExtensions[strings.ToLower(suffix)] {
		return fmt.Errorf("filename %q: %w", name, ErrUnsupportedExtension)
	}
	return nil
}

// objectName builds a unique storage name: a random identifier prefixed to
// the sanitized original filename so concurrent uploads never collide.
func objectName(originalFilename string) string {
	return uuid.NewString() + "_" + file.Sanitize(originalFilename)
}
