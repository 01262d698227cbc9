package photosink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doggiechef/backend/internal/fileserver"
)

const DefaultURLPrefix = "/photos"

// Local stores photos on the local disk through a fileserver and serves
// them back under urlPrefix.
type Local struct {
	fs        *fileserver.FileServer
	urlPrefix string
	log       *slog.Logger
}

var _ Sink = (*Local)(nil)

func NewLocal(fs *fileserver.FileServer, urlPrefix string, log *slog.Logger) *Local {
	return &Local{
		fs:        fs,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		log:       log,
	}
}

func (l *Local) Store(ctx context.Context, originalFilename string, data []byte) (string, error) {
	if err := CheckFilename(originalFilename); err != nil {
		return "", err
	}

	name := objectName(originalFilename)
	location, _, err := l.fs.Write(name, data)
	if err != nil {
		return "", fmt.Errorf("writing photo: %w", err)
	}
	l.log.DebugContext(ctx, "stored photo locally", slog.String("location", location))

	return l.urlPrefix + "/" + name, nil
}

// Delete removes the file backing a photo path. Paths outside this sink's
// URL prefix are ignored, so records pointing at a remote host survive a
// local delete pass untouched.
func (l *Local) Delete(ctx context.Context, urlOrPath string) error {
	name, ok := strings.CutPrefix(urlOrPath, l.urlPrefix+"/")
	if !ok || name == "" {
		return nil
	}
	if err := l.fs.Delete(name); err != nil {
		return fmt.Errorf("deleting photo %q: %w", name, err)
	}
	return nil
}
