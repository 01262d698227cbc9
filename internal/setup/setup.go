// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doggiechef/backend/internal/config"
	"github.com/doggiechef/backend/internal/database"
	"github.com/doggiechef/backend/internal/fileserver"
	mHttp "github.com/doggiechef/backend/internal/http"
	"github.com/doggiechef/backend/internal/photosink"
)

// Database opens the connection pool and makes sure the schema exists.
func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	db := conf.Database
	if db.Database == "" {
		return nil, errors.New("database is not configured")
	}
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		db.User, db.Password, db.Host, db.Port, db.Database)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	wrapped := database.NewDatabase(pool)
	if err := wrapped.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return wrapped, nil
}

// PhotoSink builds the configured photo backend. For the local backend it
// also returns the file server serving the upload directory; for the
// remote backend the file server is nil and photo URLs point at the image
// host.
func PhotoSink(ctx context.Context, conf config.Config, logger *slog.Logger) (photosink.Sink, *fileserver.FileServer, error) {
	switch conf.Photos.Backend {
	case config.BackendLocal:
		uploadDir, err := filepath.Abs(conf.Photos.UploadDir)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving upload directory: %w", err)
		}
		fs := fileserver.New(uploadDir)
		return photosink.NewLocal(fs, conf.Photos.URLPrefix, logger), fs, nil

	case config.BackendRemote:
		httpConfig := mHttp.DefaultConfig()
		httpConfig.Logger = logger
		remote, err := photosink.NewRemote(photosink.RemoteConfig{
			Endpoint:  conf.Photos.ImageHost.Endpoint,
			Bucket:    conf.Photos.ImageHost.Bucket,
			AccessKey: conf.Photos.ImageHost.AccessKey,
			SecretKey: conf.Photos.ImageHost.SecretKey,
			Secure:    conf.Photos.ImageHost.Secure,
		}, mHttp.New(httpConfig), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("creating remote photo sink: %w", err)
		}
		if err := remote.EnsureBucket(ctx); err != nil {
			return nil, nil, fmt.Errorf("ensuring photo bucket: %w", err)
		}
		return remote, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown photo backend %q", conf.Photos.Backend)
	}
}
