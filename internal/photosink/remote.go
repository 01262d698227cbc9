package photosink

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	mHttp "github.com/doggiechef/backend/internal/http"
)

const magicNumberSeek = 512

// Remote stores photos in a bucket on an S3-compatible hosted-image
// service and returns the public object URL.
type Remote struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

var _ Sink = (*Remote)(nil)

type RemoteConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
}

func NewRemote(conf RemoteConfig, httpClient *mHttp.HTTP, log *slog.Logger) (*Remote, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.Secure,
	}
	if httpClient != nil {
		opts.Transport = httpClient.Transport()
	}

	client, err := minio.New(conf.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("creating image host client: %w", err)
	}

	return &Remote{
		client: client,
		bucket: conf.Bucket,
		log:    log,
	}, nil
}

// EnsureBucket creates the photo bucket if it does not exist. Safe to call
// on every startup.
func (r *Remote) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", r.bucket, err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %q: %w", r.bucket, err)
	}
	return nil
}

func (r *Remote) Store(ctx context.Context, originalFilename string, data []byte) (string, error) {
	if err := CheckFilename(originalFilename); err != nil {
		return "", err
	}

	name := objectName(originalFilename)
	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	_, err := r.client.PutObject(ctx, r.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	r.log.DebugContext(ctx, "uploaded photo", slog.String("bucket", r.bucket), slog.String("object", name))

	return r.client.EndpointURL().String() + "/" + r.bucket + "/" + name, nil
}

// Delete removes the object backing a photo URL. URLs that do not point at
// this sink's endpoint and bucket are ignored.
func (r *Remote) Delete(ctx context.Context, urlOrPath string) error {
	prefix := r.client.EndpointURL().String() + "/" + r.bucket + "/"
	name, ok := strings.CutPrefix(urlOrPath, prefix)
	if !ok || name == "" {
		return nil
	}
	if err := r.client.RemoveObject(ctx, r.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing photo %q: %w", name, err)
	}
	return nil
}
