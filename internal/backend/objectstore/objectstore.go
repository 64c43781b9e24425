// Package objectstore implements a [backend.Backend] over an S3-compatible
// bucket. Keys are split on "/" into a directory tree: common prefixes are
// directories and objects are files.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/desertwitch/treesift/internal/backend"
)

const delimiter = "/"

// ErrNoBucket is an error that occurs when no bucket name was configured.
var ErrNoBucket = errors.New("no bucket configured")

type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Config holds the settings of an object store [Handler].
type Config struct {
	Bucket   string
	Region   string
	Endpoint string

	// AccessKey and SecretKey select static credentials; without them the
	// default AWS credential chain is used.
	AccessKey    string
	SecretKey    string
	SessionToken string
}

// Handler is the object store [backend.Backend].
type Handler struct {
	client s3API
	bucket string
}

var _ backend.Backend = (*Handler)(nil)

// New returns a pointer to a new [Handler] for the configured bucket. A
// custom endpoint (e.g. MinIO, LocalStack) implies path-style addressing.
func New(ctx context.Context, cfg Config) (*Handler, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			cfg.SessionToken,
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("(objectstore) failed to load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return NewHandler(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket), nil
}

// NewHandler returns a pointer to a new [Handler] using an existing client.
func NewHandler(client s3API, bucket string) *Handler {
	return &Handler{
		client: client,
		bucket: bucket,
	}
}

// List returns the names of the directories and objects directly below dir,
// in key order. An object whose key is also a common prefix (object "a" next
// to "a/b") is listed once, as the directory.
func (h *Handler) List(ctx context.Context, dir string) ([]string, error) {
	prefix := dirPrefix(dir)

	paginator := s3.NewListObjectsV2Paginator(h.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(h.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(delimiter),
	})

	var names []string
	seen := make(map[string]struct{})

	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("(objectstore-list) %w: %s: %w", backend.ErrDirectoryUnavailable, dir, err)
		}

		for _, p := range page.CommonPrefixes {
			add(strings.TrimSuffix(strings.TrimPrefix(aws.ToString(p.Prefix), prefix), delimiter))
		}

		// A key equal to the prefix is a directory marker object.
		for _, o := range page.Contents {
			add(strings.TrimPrefix(aws.ToString(o.Key), prefix))
		}
	}

	sort.Strings(names)

	return names, nil
}

// IsDir reports whether any key exists below p. The bucket root is always a
// directory.
func (h *Handler) IsDir(ctx context.Context, p string) (bool, error) {
	prefix := dirPrefix(p)
	if prefix == "" {
		return true, nil
	}

	out, err := h.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(h.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("(objectstore-isdir) failed to list: %w", err)
	}

	return aws.ToInt32(out.KeyCount) > 0 || len(out.Contents) > 0 || len(out.CommonPrefixes) > 0, nil
}

// Metadata returns content length and last modification of an object.
func (h *Handler) Metadata(ctx context.Context, p string) (backend.Metadata, error) {
	out, err := h.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(objectKey(p)),
	})
	if err != nil {
		return backend.Metadata{}, fmt.Errorf("(objectstore-metadata) failed to head: %w", err)
	}

	return backend.Metadata{
		Size:       aws.ToInt64(out.ContentLength),
		ModifiedAt: aws.ToTime(out.LastModified).Unix(),
	}, nil
}

// Join joins dir and name with "/".
func (h *Handler) Join(dir, name string) string {
	return path.Join(dir, name)
}

// Close is a no-op, the client holds no session.
func (h *Handler) Close() error {
	return nil
}

func objectKey(p string) string {
	return strings.Trim(path.Clean("/"+p), delimiter)
}

func dirPrefix(p string) string {
	if key := objectKey(p); key != "" {
		return key + delimiter
	}

	return ""
}
