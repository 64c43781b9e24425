package objectstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/desertwitch/treesift/internal/backend"
	"github.com/desertwitch/treesift/internal/filter"
	"github.com/desertwitch/treesift/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoSuchKey = errors.New("NoSuchKey")

// fakeS3 is an in-memory bucket answering delimiter listings one key per
// page, so pagination is exercised.
type fakeS3 struct {
	objects map[string]int64
	mtime   time.Time
	listErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects: map[string]int64{
			"a.txt":         1,
			"logs/":         0,
			"logs/x.log":    2048,
			"logs/y.log":    4096,
			"logs/old/z.gz": 1,
		},
		mtime: time.Date(2024, 7, 8, 9, 10, 11, 0, time.UTC),
	}
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	prefix := aws.ToString(in.Prefix)
	delim := aws.ToString(in.Delimiter)

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var items []string
	seen := map[string]bool{}

	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if delim != "" {
			if i := strings.Index(rest, delim); i >= 0 {
				cp := prefix + rest[:i+1]
				if !seen[cp] {
					seen[cp] = true
					items = append(items, "P:"+cp)
				}

				continue
			}
		}
		items = append(items, "K:"+k)
	}

	start := 0
	if in.ContinuationToken != nil {
		for i, it := range items {
			if it == aws.ToString(in.ContinuationToken) {
				start = i
			}
		}
	}

	out := &s3.ListObjectsV2Output{}
	if start < len(items) {
		it := items[start]
		if strings.HasPrefix(it, "P:") {
			out.CommonPrefixes = []types.CommonPrefix{{Prefix: aws.String(it[2:])}}
		} else {
			out.Contents = []types.Object{{Key: aws.String(it[2:])}}
		}
		out.KeyCount = aws.Int32(1)
	} else {
		out.KeyCount = aws.Int32(0)
	}

	if start+1 < len(items) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(items[start+1])
	}

	return out, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	size, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errNoSuchKey
	}

	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(size),
		LastModified:  aws.Time(f.mtime),
	}, nil
}

// TestList verifies prefixes and objects become directory entries.
func TestList(t *testing.T) {
	t.Parallel()

	h := NewHandler(newFakeS3(), "bucket")
	ctx := context.Background()

	names, err := h.List(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "logs"}, names)

	names, err = h.List(ctx, "/logs")
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "x.log", "y.log"}, names)

	names, err = h.List(ctx, "logs/old/")
	require.NoError(t, err)
	assert.Equal(t, []string{"z.gz"}, names)
}

// TestList_ObjectShadowedByPrefix verifies an object sharing its name with a
// common prefix is listed once and searched as a directory.
func TestList_ObjectShadowedByPrefix(t *testing.T) {
	t.Parallel()

	fake := newFakeS3()
	fake.objects = map[string]int64{
		"a":       1,
		"a/b.txt": 2,
		"c.txt":   3,
	}
	h := NewHandler(fake, "bucket")

	names, err := h.List(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c.txt"}, names)

	results, err := search.Search(context.Background(), h, "/", filter.Spec{filter.Type(filter.TypeAll)}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/b.txt", "/a", "/c.txt"}, results.Paths())
}

// TestList_Fail verifies listing errors are reported as unavailable.
func TestList_Fail(t *testing.T) {
	t.Parallel()

	fake := newFakeS3()
	fake.listErr = errors.New("AccessDenied")

	_, err := NewHandler(fake, "bucket").List(context.Background(), "/")
	require.ErrorIs(t, err, backend.ErrDirectoryUnavailable)
	require.ErrorIs(t, err, fake.listErr)
}

// TestIsDir verifies directory detection by key prefix.
func TestIsDir(t *testing.T) {
	t.Parallel()

	h := NewHandler(newFakeS3(), "bucket")
	ctx := context.Background()

	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"/", true},
		{"/logs", true},
		{"logs/old", true},
		{"/a.txt", false},
		{"/missing", false},
	}

	for _, tt := range tests {
		isDir, err := h.IsDir(ctx, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, isDir, "path %q", tt.path)
	}
}

// TestMetadata verifies content length and modification time.
func TestMetadata(t *testing.T) {
	t.Parallel()

	fake := newFakeS3()
	h := NewHandler(fake, "bucket")

	meta, err := h.Metadata(context.Background(), "/logs/y.log")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), meta.Size)
	assert.Equal(t, fake.mtime.Unix(), meta.ModifiedAt)

	_, err = h.Metadata(context.Background(), "/nope")
	require.ErrorIs(t, err, errNoSuchKey)
}

func TestKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", objectKey("/"))
	assert.Equal(t, "a/b", objectKey("/a/b/"))
	assert.Equal(t, "a/b/", dirPrefix("a//b"))
	assert.Equal(t, "", dirPrefix(""))
	assert.Equal(t, "/logs/x.log", NewHandler(nil, "b").Join("/logs", "x.log"))
}

func TestNew_NoBucket(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{})
	require.ErrorIs(t, err, ErrNoBucket)
}
