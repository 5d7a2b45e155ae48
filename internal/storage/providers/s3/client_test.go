package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a path-style in-memory bucket covering the calls the client makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k, len(f.objects[k]))
		}
		b.WriteString("</ListBucketResult>")
		return respond(http.StatusOK, b.String(), http.Header{"Content-Type": {"application/xml"}}), nil
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		return respond(http.StatusOK, "", http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodHead:
		if body, ok := f.objects[key]; ok {
			return respond(http.StatusOK, "", http.Header{"Content-Length": {fmt.Sprint(len(body))}}), nil
		}
		return respond(http.StatusNotFound, "", http.Header{}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, "", http.Header{}), nil
	}
	return respond(http.StatusNotImplemented, "", http.Header{}), nil
}

func respond(status int, body string, header http.Header) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader([]byte(body))), Header: header}
}

func newTestClient(t *testing.T) (*Client, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	c, err := NewClient(context.Background(), Config{
		Bucket:          "snapshots",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return c, fake
}

func TestNewClientRequiresBucket(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

func TestUploadAndList(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	require.NoError(t, c.Upload(ctx, "nightly/snapshot-a.json", strings.NewReader(`{"students":[]}`)))
	require.NoError(t, c.Upload(ctx, "nightly/snapshot-b.yaml", strings.NewReader("students: []\n")))
	require.NoError(t, c.Upload(ctx, "elsewhere/x.json", strings.NewReader("{}")))

	assert.Contains(t, string(fake.objects["nightly/snapshot-a.json"]), `{"students":[]}`)
	assert.Equal(t, "application/json", fake.types["nightly/snapshot-a.json"])
	assert.Equal(t, "application/yaml", fake.types["nightly/snapshot-b.yaml"])

	files, err := c.List(ctx, "nightly/")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "nightly/snapshot-a.json", files[0].Path)
	assert.Equal(t, "snapshot-a.json", files[0].Name)
	assert.Equal(t, 2024, files[0].ModifiedAt.Year())
}

func TestExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.Upload(ctx, "a.json", strings.NewReader("{}")))

	ok, err := c.Exists(ctx, "a.json")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "a.json"))

	ok, err = c.Exists(ctx, "a.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("a/b.json"))
	assert.Equal(t, "application/yaml", contentType("b.yml"))
	assert.Equal(t, "application/octet-stream", contentType("c"))
}
