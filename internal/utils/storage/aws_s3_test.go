package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	body        []byte
	contentType string
}

// fakeS3 understands just enough path-style S3 to exercise the client.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	denyPut bool
}

func writeS3Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code><Message>`+message+`</Message></Error>`)
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.URL.Path
	switch r.Method {
	case http.MethodPut:
		if f.denyPut {
			writeS3Error(w, http.StatusForbidden, "AccessDenied", "Access Denied")
			return
		}
		if _, ok := f.objects[key]; ok && r.Header.Get("If-None-Match") == "*" {
			writeS3Error(w, http.StatusPreconditionFailed, "PreconditionFailed", "At least one of the pre-conditions you specified did not hold")
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = fakeObject{body: body, contentType: r.Header.Get("Content-Type")}
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey", "The specified key does not exist.")
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		_, _ = w.Write(obj.body)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T) (AwsS3, *fakeS3, *httptest.Server) {
	t.Helper()
	fake := &fakeS3{objects: map[string]fakeObject{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewAwsS3(context.Background(), Config{
		Bucket:    "recipes",
		Region:    "eu-west-1",
		Endpoint:  srv.URL,
		AccessKey: "test-access",
		SecretKey: "test-secret",
		URLExpiry: time.Hour,
	})
	require.NoError(t, err)
	return client, fake, srv
}

func TestNewAwsS3RequiresBucket(t *testing.T) {
	_, err := NewAwsS3(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrMissingBucket)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "images/Grandma's Soup", ObjectKey(ImageFolder, "Grandma's Soup"))
}

func TestUploadFileIsCreateOnly(t *testing.T) {
	client, fake, _ := newTestS3(t)
	ctx := context.Background()

	require.NoError(t, client.UploadFile(ctx, "images/Cake", []byte("first"), "image/png"))

	err := client.UploadFile(ctx, "images/Cake", []byte("second"), "image/png")
	assert.ErrorIs(t, err, ErrObjectExists)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []byte("first"), fake.objects["/recipes/images/Cake"].body)
}

func TestUploadFileOtherErrorsPropagate(t *testing.T) {
	client, fake, _ := newTestS3(t)
	fake.denyPut = true

	err := client.UploadFile(context.Background(), "images/Cake", []byte("x"), "image/png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectExists)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestGetAndDeleteFile(t *testing.T) {
	client, _, _ := newTestS3(t)
	ctx := context.Background()

	require.NoError(t, client.UploadFile(ctx, "images/Soup", []byte("jpeg-bytes"), "image/jpeg"))

	body, contentType, err := client.GetFile(ctx, "images/Soup")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), body)
	assert.Equal(t, "image/jpeg", contentType)

	require.NoError(t, client.DeleteFile(ctx, "images/Soup"))

	_, _, err = client.GetFile(ctx, "images/Soup")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestGetSignedLink(t *testing.T) {
	client, _, srv := newTestS3(t)

	link, err := client.GetSignedLink(context.Background(), "images/Cake")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link, srv.URL+"/recipes/images/Cake?"), link)
	assert.Contains(t, link, "X-Amz-Expires=3600")
	assert.Contains(t, link, "X-Amz-Signature=")
}

func TestSignedLinkExpiryIsClamped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client, err := NewAwsS3(context.Background(), Config{
		Bucket:    "recipes",
		Endpoint:  srv.URL,
		AccessKey: "a",
		SecretKey: "b",
		URLExpiry: 10 * 365 * 24 * time.Hour,
	})
	require.NoError(t, err)

	link, err := client.GetSignedLink(context.Background(), "images/Cake")
	require.NoError(t, err)
	assert.Contains(t, link, "X-Amz-Expires=604800")
}
