package storage

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	s := NewSupabase("https://proj.supabase.co", "key", "complaints")
	assert.Equal(t, "complaints/student-1/1700000000000", s.MakeObjectKey("student-1", at))
}

func TestParseDataURI(t *testing.T) {
	t.Run("valid png", func(t *testing.T) {
		mime, data, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "image/png", mime)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("missing prefix", func(t *testing.T) {
		_, _, err := ParseDataURI("image/png;base64,aGVsbG8=")
		assert.Error(t, err)
	})

	t.Run("not base64 encoded", func(t *testing.T) {
		_, _, err := ParseDataURI("data:image/png,rawbytes")
		assert.Error(t, err)
	})

	t.Run("bad payload", func(t *testing.T) {
		_, _, err := ParseDataURI("data:image/png;base64,!!!!")
		assert.Error(t, err)
	})

	t.Run("empty mime defaults", func(t *testing.T) {
		mime, _, err := ParseDataURI("data:;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", mime)
	})
}

func TestUploadDataURI(t *testing.T) {
	var gotPath, gotMime, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotMime = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabase(srv.URL, "secret", "complaints")
	res, err := s.UploadDataURI("complaints/u1/123", "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/complaints/complaints/u1/123", gotPath)
	assert.Equal(t, "image/png", gotMime)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, []byte("hello"), gotBody)
	assert.Equal(t, "complaints/u1/123", res.Path)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/complaints/complaints/u1/123", res.URL)
}

func TestUploadDataURI_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bucket not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewSupabase(srv.URL, "secret", "complaints")
	_, err := s.UploadDataURI("k", "data:image/png;base64,aGVsbG8=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket not found")
}

func TestDelete_Idempotent(t *testing.T) {
	var status int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	s := NewSupabase(srv.URL, "secret", "complaints")

	status = http.StatusOK
	assert.NoError(t, s.Delete("complaints/u1/123"))

	// Already-deleted objects are not an error.
	status = http.StatusNotFound
	assert.NoError(t, s.Delete("complaints/u1/123"))

	status = http.StatusForbidden
	assert.Error(t, s.Delete("complaints/u1/123"))
}
