package cmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServeRouter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("home"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "index.html"), []byte("posts"), 0o644))

	srv := httptest.NewServer(newServeRouter(dir))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
	}{
		{path: "/", status: http.StatusOK},
		{path: "/posts/", status: http.StatusOK},
		{path: "/empty/", status: http.StatusNotFound},
		{path: "/missing.html", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer res.Body.Close()

			require.Equal(t, tt.status, res.StatusCode)
			require.Equal(t, "no-cache, no-store, must-revalidate", res.Header.Get("Cache-Control"))
		})
	}
}

func TestRebuilderDebounces(t *testing.T) {
	var calls atomic.Int32
	rb := &rebuilder{
		build: func() error {
			calls.Add(1)
			return nil
		},
		log: discard(),
	}

	for i := 0; i < 5; i++ {
		rb.trigger(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestRebuilderSurvivesFailure(t *testing.T) {
	var calls atomic.Int32
	rb := &rebuilder{
		build: func() error {
			calls.Add(1)
			return errors.New("content fetch: query: boom")
		},
		log: discard(),
	}

	rb.rebuild()
	rb.rebuild()
	require.Equal(t, int32(2), calls.Load())
}
