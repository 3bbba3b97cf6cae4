package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"codeberg.org/snonux/babycards/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/small.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tiny image"))
	})
	mux.HandleFunc("/big.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBytes(t *testing.T) {
	srv := newServer(t)
	f := New(&Options{MaxSizeBytes: 50})

	data, err := f.Bytes(context.Background(), srv.URL+"/small.jpg")
	require.NoError(t, err)
	assert.Equal(t, "tiny image", string(data))

	_, err = f.Bytes(context.Background(), srv.URL+"/big.jpg")
	assert.True(t, errors.Is(err, ErrTooLarge), "got %v", err)

	data, err = f.WithMaxSize(0).Bytes(context.Background(), srv.URL+"/big.jpg")
	require.NoError(t, err)
	assert.Len(t, data, 100)
}

func TestStatusError(t *testing.T) {
	srv := newServer(t)
	_, err := New(nil).Bytes(context.Background(), srv.URL+"/missing.jpg")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestToFile(t *testing.T) {
	srv := newServer(t)
	dir := testutil.CreateTestDirectory(t)
	f := New(&Options{MaxSizeBytes: 50})

	path := filepath.Join(dir, "images", "dog", "dog_000.jpg")
	n, err := f.ToFile(context.Background(), srv.URL+"/small.jpg", path)
	require.NoError(t, err)
	assert.EqualValues(t, len("tiny image"), n)
	testutil.AssertFileContent(t, path, []byte("tiny image"))
	assert.True(t, Exists(path))

	bigPath := filepath.Join(dir, "images", "big.jpg")
	_, err = f.ToFile(context.Background(), srv.URL+"/big.jpg", bigPath)
	assert.True(t, errors.Is(err, ErrTooLarge))
	testutil.AssertFileNotExists(t, bigPath)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(filepath.Join(dir, "nope")))
	assert.False(t, Exists(dir))

	path := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))
	assert.True(t, Exists(path))
}

func TestCancelledContext(t *testing.T) {
	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Bytes(ctx, srv.URL+"/small.jpg")
	assert.Error(t, err)
}

// slowServer sends its headers at once and then trickles the body out
func slowServer(t *testing.T, chunks int, pause time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		for i := 0; i < chunks; i++ {
			w.Write([]byte("chunk"))
			w.(http.Flusher).Flush()
			select {
			case <-r.Context().Done():
				return
			case <-time.After(pause):
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUncappedDownloadOutlivesTimeout(t *testing.T) {
	srv := slowServer(t, 6, 50*time.Millisecond)
	f := New(&Options{MaxSizeBytes: 1024, Timeout: 100 * time.Millisecond})
	dir := t.TempDir()

	// A capped download is bounded as a whole
	_, err := f.ToFile(context.Background(), srv.URL, filepath.Join(dir, "capped.ndjson"))
	assert.Error(t, err)
	testutil.AssertFileNotExists(t, filepath.Join(dir, "capped.ndjson"))

	path := filepath.Join(dir, "cat.ndjson")
	n, err := f.WithMaxSize(0).ToFile(context.Background(), srv.URL, path)
	require.NoError(t, err)
	assert.EqualValues(t, 6*len("chunk"), n)
	testutil.AssertFileContent(t, path, []byte(strings.Repeat("chunk", 6)))
}

func TestUncappedDownloadStopsOnCancel(t *testing.T) {
	srv := slowServer(t, 100, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	path := filepath.Join(t.TempDir(), "cat.ndjson")
	_, err := New(nil).WithMaxSize(0).ToFile(ctx, srv.URL, path)
	assert.Error(t, err)
	testutil.AssertFileNotExists(t, path)
	testutil.AssertFileNotExists(t, path+".tmp")
}

func TestHeaderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	f := New(&Options{Timeout: 50 * time.Millisecond})
	_, err := f.WithMaxSize(0).Bytes(context.Background(), srv.URL)
	assert.Error(t, err)
}

// watchingReader records whether path exists while the body is copied
type watchingReader struct {
	r       io.Reader
	path    string
	visible bool
}

func (w *watchingReader) Read(p []byte) (int, error) {
	if Exists(w.path) {
		w.visible = true
	}
	return w.r.Read(p)
}

func TestWriteFileIsAtomic(t *testing.T) {
	dir := t.TempDir()

	t.Run("path appears only when complete", func(t *testing.T) {
		path := filepath.Join(dir, "dog", "dog_000.jpg")
		src := &watchingReader{r: iotest.OneByteReader(strings.NewReader("whole image")), path: path}

		n, err := WriteFile(path, src, 0)
		require.NoError(t, err)
		assert.EqualValues(t, len("whole image"), n)
		assert.False(t, src.visible)
		testutil.AssertFileContent(t, path, []byte("whole image"))
		testutil.AssertFileNotExists(t, path+".tmp")
	})

	t.Run("broken stream leaves nothing behind", func(t *testing.T) {
		path := filepath.Join(dir, "cat", "cat_000.jpg")
		src := io.MultiReader(strings.NewReader("half an im"), iotest.ErrReader(errors.New("connection reset")))

		_, err := WriteFile(path, src, 0)
		assert.Error(t, err)
		assert.False(t, Exists(path))
		testutil.AssertFileNotExists(t, path+".tmp")
	})

	t.Run("stale temp file from a killed run", func(t *testing.T) {
		path := filepath.Join(dir, "sun", "sun_000.jpg")
		testutil.CreateTestFile(t, path+".tmp", []byte("trunc"))
		assert.False(t, Exists(path))

		_, err := WriteFile(path, strings.NewReader("fresh"), 0)
		require.NoError(t, err)
		testutil.AssertFileContent(t, path, []byte("fresh"))
		testutil.AssertFileNotExists(t, path+".tmp")
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		path := filepath.Join(dir, "old.jpg")
		testutil.CreateTestFile(t, path, []byte("old"))

		_, err := WriteFile(path, strings.NewReader("new"), 0)
		require.NoError(t, err)
		testutil.AssertFileContent(t, path, []byte("new"))
	})
}
