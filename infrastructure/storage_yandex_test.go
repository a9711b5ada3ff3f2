package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/config"
	"jobboard/domain"
)

// fakeDisk mimics the Disk REST API, including 409 for a missing parent.
type fakeDisk struct {
	mu        sync.Mutex
	files     map[string][]byte
	folders   map[string]bool
	published map[string]bool
	srv       *httptest.Server
}

func (d *fakeDisk) parentExists(p string) bool {
	parent := path.Dir(p)
	return parent == "disk:" || d.folders[parent]
}

func conflict(w http.ResponseWriter, code string) {
	w.WriteHeader(http.StatusConflict)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}

func newFakeDisk(t *testing.T) *fakeDisk {
	d := &fakeDisk{files: map[string][]byte{}, folders: map[string]bool{}, published: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "OAuth token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		p := r.URL.Query().Get("path")
		d.mu.Lock()
		ok := d.parentExists(p)
		d.mu.Unlock()
		if !ok {
			conflict(w, "DiskPathDoesntExistsError")
			return
		}
		json.NewEncoder(w).Encode(yandexLink{Href: d.srv.URL + "/put?path=" + url.QueryEscape(p), Method: "PUT"})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		d.mu.Lock()
		d.files[r.URL.Query().Get("path")] = b
		d.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/resources/publish", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.published[r.URL.Query().Get("path")] = true
		d.mu.Unlock()
		w.Write([]byte(`{"href":"x"}`))
	})
	mux.HandleFunc("/resources", func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("path")
		d.mu.Lock()
		defer d.mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			switch {
			case !d.parentExists(p):
				conflict(w, "DiskPathDoesntExistsError")
			case d.folders[p]:
				conflict(w, "DiskPathPointsToExistentDirectoryError")
			default:
				d.folders[p] = true
				w.WriteHeader(http.StatusCreated)
			}
		case http.MethodGet:
			if !d.published[p] {
				w.Write([]byte(`{}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"public_url": "https://yadi.sk/d/" + filepath.Base(p)})
		case http.MethodDelete:
			if _, ok := d.files[p]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(d.files, p)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	d.srv = httptest.NewServer(mux)
	t.Cleanup(d.srv.Close)
	return d
}

func writeTemp(t *testing.T, name, body string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestYandexDiskStore_StoreAndDelete(t *testing.T) {
	disk := newFakeDisk(t)
	store := NewYandexDiskStore(config.StorageConfig{
		YandexToken:   "token-1",
		YandexAPIBase: disk.srv.URL,
		Folder:        "/resumes/",
	})
	local := writeTemp(t, "cv.txt", "Jane Doe, Go developer")

	obj, err := store.Store(context.Background(), local, domain.StoreOptions{FileName: "cv.txt", ContentType: domain.MIMEPlainText})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.ProviderID, "disk:/resumes/"))
	assert.True(t, strings.HasSuffix(obj.ProviderID, ".txt"))
	assert.Equal(t, "https://yadi.sk/d/"+filepath.Base(obj.ProviderID), obj.URL)
	assert.Equal(t, "Jane Doe, Go developer", string(disk.files[obj.ProviderID]))

	require.NoError(t, store.Delete(context.Background(), obj.ProviderID))
	assert.Empty(t, disk.files)
	// already gone
	require.NoError(t, store.Delete(context.Background(), obj.ProviderID))
}

func TestYandexDiskStore_UploadErrorKind(t *testing.T) {
	disk := newFakeDisk(t)
	store := NewYandexDiskStore(config.StorageConfig{
		YandexToken:   "wrong",
		YandexAPIBase: disk.srv.URL,
		Folder:        "resumes",
	})
	local := writeTemp(t, "cv.txt", "text")

	_, err := store.Store(context.Background(), local, domain.StoreOptions{FileName: "cv.txt"})
	require.Error(t, err)

	var upErr *domain.UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "yandex-disk", upErr.Provider)
	assert.Empty(t, disk.files)
}

func TestYandexDiskStore_CreatesNestedFolders(t *testing.T) {
	disk := newFakeDisk(t)
	store := NewYandexDiskStore(config.StorageConfig{
		YandexToken:   "token-1",
		YandexAPIBase: disk.srv.URL,
		Folder:        "resumes",
	})
	ctx := context.Background()

	obj, err := store.Store(ctx, writeTemp(t, "cv.pdf", "%PDF-1.4"), domain.StoreOptions{
		Folder:      "resumes/job-42",
		FileName:    "cv.exe",
		ContentType: domain.MIMEPDF,
	})
	require.NoError(t, err)

	assert.True(t, disk.folders["disk:/resumes"])
	assert.True(t, disk.folders["disk:/resumes/job-42"])
	assert.Equal(t, "disk:/resumes/job-42", path.Dir(obj.ProviderID))
	assert.Equal(t, ".pdf", path.Ext(obj.ProviderID))

	// Both folders exist now; a second upload into them still succeeds.
	_, err = store.Store(ctx, writeTemp(t, "cv2.pdf", "%PDF-1.4"), domain.StoreOptions{
		Folder:      "resumes/job-42",
		ContentType: domain.MIMEPDF,
	})
	require.NoError(t, err)
	assert.Len(t, disk.files, 2)
}
