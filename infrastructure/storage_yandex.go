package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"jobboard/config"
	"jobboard/domain"
)

const yandexProvider = "yandex-disk"

// YandexDiskStore uploads resumes to Yandex Disk and publishes them so the
// stored URL is stable.
type YandexDiskStore struct {
	token   string
	apiBase string
	folder  string
	client  *http.Client
}

func NewYandexDiskStore(cfg config.StorageConfig) *YandexDiskStore {
	return &YandexDiskStore{
		token:   cfg.YandexToken,
		apiBase: strings.TrimRight(cfg.YandexAPIBase, "/"),
		folder:  strings.Trim(cfg.Folder, "/"),
		client:  newHTTPClient(0),
	}
}

type yandexLink struct {
	Href   string `json:"href"`
	Method string `json:"method"`
}

func (s *YandexDiskStore) Store(ctx context.Context, localPath string, opts domain.StoreOptions) (domain.StoredObject, error) {
	folder := strings.Trim(opts.Folder, "/")
	if folder == "" {
		folder = s.folder
	}
	diskPath := "disk:/" + path.Join(folder, objectName(opts.ContentType))

	if err := s.ensureFolder(ctx, folder); err != nil {
		return domain.StoredObject{}, s.fail(err)
	}

	var link yandexLink
	q := url.Values{"path": {diskPath}, "overwrite": {"true"}}
	if err := s.call(ctx, http.MethodGet, "/resources/upload", q, &link, http.StatusOK); err != nil {
		return domain.StoredObject{}, s.fail(fmt.Errorf("request upload link: %w", err))
	}

	f, err := os.Open(localPath)
	if err != nil {
		return domain.StoredObject{}, s.fail(err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, link.Href, f)
	if err != nil {
		return domain.StoredObject{}, s.fail(err)
	}
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.StoredObject{}, s.fail(fmt.Errorf("put file: %w", err))
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return domain.StoredObject{}, s.fail(fmt.Errorf("put file: unexpected status %s", resp.Status))
	}

	q = url.Values{"path": {diskPath}}
	if err := s.call(ctx, http.MethodPut, "/resources/publish", q, nil, http.StatusOK); err != nil {
		return domain.StoredObject{}, s.fail(fmt.Errorf("publish: %w", err))
	}

	var meta struct {
		PublicURL string `json:"public_url"`
	}
	q = url.Values{"path": {diskPath}, "fields": {"public_url"}}
	if err := s.call(ctx, http.MethodGet, "/resources", q, &meta, http.StatusOK); err != nil {
		return domain.StoredObject{}, s.fail(fmt.Errorf("read public url: %w", err))
	}
	if meta.PublicURL == "" {
		return domain.StoredObject{}, s.fail(fmt.Errorf("no public url returned for %s", diskPath))
	}

	return domain.StoredObject{URL: meta.PublicURL, ProviderID: diskPath}, nil
}

// Delete removes the file permanently; a missing file counts as deleted.
func (s *YandexDiskStore) Delete(ctx context.Context, providerID string) error {
	q := url.Values{"path": {providerID}, "permanently": {"true"}}
	err := s.call(ctx, http.MethodDelete, "/resources", q, nil,
		http.StatusNoContent, http.StatusAccepted, http.StatusNotFound)
	if err != nil {
		return fmt.Errorf("delete %s: %w", providerID, err)
	}
	return nil
}

// ensureFolder creates folder and every missing parent, outermost first. The
// API answers 409 both for an existing folder and for a missing parent, so a
// 409 only means "exists" once the parent is known to be there.
func (s *YandexDiskStore) ensureFolder(ctx context.Context, folder string) error {
	dir := "disk:"
	for _, seg := range strings.Split(folder, "/") {
		if seg == "" {
			continue
		}
		dir += "/" + seg
		q := url.Values{"path": {dir}}
		if err := s.call(ctx, http.MethodPut, "/resources", q, nil, http.StatusCreated, http.StatusConflict); err != nil {
			return fmt.Errorf("create folder %s: %w", dir, err)
		}
	}
	return nil
}

func (s *YandexDiskStore) call(ctx context.Context, method, endpoint string, q url.Values, out any, okStatus ...int) error {
	req, err := http.NewRequestWithContext(ctx, method, s.apiBase+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "OAuth "+s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	ok := false
	for _, code := range okStatus {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

func (s *YandexDiskStore) fail(err error) error {
	return &domain.UploadError{Provider: yandexProvider, Err: err}
}
