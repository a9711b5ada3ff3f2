package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"

	"jobboard/config"
	"jobboard/domain"
)

const gcsProvider = "gcs"

// GCSStore keeps resumes in a Google Cloud Storage bucket.
type GCSStore struct {
	svc        *storage.Service
	bucket     string
	folder     string
	publicRead bool
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig, opts ...option.ClientOption) (*GCSStore, error) {
	if cfg.GCSCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentials))
	}
	opts = append(opts, option.WithScopes(storage.DevstorageReadWriteScope))

	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &GCSStore{
		svc:        svc,
		bucket:     cfg.GCSBucket,
		folder:     cfg.Folder,
		publicRead: cfg.GCSPublicRead,
	}, nil
}

func (s *GCSStore) Store(ctx context.Context, localPath string, opts domain.StoreOptions) (domain.StoredObject, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return domain.StoredObject{}, &domain.UploadError{Provider: gcsProvider, Err: err}
	}
	defer f.Close()

	folder := opts.Folder
	if folder == "" {
		folder = s.folder
	}
	name := path.Join(folder, objectName(opts.ContentType))

	obj := &storage.Object{
		Name:        name,
		ContentType: opts.ContentType,
		Metadata:    map[string]string{"original_name": opts.FileName},
	}
	call := s.svc.Objects.Insert(s.bucket, obj).
		Media(f, googleapi.ContentType(opts.ContentType)).
		Context(ctx)
	if s.publicRead {
		call = call.PredefinedAcl("publicRead")
	}
	stored, err := call.Do()
	if err != nil {
		return domain.StoredObject{}, &domain.UploadError{Provider: gcsProvider, Err: err}
	}

	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + s.bucket + "/" + stored.Name}
	return domain.StoredObject{URL: u.String(), ProviderID: stored.Name}, nil
}

// Delete treats an already missing object as deleted.
func (s *GCSStore) Delete(ctx context.Context, providerID string) error {
	err := s.svc.Objects.Delete(s.bucket, providerID).Context(ctx).Do()
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete gs://%s/%s: %w", s.bucket, providerID, err)
	}
	return nil
}

// objectName is a random stem with the extension of the detected content
// type. The client's file name is never trusted for it.
func objectName(contentType string) string {
	if mt := mimetype.Lookup(contentType); mt != nil {
		return uuid.NewString() + mt.Extension()
	}
	return uuid.NewString()
}
