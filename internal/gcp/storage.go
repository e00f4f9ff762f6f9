package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
)

const stagingPrefix = "uploads"

// Stager writes request documents to a GCS bucket so the OCR model can read
// them by URI. Every staged object must be released through the returned cleanup.
type Stager struct {
	client     *storage.Client
	bucketName string
}

// NewStager creates a Stager for bucketName.
func NewStager(ctx context.Context, bucketName string) (*Stager, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("NewStager: bucketName cannot be empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Stager{client: client, bucketName: bucketName}, nil
}

// Stage uploads data under a fresh object name and returns its gs:// URI.
// The write is conditional on the object not existing yet.
func (s *Stager) Stage(ctx context.Context, data []byte, mimeType string) (string, func(), error) {
	objectName := path.Join(stagingPrefix, uuid.NewString()+".pdf")
	obj := s.client.Bucket(s.bucketName).Object(objectName)

	writer := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = mimeType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return "", nil, fmt.Errorf("failed to write staged object %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return "", nil, fmt.Errorf("staged object %s already exists", objectName)
		}
		return "", nil, fmt.Errorf("failed to finalize staged object %s: %w", objectName, err)
	}

	cleanup := func() {
		// The request context may already be done here.
		deleteCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := obj.Delete(deleteCtx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			slog.Warn("Failed to delete staged object.", "bucket", s.bucketName, "object", objectName, "error", err)
		}
	}
	return fmt.Sprintf("gs://%s/%s", s.bucketName, objectName), cleanup, nil
}

func (s *Stager) Close() error {
	return s.client.Close()
}
