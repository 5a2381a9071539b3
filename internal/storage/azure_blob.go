package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/straye-as/elevator-api/internal/config"
	"go.uber.org/zap"
)

const (
	defaultAttachmentContainer = "proforma-attachments"
	uploadBlockSize            = 4 * 1024 * 1024
	uploadConcurrency          = 2
)

// AzureBlobStorage keeps proforma attachments in one blob container
type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

// NewAzureBlobStorage connects with the connection string when one is
// configured, otherwise with the ambient Azure identity against
// CloudAccountURL. The container is created on first use.
func NewAzureBlobStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*AzureBlobStorage, error) {
	container := cfg.CloudContainer
	if container == "" {
		container = defaultAttachmentContainer
	}

	var (
		client *azblob.Client
		err    error
	)
	switch {
	case cfg.CloudConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(cfg.CloudConnectionString, nil)
	case cfg.CloudAccountURL != "":
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create azure credential: %w", credErr)
		}
		client, err = azblob.NewClient(cfg.CloudAccountURL, cred, nil)
	default:
		return nil, fmt.Errorf("azure storage needs a connection string or an account url")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	if _, err := client.CreateContainer(ctx, container, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %s: %w", container, err)
	}

	logger.Info("attachment storage ready", zap.String("backend", "azure"), zap.String("container", container))
	return &AzureBlobStorage{client: client, container: container, logger: logger}, nil
}

// Upload streams the attachment into the container under a generated name.
// The original filename is kept as blob metadata.
func (s *AzureBlobStorage) Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error) {
	name := objectName(filename, time.Now())
	counted := &countingReader{r: data}
	uploadedAt := time.Now().UTC().Format(time.RFC3339)

	_, err := s.client.UploadStream(ctx, s.container, name, counted, &azblob.UploadStreamOptions{
		BlockSize:   uploadBlockSize,
		Concurrency: uploadConcurrency,
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
		Metadata: map[string]*string{
			"originalfilename": &filename,
			"uploadedat":       &uploadedAt,
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload attachment %s: %w", filename, err)
	}

	s.logger.Debug("attachment uploaded",
		zap.String("blob", name),
		zap.Int64("size", counted.n),
	)
	return name, counted.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (s *AzureBlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, storagePath, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, storagePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	return resp.Body, nil
}

// Delete treats a missing blob as already deleted
func (s *AzureBlobStorage) Delete(ctx context.Context, storagePath string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, storagePath, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
