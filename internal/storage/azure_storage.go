package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage downloads raw blobs from Azure
type BlobStorage interface {
	Download(ctx context.Context, containerName, blobName string) ([]byte, error)
	Source(containerName, blobName string) ImageSource
}

type azureStorage struct {
	client *azblob.Client
}

// NewAzureStorage authenticates with a shared key against the account's blob endpoint
func NewAzureStorage(accountName string, accountKey string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client}, nil
}

func (s *azureStorage) Download(ctx context.Context, containerName, blobName string) ([]byte, error) {
	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	return io.ReadAll(retryReader)
}

func (s *azureStorage) Source(containerName, blobName string) ImageSource {
	return NewBlobSource(s, containerName, blobName)
}

// NewBlobSource reads blobName from containerName through store
func NewBlobSource(store BlobStorage, containerName, blobName string) ImageSource {
	return &blobSource{storage: store, container: containerName, blob: blobName}
}

type blobSource struct {
	storage   BlobStorage
	container string
	blob      string
}

func (s *blobSource) Label() string {
	return path.Base(s.blob)
}

func (s *blobSource) Load(ctx context.Context) (*ImageData, error) {
	data, err := s.storage.Download(ctx, s.container, s.blob)
	if err != nil {
		return nil, unreadable("blob download", err)
	}
	return &ImageData{Bytes: data, Label: s.Label(), SizeBytes: int64(len(data))}, nil
}
