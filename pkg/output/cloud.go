/*
Copyright 2026 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


package output

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3manager "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/retry"
)

// uploadFunc stores data at bucket/key. Cloud sinks use it so the clients
// are only created when something is written.
type uploadFunc func(ctx context.Context, bucket, key string, data []byte) error

// errNotConfigured marks uploads that cannot succeed on a retry.
var errNotConfigured = errors.New("storage client not configured")

// uploadRetry is the retry policy of all cloud uploads.
var uploadRetry = func() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.Retryable = func(err error) bool {
		return !errors.Is(err, errNotConfigured) && !errors.Is(err, context.Canceled) &&
			!errors.Is(err, context.DeadlineExceeded)
	}
	return cfg
}()

// putObject runs upload under the retry policy.
func putObject(ctx context.Context, upload uploadFunc, uri, bucket, key string, data []byte) error {
	err := retry.Do(ctx, uploadRetry, "upload to "+uri, func(ctx context.Context) error {
		return upload(ctx, bucket, key, data)
	})
	if err != nil {
		return errors.Wrapf(err, "uploading to %s", uri)
	}
	return nil
}

// GCSSink uploads to a Google Cloud Storage bucket.
type GCSSink struct {
	Bucket string
	Prefix string

	upload uploadFunc
}

// Write implements Sink.
func (s *GCSSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	key := ObjectKey(s.Prefix, name)
	upload := s.upload
	if upload == nil {
		upload = uploadGCS
	}
	uri := constants.GCSPrefix + s.Bucket + "/" + key
	if err := putObject(ctx, upload, uri, s.Bucket, key, data); err != nil {
		return "", err
	}
	return uri, nil
}

func uploadGCS(ctx context.Context, bucket, key string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return errors.Wrap(err, "creating GCS client")
	}
	defer client.Close()

	w := client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = ContentType(key)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	logrus.Debugf("Uploaded %d bytes to GCS bucket %s", len(data), bucket)
	return nil
}

// S3Sink uploads to an S3 bucket. S3_ENDPOINT and S3_FORCE_PATH_STYLE
// select an S3-compatible endpoint.
type S3Sink struct {
	Bucket string
	Prefix string

	upload uploadFunc
}

// Write implements Sink.
func (s *S3Sink) Write(ctx context.Context, name string, data []byte) (string, error) {
	key := ObjectKey(s.Prefix, name)
	upload := s.upload
	if upload == nil {
		upload = uploadS3
	}
	uri := constants.S3Prefix + s.Bucket + "/" + key
	if err := putObject(ctx, upload, uri, s.Bucket, key, data); err != nil {
		return "", err
	}
	return uri, nil
}

func uploadS3(ctx context.Context, bucket, key string, data []byte) error {
	endpoint := os.Getenv(constants.S3EndpointEnv)
	forcePath := strings.ToLower(os.Getenv(constants.S3ForcePathStyle)) == "true"

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "loading AWS config")
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.UsePathStyle = forcePath
			options.BaseEndpoint = aws.String(endpoint)
		}
	})
	uploader := s3manager.NewUploader(client)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType(key)),
	})
	if err != nil {
		return err
	}
	logrus.Debugf("Uploaded %d bytes to S3 bucket %s", len(data), bucket)
	return nil
}

// AzureSink uploads to an Azure Blob Storage container using the connection
// string in AZURE_STORAGE_CONNECTION_STRING.
type AzureSink struct {
	Container string
	Prefix    string

	upload uploadFunc
}

// Write implements Sink.
func (s *AzureSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	key := ObjectKey(s.Prefix, name)
	upload := s.upload
	if upload == nil {
		upload = uploadAzure
	}
	uri := constants.AzureBlobPrefix + s.Container + "/" + key
	if err := putObject(ctx, upload, uri, s.Container, key, data); err != nil {
		return "", err
	}
	return uri, nil
}

func uploadAzure(ctx context.Context, container, key string, data []byte) error {
	connStr := os.Getenv(constants.AzureConnectionStringEnv)
	if connStr == "" {
		return errors.Wrapf(errNotConfigured, "%s is not set", constants.AzureConnectionStringEnv)
	}
	client, err := azblob.NewClientFromConnectionString(connStr, nil)
	if err != nil {
		return errors.Wrap(err, "creating Azure Blob client")
	}
	contentType := ContentType(key)
	_, err = client.UploadBuffer(ctx, container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return err
	}
	logrus.Debugf("Uploaded %d bytes to Azure container %s", len(data), container)
	return nil
}
