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


// Package output writes rendered reports to a local directory or to a
// cloud storage bucket.
package output

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Gosayram/profscope/pkg/constants"
)

// Sink stores a named document and returns the location it was written to.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// NewSink returns the sink for dest. gs://, s3:// and azblob:// URIs select
// the matching cloud store; anything else is a directory on fs.
func NewSink(fs afero.Fs, dest string) (Sink, error) {
	switch {
	case strings.HasPrefix(dest, constants.GCSPrefix):
		bucket, prefix, err := ParseBucketURI(dest, constants.GCSPrefix)
		if err != nil {
			return nil, err
		}
		return &GCSSink{Bucket: bucket, Prefix: prefix}, nil
	case strings.HasPrefix(dest, constants.S3Prefix):
		bucket, prefix, err := ParseBucketURI(dest, constants.S3Prefix)
		if err != nil {
			return nil, err
		}
		return &S3Sink{Bucket: bucket, Prefix: prefix}, nil
	case strings.HasPrefix(dest, constants.AzureBlobPrefix):
		container, prefix, err := ParseBucketURI(dest, constants.AzureBlobPrefix)
		if err != nil {
			return nil, err
		}
		return &AzureSink{Container: container, Prefix: prefix}, nil
	}
	if dest == "" {
		dest = constants.DefaultOutputDir
	}
	return &LocalSink{FS: fs, Dir: dest}, nil
}

// WriteTo writes data to dest, which is either a local file path or a bucket
// URI naming the object, and returns the written location.
func WriteTo(ctx context.Context, fs afero.Fs, dest string, data []byte) (string, error) {
	dir, name := path.Split(dest)
	if name == "" {
		return "", fmt.Errorf("destination %q does not name a file", dest)
	}
	if dir == "" {
		dir = "."
	}
	sink, err := NewSink(fs, dir)
	if err != nil {
		return "", err
	}
	return sink.Write(ctx, name, data)
}

// ParseBucketURI splits scheme://bucket/some/prefix into the bucket name and
// the object prefix.
func ParseBucketURI(uri, scheme string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(uri, scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid bucket URI %q: missing bucket name", uri)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// ObjectKey joins a bucket prefix and a file name.
func ObjectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// FileName builds the timestamped report name stem_YYYYmmdd_HHMMSS.ext.
func FileName(stem, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", stem, now.Format(constants.FileTimestampLayout), ext)
}

// ContentType returns the MIME type used when uploading a file.
func ContentType(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// LocalSink writes into a directory, creating it when needed.
type LocalSink struct {
	FS  afero.Fs
	Dir string
}

// Write implements Sink.
func (s *LocalSink) Write(_ context.Context, name string, data []byte) (string, error) {
	if err := s.FS.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating output directory %s", s.Dir)
	}
	target := filepath.Join(s.Dir, name)
	if err := afero.WriteFile(s.FS, target, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", target)
	}
	return target, nil
}
