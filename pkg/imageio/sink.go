package imageio

import (
	"bufio"
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Sink writes encoded images into a blob bucket
type Sink struct {
	url    string
	bucket *blob.Bucket
}

// OpenSink opens the bucket that images are written to. location is either a
// bucket URL (file:///abs/dir, gs://bucket, mem://) or a plain local
// directory, which is created when missing.
func OpenSink(ctx context.Context, location string) (*Sink, error) {
	if !strings.Contains(location, "://") {
		dir, err := filepath.Abs(location)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving output directory %q", location)
		}
		bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
		if err != nil {
			return nil, errors.Wrapf(err, "opening output directory %q", dir)
		}
		return &Sink{url: dir, bucket: bucket}, nil
	}

	bucket, err := blob.OpenBucket(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "opening bucket %q", location)
	}
	return &Sink{url: location, bucket: bucket}, nil
}

// URL returns the location the sink was opened with
func (s *Sink) URL() string {
	return s.url
}

// Bucket exposes the underlying bucket
func (s *Sink) Bucket() *blob.Bucket {
	return s.bucket
}

// WriteImage encodes fb and stores it under key. The object is only
// committed when every byte was written.
func (s *Sink) WriteImage(ctx context.Context, key string, fb *renderer.Framebuffer, format Format) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fd, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: format.ContentType()})
	if err != nil {
		return errors.Wrapf(err, "creating %q", key)
	}
	defer func() {
		// Cancelling before Close discards a partial object.
		if err != nil {
			cancel()
		}
		if cerr := fd.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %q", key)
		}
	}()

	buf := bufio.NewWriterSize(fd, 1<<20) // use 1MB buffer
	if err := Encode(buf, fb, format); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	if err := buf.Flush(); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	return nil
}

// Close releases the bucket
func (s *Sink) Close() error {
	return s.bucket.Close()
}
