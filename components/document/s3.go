package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by the S3 source.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads an object with ranged GET requests.
type S3 struct {
	ctx     context.Context
	bucket  string
	key     string
	client  S3API
	offset  int64
	size    int64
	modTime time.Time
	mu      sync.Mutex
	Content
}

var (
	_ Source  = (*S3)(nil)
	_ fs.File = (*S3)(nil)
)

type S3Option func(*S3)

func WithS3Bucket(bucket string) S3Option {
	return func(s *S3) {
		s.bucket = bucket
	}
}

func WithS3Key(key string) S3Option {
	return func(s *S3) {
		s.key = key
	}
}

func WithS3Client(clt S3API) S3Option {
	return func(s *S3) {
		s.client = clt
	}
}

// NewS3 creates a new S3 source. ctx is used for every request the source makes.
func NewS3(ctx context.Context, opts ...S3Option) (*S3, error) {
	ret := &S3{ctx: ctx}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.client == nil {
		return nil, errors.New("s3 client is required")
	}
	headObjOutput, err := ret.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(ret.bucket),
		Key:    aws.String(ret.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object metadata: %w", err)
	}
	ret.size = aws.ToInt64(headObjOutput.ContentLength)
	ret.modTime = aws.ToTime(headObjOutput.LastModified)
	ret.Content = Content{
		name: path.Base(ret.key),
		meta: map[string]string{
			"source": "s3",
			"bucket": ret.bucket,
			"key":    ret.key,
		},
	}
	return ret, nil
}

// Read implements the io.Reader interface.
func (s *S3) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.readAt(p, s.offset)
	s.offset += int64(n)
	return n, err
}

// ReadAt implements the io.ReaderAt interface.
func (s *S3) ReadAt(p []byte, off int64) (int, error) {
	return s.readAt(p, off)
}

func (s *S3) readAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off >= s.size {
		return 0, io.EOF
	}
	resp, err := s.client.GetObject(s.ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, off+int64(len(p))-1)),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer resp.Body.Close()

	n, err := io.ReadFull(resp.Body, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// Close implements the fs.File interface.
func (s *S3) Close() error {
	return nil
}

// Stat implements the fs.File interface.
func (s *S3) Stat() (fs.FileInfo, error) {
	return &fileInfo{
		name:    s.Name(),
		size:    s.size,
		modTime: s.modTime,
	}, nil
}

func (s *S3) Size() int64 {
	return s.size
}

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f *fileInfo) Name() string       { return f.name }
func (f *fileInfo) Size() int64        { return f.size }
func (f *fileInfo) Mode() fs.FileMode  { return 0o444 }
func (f *fileInfo) ModTime() time.Time { return f.modTime }
func (f *fileInfo) IsDir() bool        { return false }
func (f *fileInfo) Sys() any           { return nil }
