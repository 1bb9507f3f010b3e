package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	// Error registry for S3 file system
	s3Errors = errx.NewRegistry("S3FS")

	ErrEmptyBucketName = s3Errors.Register("EMPTY_BUCKET_NAME", errx.TypeValidation, 400, "Bucket name cannot be empty")
	ErrInvalidURI      = s3Errors.Register("INVALID_URI", errx.TypeValidation, 400, "Invalid S3 URI")
)

// API is the subset of *s3.Client the file system needs
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ API = (*s3.Client)(nil)

// S3FileSystem implements the fsx.FileSystem interface for AWS S3
type S3FileSystem struct {
	client   API
	bucket   string
	rootPath string
}

var _ fsx.FileSystem = (*S3FileSystem)(nil)

// NewS3FileSystem creates a new S3FileSystem
func NewS3FileSystem(client API, bucket string, rootPath string) *S3FileSystem {
	// Ensure rootPath doesn't start with slash but ends with one if not empty
	rootPath = strings.Trim(rootPath, "/")
	if rootPath != "" {
		rootPath += "/"
	}

	return &S3FileSystem{
		client:   client,
		bucket:   bucket,
		rootPath: rootPath,
	}
}

// ParseURI splits s3://bucket/prefix into bucket and prefix
func ParseURI(uri string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", s3Errors.New(ErrInvalidURI).WithDetail("uri", uri)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", s3Errors.New(ErrEmptyBucketName).WithDetail("uri", uri)
	}
	return bucket, prefix, nil
}

// s3Key converts a file system path to an S3 key
func (fs *S3FileSystem) s3Key(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	return fs.rootPath + p
}

// ReadFile reads an entire file from S3
func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if fs.bucket == "" {
		return nil, s3Errors.New(ErrEmptyBucketName)
	}

	key := fs.s3Key(p)

	output, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fsx.ErrorRegistry.NewWithCause(fsx.ErrNotFound, err).
				WithDetail("path", p).
				WithDetail("key", key)
		}

		return nil, errx.Wrap(err, "Failed to read file from S3", errx.TypeExternal).
			WithDetail("path", p).
			WithDetail("bucket", fs.bucket).
			WithDetail("key", key)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, errx.Wrap(err, "Failed to read response body", errx.TypeSystem).
			WithDetail("path", p)
	}

	return data, nil
}

// Stat returns information about a file or "directory"
func (fs *S3FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	if fs.bucket == "" {
		return fsx.FileInfo{}, s3Errors.New(ErrEmptyBucketName)
	}

	key := fs.s3Key(p)

	// S3 has no directories; a key with children under key/ is reported as one
	listOutput, err := fs.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(fs.bucket),
		Prefix:    aws.String(key + "/"),
		MaxKeys:   aws.Int32(1),
		Delimiter: aws.String("/"),
	})
	if err == nil && (len(listOutput.Contents) > 0 || len(listOutput.CommonPrefixes) > 0) {
		return fsx.FileInfo{
			Name:     path.Base(key),
			IsDir:    true,
			Metadata: make(map[string]string),
		}, nil
	}

	headOutput, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return fsx.FileInfo{}, fsx.ErrorRegistry.NewWithCause(fsx.ErrNotFound, err).
				WithDetail("path", p).
				WithDetail("key", key)
		}

		return fsx.FileInfo{}, errx.Wrap(err, "Failed to get S3 object metadata", errx.TypeExternal).
			WithDetail("path", p).
			WithDetail("bucket", fs.bucket).
			WithDetail("key", key)
	}

	metadata := make(map[string]string, len(headOutput.Metadata))
	for k, v := range headOutput.Metadata {
		metadata[k] = v
	}

	return fsx.FileInfo{
		Name:        path.Base(key),
		Size:        aws.ToInt64(headOutput.ContentLength),
		ModTime:     aws.ToTime(headOutput.LastModified),
		ContentType: aws.ToString(headOutput.ContentType),
		Metadata:    metadata,
	}, nil
}

// List returns a listing of files and directories in the specified path
func (fs *S3FileSystem) List(ctx context.Context, p string) ([]fsx.FileInfo, error) {
	if fs.bucket == "" {
		return nil, s3Errors.New(ErrEmptyBucketName)
	}

	prefix := fs.s3Key(p)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	files := make([]fsx.FileInfo, 0)
	var token *string
	for {
		listOutput, err := fs.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(fs.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, errx.Wrap(err, "Failed to list S3 objects", errx.TypeExternal).
				WithDetail("path", p).
				WithDetail("bucket", fs.bucket).
				WithDetail("key", prefix)
		}

		for _, cp := range listOutput.CommonPrefixes {
			files = append(files, fsx.FileInfo{
				Name:     path.Base(strings.TrimSuffix(aws.ToString(cp.Prefix), "/")),
				IsDir:    true,
				Metadata: make(map[string]string),
			})
		}

		for _, obj := range listOutput.Contents {
			key := aws.ToString(obj.Key)
			// Skip the directory marker itself
			if key == prefix {
				continue
			}
			files = append(files, fsx.FileInfo{
				Name:        path.Base(key),
				Size:        aws.ToInt64(obj.Size),
				ModTime:     aws.ToTime(obj.LastModified),
				ContentType: mime.TypeByExtension(path.Ext(key)),
				Metadata:    make(map[string]string),
			})
		}

		if !aws.ToBool(listOutput.IsTruncated) {
			break
		}
		token = listOutput.NextContinuationToken
	}

	return files, nil
}

// WriteFile writes data to a file in S3
func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	if fs.bucket == "" {
		return s3Errors.New(ErrEmptyBucketName)
	}

	key := fs.s3Key(p)

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errx.Wrap(err, "Failed to write file to S3", errx.TypeExternal).
			WithDetail("path", p).
			WithDetail("bucket", fs.bucket).
			WithDetail("key", key)
	}

	return nil
}

// Exists checks if a file or directory exists in S3
func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	if fs.bucket == "" {
		return false, s3Errors.New(ErrEmptyBucketName)
	}

	key := fs.s3Key(p)

	_, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	// Not a file, check if it's a directory
	listOutput, err := fs.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(fs.bucket),
		Prefix:  aws.String(strings.TrimSuffix(key, "/") + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, errx.Wrap(err, "Failed to check if path exists in S3", errx.TypeExternal).
			WithDetail("path", p).
			WithDetail("bucket", fs.bucket).
			WithDetail("key", key)
	}

	return len(listOutput.Contents) > 0, nil
}
