package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/songsync/internal/models"
)

// batchDeleteLimit is the S3 DeleteObjects per-call maximum.
const batchDeleteLimit = 1000

// S3Config holds connection settings for the S3-compatible backend
// (AWS S3 or MinIO).
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; set for MinIO or another compatible store
	AccessKey string
	SecretKey string
}

// S3Store implements FileStore on an S3-compatible bucket.
//
// Folder ids are key prefixes ending in "/"; each folder is materialized as
// a zero-byte marker object so empty folders survive listings. Property
// bags ride as S3 user metadata, which limits values to header-safe
// strings; the identity/hash/title fields sync stores there fit that.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store dials the bucket described by cfg.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// NewS3StoreWithClient wraps an existing client. Used by tests.
func NewS3StoreWithClient(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// FindOrCreateFolder resolves the child prefix and writes its marker object
// when absent.
func (s *S3Store) FindOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	id := parentID + name + "/"

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return "", fmt.Errorf("failed to probe folder %q: %w", id, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", id, err)
	}
	return id, nil
}

// ListChildren drains every page of direct children under folderID.
// File entries get a HeadObject call to populate the property bag; folder
// entries come from the listing's common prefixes.
func (s *S3Store) ListChildren(ctx context.Context, folderID string) ([]models.RemoteObjectRecord, error) {
	var result []models.RemoteObjectRecord

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(folderID),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %q: %w", folderID, err)
		}

		for _, cp := range page.CommonPrefixes {
			prefix := aws.ToString(cp.Prefix)
			result = append(result, models.RemoteObjectRecord{
				ID:          prefix,
				Name:        path.Base(strings.TrimSuffix(prefix, "/")),
				ParentID:    folderID,
				ContentType: FolderContentType,
			})
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == folderID {
				continue // the folder's own marker object
			}

			rec, err := s.describe(ctx, key, folderID, obj.LastModified)
			if err != nil {
				return nil, err
			}
			result = append(result, *rec)
		}
	}

	return result, nil
}

// FolderContentType marks folder records in listings, mirroring the
// Drive-style MIME convention.
const FolderContentType = "application/vnd.songsync.folder"

// IsFolder reports whether a record returned by ListChildren is a folder.
func IsFolder(r models.RemoteObjectRecord) bool {
	return r.ContentType == FolderContentType
}

func (s *S3Store) describe(ctx context.Context, key, parentID string, listModified *time.Time) (*models.RemoteObjectRecord, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe %q: %w", key, err)
	}

	modified := aws.ToTime(head.LastModified)
	if modified.IsZero() && listModified != nil {
		modified = *listModified
	}

	return &models.RemoteObjectRecord{
		ID:           key,
		Name:         path.Base(key),
		ParentID:     parentID,
		ContentType:  aws.ToString(head.ContentType),
		ModifiedTime: modified,
		Properties:   head.Metadata,
	}, nil
}

// GetContent downloads the object body.
func (s *S3Store) GetContent(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get %q: %w", id, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// UploadObject creates the object and returns its record. S3 does not echo
// the stored timestamp on put, so the record carries the upload time.
func (s *S3Store) UploadObject(ctx context.Context, item UploadItem) (*models.RemoteObjectRecord, error) {
	id := item.ParentID + item.Name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(id),
		Body:        bytes.NewReader(item.Content),
		ContentType: aws.String(item.ContentType),
		Metadata:    item.Properties,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %q: %w", id, err)
	}

	return &models.RemoteObjectRecord{
		ID:           id,
		Name:         item.Name,
		ParentID:     item.ParentID,
		ContentType:  item.ContentType,
		ModifiedTime: time.Now().UTC(),
		Properties:   item.Properties,
	}, nil
}

// UpdateObjectContent rewrites the body while preserving the existing
// property bag and content type.
func (s *S3Store) UpdateObjectContent(ctx context.Context, id string, content []byte) error {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to describe %q: %w", id, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(id),
		Body:        bytes.NewReader(content),
		ContentType: head.ContentType,
		Metadata:    head.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to update content of %q: %w", id, err)
	}
	return nil
}

// UpdateObjectMetadata replaces the property bag via a self-copy.
func (s *S3Store) UpdateObjectMetadata(ctx context.Context, id string, properties map[string]string) error {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to describe %q: %w", id, err)
	}

	_, err = s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(s.bucket),
		Key:               aws.String(id),
		CopySource:        aws.String(url.PathEscape(s.bucket + "/" + id)),
		ContentType:       head.ContentType,
		Metadata:          properties,
		MetadataDirective: types.MetadataDirectiveReplace,
	})
	if err != nil {
		return fmt.Errorf("failed to update metadata of %q: %w", id, err)
	}
	return nil
}

// BatchUpload performs the items sequentially against S3, which has no
// multi-object put. A per-item failure yields a nil slot; an error is
// returned only when nothing could be submitted at all.
func (s *S3Store) BatchUpload(ctx context.Context, items []UploadItem) ([]*models.RemoteObjectRecord, error) {
	results := make([]*models.RemoteObjectRecord, len(items))
	failures := 0
	var firstErr error

	for i, item := range items {
		rec, err := s.UploadObject(ctx, item)
		if err != nil {
			failures++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results[i] = rec
	}

	if failures == len(items) && len(items) > 0 {
		return nil, fmt.Errorf("batch upload failed entirely: %w", firstErr)
	}
	return results, nil
}

// BatchDelete removes ids with DeleteObjects, chunked at the API limit,
// and returns the number of confirmed deletions.
func (s *S3Store) BatchDelete(ctx context.Context, ids []string) (int, error) {
	deleted := 0

	for start := 0; start < len(ids); start += batchDeleteLimit {
		end := min(start+batchDeleteLimit, len(ids))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, id := range ids[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(id)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(false)},
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to batch delete: %w", err)
		}
		deleted += len(out.Deleted)
	}

	return deleted, nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
