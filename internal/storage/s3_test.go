package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	S3API // unimplemented methods panic

	pages   []*s3.ListObjectsV2Output
	listed  []*s3.ListObjectsV2Input
	deleted [][]string
	single  []string
	delErr  error
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	copied := *in
	f.listed = append(f.listed, &copied)
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	if f.delErr != nil {
		return nil, f.delErr
	}
	var keys []string
	for _, obj := range in.Delete.Objects {
		keys = append(keys, aws.ToString(obj.Key))
	}
	f.deleted = append(f.deleted, keys)
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.single = append(f.single, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Service_DeletePrefixPaginates(t *testing.T) {
	fake := &fakeS3{pages: []*s3.ListObjectsV2Output{
		{
			Contents:              []types.Object{{Key: aws.String("products/1/a.png")}, {Key: aws.String("products/1/b.png")}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents: []types.Object{{Key: aws.String("products/1/c.png")}},
		},
	}}
	svc := &S3Service{client: fake, bucket: "store"}

	require.NoError(t, svc.DeletePrefix(context.Background(), "products/1/"))

	assert.Equal(t, [][]string{{"products/1/a.png", "products/1/b.png"}, {"products/1/c.png"}}, fake.deleted)
	require.Len(t, fake.listed, 2)
	assert.Nil(t, fake.listed[0].ContinuationToken)
	assert.Equal(t, "next", aws.ToString(fake.listed[1].ContinuationToken))
	assert.Equal(t, "store", aws.ToString(fake.listed[0].Bucket))
}

func TestS3Service_DeletePrefixEmpty(t *testing.T) {
	fake := &fakeS3{pages: []*s3.ListObjectsV2Output{{}}}
	svc := &S3Service{client: fake, bucket: "store"}

	require.NoError(t, svc.DeletePrefix(context.Background(), "products/9/"))
	assert.Empty(t, fake.deleted)

	assert.Error(t, svc.DeletePrefix(context.Background(), "  "))
}

func TestS3Service_DeletePrefixError(t *testing.T) {
	fake := &fakeS3{
		pages:  []*s3.ListObjectsV2Output{{Contents: []types.Object{{Key: aws.String("k")}}}},
		delErr: errors.New("boom"),
	}
	svc := &S3Service{client: fake, bucket: "store"}

	err := svc.DeletePrefix(context.Background(), "products/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete objects")
}

func TestS3Service_Delete(t *testing.T) {
	fake := &fakeS3{}
	svc := &S3Service{client: fake, bucket: "store"}

	require.NoError(t, svc.Delete(context.Background(), "products/1/a.png"))
	assert.Equal(t, []string{"products/1/a.png"}, fake.single)
}

func TestNewS3Service_RequiresBucket(t *testing.T) {
	_, err := NewS3Service(s3.New(s3.Options{Region: "us-east-1"}), "")
	assert.Error(t, err)
}

func TestS3Service_PresignGet(t *testing.T) {
	client := s3.New(s3.Options{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	svc, err := NewS3Service(client, "store")
	require.NoError(t, err)

	url, err := svc.PresignGet(context.Background(), "products/1/a.png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "store")
	assert.Contains(t, url, "products/1/a.png")
	assert.Contains(t, url, "X-Amz-Signature")
}
