package storage

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-summary/models"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = data
	return &s3.PutObjectOutput{}, f.err
}

func TestRecord(t *testing.T) {
	api := &fakeS3{}
	client := NewSpacesClientWithAPI(api, "summaries-bucket", "summaries")

	outcome := &models.Outcome{
		ID:        "abc",
		VideoID:   "dQw4w9WgXcQ",
		Success:   true,
		Summary:   "short",
		ModelName: "t5-small",
		CreatedAt: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, client.Record(context.Background(), outcome))

	assert.Equal(t, "summaries-bucket", aws.ToString(api.input.Bucket))
	assert.Equal(t, "summaries/2024/03/09/abc.json", aws.ToString(api.input.Key))
	assert.Equal(t, "application/json", aws.ToString(api.input.ContentType))

	var stored models.Outcome
	require.NoError(t, json.Unmarshal(api.body, &stored))
	assert.Equal(t, "dQw4w9WgXcQ", stored.VideoID)
	assert.Equal(t, "short", stored.Summary)
}

func TestRecordError(t *testing.T) {
	api := &fakeS3{err: errors.New("access denied")}
	client := NewSpacesClientWithAPI(api, "b", "")

	err := client.Record(context.Background(), &models.Outcome{ID: "x", CreatedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Equal(t, "spaces", client.Name())
}
