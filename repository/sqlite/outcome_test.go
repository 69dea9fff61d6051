package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndFind(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	want := &models.Outcome{
		ID:               "a1",
		Input:            "https://youtu.be/dQw4w9WgXcQ",
		VideoID:          "dQw4w9WgXcQ",
		Success:          true,
		Summary:          "A song about commitment.",
		TranscriptLength: 2048,
		InputLength:      512,
		ModelName:        "t5-small",
		Duration:         1500 * time.Millisecond,
		CreatedAt:        created,
	}
	require.NoError(t, repo.Record(ctx, want))

	got, err := repo.Find(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, want.Input, got.Input)
	assert.Equal(t, want.VideoID, got.VideoID)
	assert.True(t, got.Success)
	assert.Equal(t, want.Summary, got.Summary)
	assert.Empty(t, got.Error)
	assert.Equal(t, want.TranscriptLength, got.TranscriptLength)
	assert.Equal(t, want.InputLength, got.InputLength)
	assert.Equal(t, want.Duration, got.Duration)
	assert.True(t, created.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
	assert.Equal(t, "sqlite", repo.Name())
}

func TestFindNotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Find(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestSaveDuplicateID(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	o := &models.Outcome{ID: "dup", Input: "x", ModelName: "m", CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, o))
	assert.Error(t, repo.Save(ctx, o))
}

func TestRecent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Save(ctx, &models.Outcome{
			ID:          id,
			Input:       "not a video",
			Error:       `could not extract a video id from "not a video"`,
			FailedStage: models.StageExtract,
			ModelName:   "t5-small",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.False(t, got[0].Success)
	assert.Equal(t, models.StageExtract, got[0].FailedStage)

	_, err = repo.Recent(ctx, 0)
	assert.Error(t, err)
	_, err = repo.Recent(ctx, 101)
	assert.Error(t, err)
}
