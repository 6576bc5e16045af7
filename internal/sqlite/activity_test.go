package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/chunking/internal/domain/activity"
	"github.com/rpggio/chunking/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogAndList(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := []*activity.ActivityEntry{
		{ActivityType: activity.TypeProjectCreated, Subject: "Launch", Summary: "created", CreatedAt: base},
		{ActivityType: activity.TypeTaskToggled, Subject: "Launch", Summary: "toggled", Details: `{"task":"Planning"}`, CreatedAt: base.Add(time.Second)},
		{ActivityType: activity.TypeNoteCreated, Subject: "17", Summary: "note", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Log(ctx, entry))
		require.NotZero(t, entry.ID)
	}

	all, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, activity.TypeNoteCreated, all[0].ActivityType)

	launch, err := repo.List(ctx, activity.ListActivityOptions{Subject: "Launch"})
	require.NoError(t, err)
	require.Len(t, launch, 2)
	require.Equal(t, `{"task":"Planning"}`, launch[0].Details)

	toggled := activity.TypeTaskToggled
	filtered, err := repo.List(ctx, activity.ListActivityOptions{ActivityType: &toggled})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "toggled", filtered[0].Summary)
}

func TestActivityRepository_Pagination(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
			ActivityType: activity.TypeNoteCreated,
			Summary:      "note",
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}))
	}

	page, err := repo.List(ctx, activity.ListActivityOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)

	rest, err := repo.List(ctx, activity.ListActivityOptions{Offset: 3})
	require.NoError(t, err)
	require.Len(t, rest, 2)
}

func TestActivityRepository_LogNil(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))
	require.ErrorIs(t, repo.Log(context.Background(), nil), repository.ErrInvalidInput)
}
