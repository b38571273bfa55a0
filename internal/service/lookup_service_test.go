package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudata/samudata-api/internal/models"
)

type lookupRepoStub struct {
	categoryCalls int
	regionCalls   int
}

func (r *lookupRepoStub) ListCategories(ctx context.Context) ([]models.Category, error) {
	r.categoryCalls++
	return []models.Category{{ID: 2, Name: "budidaya"}, {ID: 1, Name: "tangkap"}}, nil
}

func (r *lookupRepoStub) ListRegions(ctx context.Context) ([]models.Region, error) {
	r.regionCalls++
	return []models.Region{{ID: 7, Name: "Banyuwangi"}}, nil
}

func TestLookupServiceCachesTables(t *testing.T) {
	repo := &lookupRepoStub{}
	svc := NewLookupService(repo, 4, time.Minute, nil, nil)

	for i := 0; i < 3; i++ {
		categories, err := svc.Categories(context.Background())
		require.NoError(t, err)
		require.Len(t, categories, 2)
	}
	assert.Equal(t, 1, repo.categoryCalls)

	ok, err := svc.CategoryExists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.RegionExists(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, repo.regionCalls)
}

func TestLookupServiceWithoutCache(t *testing.T) {
	repo := &lookupRepoStub{}
	svc := NewLookupService(repo, 0, time.Minute, nil, nil)

	_, err := svc.Regions(context.Background())
	require.NoError(t, err)
	_, err = svc.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.regionCalls)
}
