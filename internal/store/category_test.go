package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryListCounts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	pathA := "test-catlist-a-" + uuid.NewString()[:8]
	pathB := "test-catlist-b-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, pathA, pathB); cleanCategory(t, db, category) })

	contents := NewContentStore(db)
	_, err := contents.Create(ctx, testParams(pathA, category), user.ID)
	require.NoError(t, err)
	_, err = contents.Create(ctx, testParams(pathB, category), user.ID)
	require.NoError(t, err)

	items, err := NewCategoryStore(db).List(ctx)
	require.NoError(t, err)

	var found bool
	for _, c := range items {
		if c.Name == category {
			found = true
			assert.Equal(t, 2, c.ContentCount)
		}
	}
	assert.True(t, found, "expected category %q in listing", category)
}

func TestCategoryFindByNameMissing(t *testing.T) {
	db := testDB(t)

	c, err := NewCategoryStore(db).FindByName(context.Background(), "test-no-such-category")
	require.NoError(t, err)
	assert.Nil(t, c)
}
