package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams(path, category string) CreateParams {
	return CreateParams{
		Path:         path,
		Title:        "Test Item",
		Description:  "A test content item.",
		Price:        19.99,
		FileURL:      "https://cdn.example.com/test.png",
		CategoryName: category,
	}
}

func TestCreateWithNewCategory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	path := "test-create-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	content, err := s.Create(ctx, testParams(path, category), user.ID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, content.ID)

	assert.Equal(t, path, content.Path)
	assert.Equal(t, user.ID, content.CreatorID)
	assert.Equal(t, int64(0), content.Views)
	assert.Equal(t, []string{category}, content.Categories)

	// Bidirectional link: the category's membership contains the content.
	paths, err := NewCategoryStore(db).ContentPaths(ctx, category)
	require.NoError(t, err)
	assert.Contains(t, paths, path)

	// Creator's derived content set contains the new item.
	owned, err := NewUserStore(db).OwnedContentPaths(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, owned, path)
}

func TestCreateWithExistingCategoryAppends(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	pathA := "test-append-a-" + uuid.NewString()[:8]
	pathB := "test-append-b-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, pathA, pathB); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	_, err := s.Create(ctx, testParams(pathA, category), user.ID)
	require.NoError(t, err)

	// Second create reuses the category; the link is appended, never
	// overwritten, so both items stay members.
	second, err := s.Create(ctx, testParams(pathB, category), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{category}, second.Categories)

	paths, err := NewCategoryStore(db).ContentPaths(ctx, category)
	require.NoError(t, err)
	assert.Contains(t, paths, pathA)
	assert.Contains(t, paths, pathB)

	// Only one category row exists for the name.
	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM categories WHERE name = $1", category).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetByPathIncrementsViews(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	path := "test-views-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	_, err := s.Create(ctx, testParams(path, category), user.ID)
	require.NoError(t, err)

	first, err := s.GetByPath(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Views)
	assert.Equal(t, "Test Creator", first.CreatorName)
	assert.Equal(t, []string{category}, first.Categories)

	// Two sequential reads increase views by exactly two.
	second, err := s.GetByPath(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Views)
}

func TestGetByPathNotFound(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	_, err := s.GetByPath(context.Background(), "test-no-such-path")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetForEdit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)
	stranger := testUser(t, db)

	path := "test-edit-form-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	_, err := s.Create(ctx, testParams(path, category), owner.ID)
	require.NoError(t, err)

	content, err := s.GetForEdit(ctx, path, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), content.Views, "edit lookup must not count a view")

	_, err = s.GetForEdit(ctx, path, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.GetForEdit(ctx, "test-no-such-path", owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReplacesFieldsKeepsLinks(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	path := "test-update-" + uuid.NewString()[:8]
	newPath := path + "-v2"
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path, newPath); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	created, err := s.Create(ctx, testParams(path, category), user.ID)
	require.NoError(t, err)

	updated, err := s.Update(ctx, path, UpdateParams{
		Path:        newPath,
		Title:       "Updated Title",
		Description: "Updated description.",
		Price:       29.99,
		FileURL:     "https://cdn.example.com/v2.png",
	}, user.ID)
	require.NoError(t, err)

	assert.Equal(t, newPath, updated.Path)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, 29.99, updated.Price)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	// Category and creator linkage are untouched by an edit.
	assert.Equal(t, user.ID, updated.CreatorID)
	assert.Equal(t, []string{category}, updated.Categories)

	// The item is addressable by its new path, and no longer by the old one.
	fetched, err := s.GetForEdit(ctx, newPath, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", fetched.Title)

	_, err = s.FindByPath(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateErrors(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)
	stranger := testUser(t, db)

	path := "test-update-err-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	_, err := s.Create(ctx, testParams(path, category), owner.ID)
	require.NoError(t, err)

	_, err = s.Update(ctx, "test-no-such-path", UpdateParams{Path: "x", Title: "x"}, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, path, UpdateParams{Path: path, Title: "hijack"}, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteCascades(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	path := "test-delete-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	content, err := s.Create(ctx, testParams(path, category), user.ID)
	require.NoError(t, err)

	// Attach a review so the cascade has something to remove.
	reviews := NewReviewStore(db)
	_, err = reviews.Create(ctx, content.ID, user.ID, 5, "great")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, path, user.ID))

	// Gone from the catalog and from direct lookup.
	items, err := s.List(ctx)
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, path, item.Path)
	}
	_, err = s.GetByPath(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)

	// Reviews are deleted with the content.
	count, err := reviews.CountByContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The category had exactly this one item, so it was garbage-collected.
	cat, err := NewCategoryStore(db).FindByName(ctx, category)
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestDeleteKeepsSharedCategory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	pathA := "test-shared-a-" + uuid.NewString()[:8]
	pathB := "test-shared-b-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, pathA, pathB); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	_, err := s.Create(ctx, testParams(pathA, category), user.ID)
	require.NoError(t, err)
	_, err = s.Create(ctx, testParams(pathB, category), user.ID)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, pathA, user.ID))

	// The category still has a member, so it survives.
	cat, err := NewCategoryStore(db).FindByName(ctx, category)
	require.NoError(t, err)
	require.NotNil(t, cat)

	paths, err := NewCategoryStore(db).ContentPaths(ctx, category)
	require.NoError(t, err)
	assert.Equal(t, []string{pathB}, paths)
}

func TestDeleteErrors(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)
	stranger := testUser(t, db)

	path := "test-delete-err-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	_, err := s.Create(ctx, testParams(path, category), owner.ID)
	require.NoError(t, err)

	// The target must be located before any dependent deletion runs.
	err = s.Delete(ctx, "test-no-such-path", owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, path, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The failed attempts left the content untouched.
	_, err = s.FindByPath(ctx, path)
	assert.NoError(t, err)
}

func TestCreateRollsBackOnFailure(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db)

	path := "test-rollback-" + uuid.NewString()[:8]
	category := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, path); cleanCategory(t, db, category) })

	s := NewContentStore(db)
	_, err := s.Create(ctx, testParams(path, category), user.ID)
	require.NoError(t, err)

	// A duplicate path fails the insert; the transaction must leave no
	// partial writes (no second category row, no dangling links).
	_, err = s.Create(ctx, testParams(path, "test-cat-other-"+uuid.NewString()[:8]), user.ID)
	require.Error(t, err)

	var linkCount int
	require.NoError(t, db.QueryRow(`
		SELECT COUNT(*) FROM content_categories cc
		JOIN content c ON c.id = cc.content_id
		WHERE c.path = $1`, path).Scan(&linkCount))
	assert.Equal(t, 1, linkCount)
}
