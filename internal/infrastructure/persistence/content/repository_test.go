package content

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/caching/stores"
	schema "github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/database"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := logging.NewDiscardLogger()
	db, err := database.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	creator := schema.NewTableCreator()
	require.NoError(t, creator.CreateSchema(ctx, db))
	require.NoError(t, creator.SeedInitialContent(ctx, db))
	return db
}

func TestOptionRepository(t *testing.T) {
	db := newTestDB(t)
	cache := stores.NewOptionStore(time.Minute, nil)
	repo := NewOptionRepository(db, cache)
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "image_pool")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "image_pool", []byte(`[3,5]`)))
	require.NoError(t, repo.Set(ctx, "image_pool", []byte(`[7]`)))

	value, found, err := repo.Get(ctx, "image_pool")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[7]`, string(value))

	cache.InvalidateAll()
	value, found, err = repo.Get(ctx, "image_pool")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[7]`, string(value), "value must survive a cold cache")
}

func TestPostAndMetaRepositories(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostRepository(db)
	meta := NewPostMetaRepository(db)
	ctx := context.Background()

	post := &domain.PostNode{PostType: "post", Title: "Hello", Slug: "hello"}
	require.NoError(t, posts.Store(ctx, post))
	assert.Positive(t, post.ID)

	loaded, err := posts.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Hello", loaded.Title)

	missing, err := posts.FindByID(ctx, post.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := meta.LoadAll(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, meta.Replace(ctx, post.ID, "_thumbnail_id", "12"))
	require.NoError(t, meta.Replace(ctx, post.ID, "_thumbnail_id", "13"))
	all, err = meta.LoadAll(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"13"}, all["_thumbnail_id"])

	require.NoError(t, meta.Delete(ctx, post.ID, "_thumbnail_id"))
	all, err = meta.LoadAll(ctx, post.ID)
	require.NoError(t, err)
	assert.NotContains(t, all, "_thumbnail_id")
}

func TestPostTypeRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostTypeRepository(db)
	ctx := context.Background()

	public, err := repo.FindPublic(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(public))
	for _, pt := range public {
		names = append(names, pt.Name)
	}
	assert.Equal(t, []string{"page", "post"}, names)

	attachment, err := repo.FindByName(ctx, "attachment")
	require.NoError(t, err)
	require.NotNil(t, attachment)
	assert.False(t, attachment.SupportsThumbnail)

	require.NoError(t, repo.Store(ctx, &domain.PostTypeNode{Name: "product", Label: "Products", Public: true, SupportsThumbnail: true}))
	product, err := repo.FindByName(ctx, "product")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.True(t, product.Public)

	unknown, err := repo.FindByName(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestImageFileRepositoryFindByIDsKeepsOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewImageFileRepository(db)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		f := &domain.ImageFileNode{Filename: name, URL: "/media/images/" + name}
		require.NoError(t, repo.Store(ctx, f))
		ids = append(ids, f.ID)
	}

	found, err := repo.FindByIDs(ctx, []int64{ids[2], 9999, ids[0]})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "c.png", found[0].Filename)
	assert.Equal(t, "a.png", found[1].Filename)

	require.NoError(t, repo.Delete(ctx, ids[1]))
	gone, err := repo.FindByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Nil(t, gone)
}
