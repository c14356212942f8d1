package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-api/internal/domain"
	"store-api/internal/storage"
)

type productFixture struct {
	products   *memProducts
	categories *memCategories
	images     *memStorage
}

func newProductFixture() *productFixture {
	return &productFixture{
		products:   &memProducts{byID: map[int64]domain.Product{}},
		categories: &memCategories{byID: map[int64]domain.Category{1: {ID: 1, Name: "Electronics"}, 2: {ID: 2, Name: "Books"}}},
		images:     &memStorage{objects: map[string]string{}},
	}
}

func (f *productFixture) service(withImages bool) ProductService {
	if withImages {
		return NewProductService(f.products, f.categories, f.images, ImageConfig{KeyPrefix: "products"})
	}
	return NewProductService(f.products, f.categories, nil, ImageConfig{})
}

func TestProductService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := newProductFixture().service(false)

	laptop, err := svc.Create(ctx, ProductInput{Name: "Laptop", Description: "Gaming Laptop", Price: 1500, CategoryID: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ProductInput{Name: "Novel", Price: 10, CategoryID: 2})
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	books := int64(2)
	filtered, err := svc.List(ctx, &books)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Novel", filtered[0].Name)

	updated, err := svc.Update(ctx, laptop.ID, ProductInput{Name: "Laptop Pro", Price: 2000, CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", updated.Name)

	require.NoError(t, svc.Delete(ctx, laptop.ID))
	_, err = svc.Get(ctx, laptop.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, laptop.ID), ErrProductNotFound)
}

func TestProductService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newProductFixture().service(false)

	_, err := svc.Create(ctx, ProductInput{Name: "Laptop", CategoryID: 99})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Create(ctx, ProductInput{Name: " ", CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, ProductInput{Name: "Laptop", Price: -1, CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	// category is checked before the product exists
	_, err = svc.Update(ctx, 42, ProductInput{Name: "Laptop", CategoryID: 99})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = svc.Update(ctx, 42, ProductInput{Name: "Laptop", CategoryID: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Images(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	svc := f.service(true)

	p, err := svc.Create(ctx, ProductInput{Name: "Laptop", Price: 1, CategoryID: 1})
	require.NoError(t, err)

	_, err = svc.ImageURL(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNoImage)

	withImage, err := svc.SetImage(ctx, p.ID, "Photo.PNG", "image/png", strings.NewReader("first"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(withImage.ImageKey, "products/1/"))
	assert.True(t, strings.HasSuffix(withImage.ImageKey, ".png"))
	firstKey := withImage.ImageKey

	replaced, err := svc.SetImage(ctx, p.ID, "photo.jpg", "image/jpeg", strings.NewReader("second"))
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, replaced.ImageKey)
	assert.NotContains(t, f.images.objects, firstKey)
	assert.Equal(t, "second", f.images.objects[replaced.ImageKey])

	url, err := svc.ImageURL(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/"+replaced.ImageKey, url)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, []string{"products/1/"}, f.images.prefixes)
	assert.Empty(t, f.images.objects)
}

func TestProductService_ImagesNotConfigured(t *testing.T) {
	ctx := context.Background()
	svc := newProductFixture().service(false)

	p, err := svc.Create(ctx, ProductInput{Name: "Laptop", CategoryID: 1})
	require.NoError(t, err)

	_, err = svc.SetImage(ctx, p.ID, "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
	_, err = svc.ImageURL(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(&memCategories{byID: map[int64]domain.Category{}})

	_, err := svc.Create(ctx, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	c, err := svc.Create(ctx, "Toys")
	require.NoError(t, err)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toys", got.Name)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
