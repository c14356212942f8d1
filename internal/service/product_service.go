package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"store-api/internal/domain"
	"store-api/internal/repository"
	"store-api/internal/storage"
)

// ErrNoImage is returned when a product has no stored image.
var ErrNoImage = errors.New("product has no image")

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	CategoryID  int64
}

// ImageConfig controls where product images are stored.
type ImageConfig struct {
	KeyPrefix string
	URLTTL    time.Duration
}

// ProductService coordinates product operations backed by repositories.
type ProductService interface {
	List(ctx context.Context, categoryID *int64) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, filename, contentType string, body io.Reader) (*domain.Product, error)
	ImageURL(ctx context.Context, id int64) (string, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	images     storage.Service
	imageCfg   ImageConfig
}

// NewProductService builds the service; images may be nil when no object
// store is configured.
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, images storage.Service, imageCfg ImageConfig) ProductService {
	if imageCfg.KeyPrefix == "" {
		imageCfg.KeyPrefix = "products"
	}
	if imageCfg.URLTTL <= 0 {
		imageCfg.URLTTL = 15 * time.Minute
	}
	return &productService{
		products:   products,
		categories: categories,
		images:     images,
		imageCfg:   imageCfg,
	}
}

func (s *productService) List(ctx context.Context, categoryID *int64) ([]domain.Product, error) {
	if categoryID != nil {
		return s.products.ListByCategory(ctx, *categoryID)
	}
	return s.products.List(ctx)
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, productError(err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
	if _, err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, productError(err)
	}
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.CategoryID = in.CategoryID

	if err := s.products.Update(ctx, product); err != nil {
		return nil, productError(err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return productError(err)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return productError(err)
	}
	if product.ImageKey != "" && s.images != nil {
		if err := s.images.DeletePrefix(ctx, s.imagePrefix(id)); err != nil {
			return fmt.Errorf("product %d deleted, image cleanup failed: %w", id, err)
		}
	}
	return nil
}

func (s *productService) SetImage(ctx context.Context, id int64, filename, contentType string, body io.Reader) (*domain.Product, error) {
	if s.images == nil {
		return nil, storage.ErrNotConfigured
	}
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, productError(err)
	}

	key := s.imagePrefix(id) + uuid.NewString() + strings.ToLower(path.Ext(filename))
	if err := s.images.Put(ctx, key, contentType, body); err != nil {
		return nil, err
	}
	if err := s.products.SetImageKey(ctx, id, key); err != nil {
		return nil, productError(err)
	}

	previous := product.ImageKey
	product.ImageKey = key
	if previous != "" && previous != key {
		// stale object only costs storage, the product already points at the new key
		_ = s.images.Delete(ctx, previous)
	}
	return product, nil
}

func (s *productService) ImageURL(ctx context.Context, id int64) (string, error) {
	if s.images == nil {
		return "", storage.ErrNotConfigured
	}
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return "", productError(err)
	}
	if product.ImageKey == "" {
		return "", ErrNoImage
	}
	return s.images.PresignGet(ctx, product.ImageKey, s.imageCfg.URLTTL)
}

func (s *productService) validate(ctx context.Context, in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if _, err := s.categories.Get(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCategory
		}
		return err
	}
	if in.Name == "" {
		return validationError("name is required")
	}
	if in.Price < 0 {
		return validationError("price must not be negative")
	}
	return nil
}

func (s *productService) imagePrefix(id int64) string {
	return fmt.Sprintf("%s/%d/", strings.Trim(s.imageCfg.KeyPrefix, "/"), id)
}

func productError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
