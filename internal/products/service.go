package products

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/pagination"
	"github.com/buynowhq/buynow-backend/pkg/storage/gcs"
)

const productFolder = "products"

// Service defines the behavior needed by the product controllers.
type Service interface {
	Create(ctx context.Context, creatorID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	UpsertReview(ctx context.Context, reviewer *models.User, req ReviewRequest) (*ProductDTO, error)
	ListReviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	DeleteReview(ctx context.Context, productID, reviewID uuid.UUID) error
}

type service struct {
	repo     productRepository
	uploader gcs.Uploader
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filters ListFilters, limit, offset int) ([]models.Product, int64, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	UpsertReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, productID, reviewID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a products service.
type ServiceParams struct {
	Repo     productRepository
	Uploader gcs.Uploader
}

// NewService constructs a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.Uploader == nil {
		return nil, fmt.Errorf("asset uploader is required")
	}
	return &service{
		repo:     params.Repo,
		uploader: params.Uploader,
	}, nil
}

func (s *service) Create(ctx context.Context, creatorID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	category, err := enums.ParseProductCategory(req.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if !req.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	productID := uuid.New()
	images, err := s.uploadImages(ctx, productID, req.Images)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    category,
		Seller:      req.Seller,
		Stock:       req.Stock,
		CreatedBy:   creatorID,
		Images:      images,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.removeAssets(ctx, images)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Category != "" {
		if _, err := enums.ParseProductCategory(q.Category); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}

	params := pagination.Normalize(pagination.Params{Page: q.Page, Limit: pagination.DefaultLimit})
	filters := ListFilters{
		Keyword:    q.Keyword,
		Category:   q.Category,
		PriceGTE:   q.PriceGTE,
		PriceLTE:   q.PriceLTE,
		RatingsGTE: q.RatingsGTE,
	}

	rows, total, err := s.repo.List(ctx, filters, params.Limit, params.Offset())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ListResult{
		Products:   dtos,
		Count:      total,
		Page:       params.Page,
		PerPage:    params.Limit,
		TotalPages: pagination.TotalPages(total, params.Limit),
	}, nil
}

func (s *service) ListByCreator(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, actor *models.User, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(actor, product); err != nil {
		return nil, err
	}

	category, err := enums.ParseProductCategory(req.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if !req.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Category = category
	product.Seller = req.Seller
	product.Stock = req.Stock
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	if len(req.Images) > 0 {
		previous := product.Images
		images, err := s.uploadImages(ctx, id, req.Images)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceImages(ctx, id, images); err != nil {
			s.removeAssets(ctx, images)
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace images")
		}
		s.removeAssets(ctx, previous)
	}

	updated, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Delete removes the listing, its child rows and its stored image assets.
func (s *service) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(actor, product); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	s.removeAssets(ctx, product.Images)
	return nil
}

func (s *service) UpsertReview(ctx context.Context, reviewer *models.User, req ReviewRequest) (*ProductDTO, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource not found, invalid id")
	}
	if _, err := s.getProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    reviewer.ID,
		Name:      reviewer.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.UpsertReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert review")
	}

	updated, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) ListReviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	if _, err := s.getProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	dtos := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, reviewFromModel(row))
	}
	return dtos, nil
}

func (s *service) DeleteReview(ctx context.Context, productID, reviewID uuid.UUID) error {
	if _, err := s.getProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteReview(ctx, productID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
	}
	return nil
}

func (s *service) getProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) authorizeOwner(actor *models.User, product *models.Product) error {
	if actor == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "please login to access this resource")
	}
	if actor.Role == enums.UserRoleAdmin || product.CreatedBy == actor.ID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this product")
}

func (s *service) uploadImages(ctx context.Context, productID uuid.UUID, dataURLs []string) ([]models.ProductImage, error) {
	images := make([]models.ProductImage, 0, len(dataURLs))
	for i, raw := range dataURLs {
		upload, err := gcs.ParseDataURL(raw)
		if err != nil {
			s.removeAssets(ctx, images)
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		publicID, url, err := s.uploader.Upload(ctx, productFolder, upload.Filename, upload.ContentType, bytes.NewReader(upload.Data))
		if err != nil {
			s.removeAssets(ctx, images)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload product image")
		}
		images = append(images, models.ProductImage{
			ID:        uuid.New(),
			ProductID: productID,
			PublicID:  publicID,
			URL:       url,
			Position:  i,
		})
	}
	return images, nil
}

// removeAssets clears uploaded objects after a failure or replacement. Best
// effort; a stale object never fails the request.
func (s *service) removeAssets(ctx context.Context, images []models.ProductImage) {
	for _, img := range images {
		_ = s.uploader.Delete(ctx, img.PublicID)
	}
}
