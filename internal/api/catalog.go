package api

import (
	"context"                        // Cache loaders
	"fmt"                            // Cache key formatting
	"net/http"                       // HTTP status codes
	"storefront/internal/cache"      // Catalog cache
	"storefront/internal/domain"     // Importing domain models
	"storefront/internal/repository" // Product filters
	"storefront/internal/store"      // Store facade
	"strconv"                        // Query parsing

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money amounts
)

// Request struct for category creation
type CategoryRequest struct {
	Name     string `json:"name" binding:"required"` // Category name
	ParentID *uint  `json:"parent_id"`               // Optional parent category
}

// Request struct for product creation and update
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`        // Product name
	Description string          `json:"description"`                    // Free text
	Price       decimal.Decimal `json:"price"`                          // Unit price
	Stock       int             `json:"stock"`                          // Units on hand
	CategoryID  uint            `json:"category_id" binding:"required"` // Owning category
	ImageURL    *string         `json:"image_url"`                      // Optional image
}

// ProductResponse is a product with its rating aggregate
type ProductResponse struct {
	domain.Product
	Rating domain.RatingSummary `json:"rating"`
}

// ListCategoriesHandler returns every category, read through the cache
func ListCategoriesHandler(s *store.Store, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := cache.Fetch(c.Request.Context(), cc, domain.TableCategories, cache.CategoryPrefix,
			func(ctx context.Context) ([]domain.Category, bool, error) {
				categories, err := s.Categories().List(ctx)
				return categories, err == nil, err // Always cacheable, even when empty
			})
		if err != nil {
			writeError(c, err, "List categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// ListProductsHandler lists active products, optionally by category and name
func ListProductsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := productFilter(c)
		if !ok {
			return
		}
		products, err := s.Products().List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err, "List products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProductHandler returns one product with its rating summary. The product
// row is cached; the rating is always computed fresh.
func GetProductHandler(s *store.Store, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		key := fmt.Sprintf("%s%d", cache.ProductPrefix, id)
		product, err := cache.Fetch(ctx, cc, domain.TableProducts, key,
			func(ctx context.Context) (*domain.Product, bool, error) {
				product, err := s.Products().GetByID(ctx, id)
				return product, product != nil, err // Misses are not cached
			})
		if err != nil {
			writeError(c, err, "Get product")
			return
		}
		if product == nil || !product.Active {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		rating, err := s.Aggregates().RatingSummary(ctx, id)
		if err != nil {
			writeError(c, err, "Rating summary")
			return
		}
		c.JSON(http.StatusOK, ProductResponse{Product: *product, Rating: rating})
	}
}

// CreateCategoryHandler adds a category (admin)
func CreateCategoryHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		category := &domain.Category{Name: req.Name, ParentID: req.ParentID}
		if _, err := s.Categories().Create(c.Request.Context(), category); err != nil {
			writeError(c, err, "Create category")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// CreateProductHandler adds a product (admin)
func CreateProductHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		product := req.product()
		if _, err := s.Products().Create(c.Request.Context(), product); err != nil {
			writeError(c, err, "Create product")
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProductHandler replaces a product's editable fields (admin)
func UpdateProductHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ctx := c.Request.Context()
		existing, err := s.Products().GetByID(ctx, id)
		if err != nil {
			writeError(c, err, "Update product")
			return
		}
		if existing == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		product := req.product()
		product.ID = id
		product.Active = existing.Active // Activation has its own endpoint
		product.CreatedAt = existing.CreatedAt
		if err := s.Products().Update(ctx, product); err != nil {
			writeError(c, err, "Update product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DeactivateProductHandler hides a product from the catalog (admin)
func DeactivateProductHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.Products().Delete(c.Request.Context(), id); err != nil {
			writeError(c, err, "Deactivate product")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (r ProductRequest) product() *domain.Product {
	return &domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
	}
}

// productFilter reads the category_id and q query parameters
func productFilter(c *gin.Context) (repository.ProductFilter, bool) {
	filter := repository.ProductFilter{Query: c.Query("q")} // Name substring
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return filter, false
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	return filter, true
}
