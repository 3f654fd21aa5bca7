package handlers

import (
	"net/http"

	"shopkart/internal/common"
	"shopkart/internal/models"
	"shopkart/internal/repositories"
	"shopkart/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category read requests.
type CategoryHandlers struct {
	categoryRepo   repositories.CategoryRepository
	productService services.ProductServiceInterface
}

func NewCategoryHandlers(categoryRepo repositories.CategoryRepository, productService services.ProductServiceInterface) *CategoryHandlers {
	return &CategoryHandlers{
		categoryRepo:   categoryRepo,
		productService: productService,
	}
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	categories, err := h.categoryRepo.List(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list categories", err.Error())
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /categories/:slug
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	category, err := h.categoryRepo.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return common.SendServerError(c, "Failed to fetch category", err.Error())
	}
	if category == nil {
		return common.SendNotFoundError(c, "Category")
	}
	return c.JSON(http.StatusOK, category)
}

// CategoryProducts handles GET /categories/:slug/products
func (h *CategoryHandlers) CategoryProducts(c echo.Context) error {
	slug := c.Param("slug")

	category, err := h.categoryRepo.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		return common.SendServerError(c, "Failed to fetch category", err.Error())
	}
	if category == nil {
		return common.SendNotFoundError(c, "Category")
	}

	filter := filterFromQuery(c)
	filter.CategorySlug = &slug
	products, err := h.productService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list category products", err.Error())
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}
