package handlers

import (
	"net/http"
	"strconv"

	"shopkart/internal/common"
	"shopkart/internal/models"
	"shopkart/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandlers handles catalog read requests and image uploads.
type ProductHandlers struct {
	productService services.ProductServiceInterface
}

func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// filterFromQuery builds the search filter from the request's query params.
func filterFromQuery(c echo.Context) *models.ProductSearchFilter {
	filter := &models.ProductSearchFilter{
		Query:  c.QueryParam("q"),
		SortBy: c.QueryParam("sort_by"),
	}
	if category := c.QueryParam("category"); category != "" {
		filter.CategorySlug = &category
	}
	if brand := c.QueryParam("brand"); brand != "" {
		filter.Brand = &brand
	}
	if condition := c.QueryParam("condition"); condition != "" {
		filter.Condition = &condition
	}
	if minPrice := c.QueryParam("min_price"); minPrice != "" {
		if value, err := decimal.NewFromString(minPrice); err == nil {
			filter.MinPrice = &value
		}
	}
	if maxPrice := c.QueryParam("max_price"); maxPrice != "" {
		if value, err := decimal.NewFromString(maxPrice); err == nil {
			filter.MaxPrice = &value
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			filter.Offset = o
		}
	}
	return filter
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		return common.SendServerError(c, "Failed to list products", err.Error())
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// SearchProducts handles GET /products/search
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	return h.ListProducts(c)
}

// FeaturedProducts handles GET /products/featured
func (h *ProductHandlers) FeaturedProducts(c echo.Context) error {
	filter := filterFromQuery(c)
	filter.FeaturedOnly = true

	products, err := h.productService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list featured products", err.Error())
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:slug
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	product, err := h.productService.GetProduct(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return common.SendServerError(c, "Failed to fetch product", err.Error())
	}
	if product == nil {
		return common.SendNotFoundError(c, "Product")
	}
	return c.JSON(http.StatusOK, product)
}

// UploadImage handles POST /products/:slug/image
func (h *ProductHandlers) UploadImage(c echo.Context) error {
	product, err := h.productService.GetProduct(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return common.SendServerError(c, "Failed to fetch product", err.Error())
	}
	if product == nil {
		return common.SendNotFoundError(c, "Product")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendClientError(c, "An image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read image", err.Error())
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.productService.AttachImage(c.Request().Context(), product.ID, file, fileHeader.Size, contentType, fileHeader.Filename)
	if err != nil {
		return common.SendServerError(c, "Failed to upload image", err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Image uploaded successfully",
		"image":   url,
	})
}
