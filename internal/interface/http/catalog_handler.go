package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RaiderT63/foodgram/internal/application"
	"github.com/RaiderT63/foodgram/pkg/response"
)

// CatalogHandler serves the unpaged tag and ingredient reference data.
type CatalogHandler struct {
	Catalog *application.CatalogService
	Logger  *logrus.Logger
}

func NewCatalogHandler(catalog *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Logger: logger}
}

// ListTags GET /api/tags
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.Catalog.ListTags(c)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tags, "tags", nil)
}

// GetTag GET /api/tags/:id
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "not found", nil)
		return
	}
	tag, err := h.Catalog.GetTag(c, id)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tag, "tag", nil)
}

// ListIngredients GET /api/ingredients?name=
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ings, err := h.Catalog.ListIngredients(c, c.Query("name"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ings, "ingredients", nil)
}

// GetIngredient GET /api/ingredients/:id
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "not found", nil)
		return
	}
	ing, err := h.Catalog.GetIngredient(c, id)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ing, "ingredient", nil)
}
