package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/RaiderT63/foodgram/internal/interface/http"
)

// CatalogModule serves the public tag and ingredient reference data.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
}

func NewCatalogModule(h *handlers.CatalogHandler) *CatalogModule {
	return &CatalogModule{Handler: h}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/tags", m.Handler.ListTags)
	rg.GET("/tags/:id", m.Handler.GetTag)
	rg.GET("/ingredients", m.Handler.ListIngredients)
	rg.GET("/ingredients/:id", m.Handler.GetIngredient)
}
