package handler

import (
	"net/http"

	"github.com/cypher6783/gasOrder/internal/domain/catalog/service"
	"github.com/cypher6783/gasOrder/internal/pkg/apperr"
	"github.com/cypher6783/gasOrder/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProduct 商品详情（店面展示读路径，带缓存）
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, product)
}
