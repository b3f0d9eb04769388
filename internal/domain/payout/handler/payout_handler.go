package handler

import (
	"net/http"

	"github.com/cypher6783/gasOrder/internal/domain/payout/service"
	"github.com/cypher6783/gasOrder/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	service service.PayoutService
}

func NewPayoutHandler(s service.PayoutService) *PayoutHandler {
	return &PayoutHandler{service: s}
}

// Run 手动触发一次结算运行（管理员）
func (h *PayoutHandler) Run(c *gin.Context) {
	summary, err := h.service.ProcessPayouts()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, summary)
}
