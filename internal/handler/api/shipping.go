package api

import (
	"errors"
	"net/http"

	resdto "github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/dto/response"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/httperr"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ShippingHandler struct {
	shippingUseCase usecase.ShippingUseCase
}

func NewShippingHandler(shippingUseCase usecase.ShippingUseCase) *ShippingHandler {
	return &ShippingHandler{
		shippingUseCase: shippingUseCase,
	}
}

// @Summary Get shipping record
// @Description Get the dispatch record for an order by confirmation number
// @Tags shipping
// @Produce json
// @Param confirmationNumber path string true "Order confirmation number"
// @Success 200 {object} resdto.ShippingRecordResponse
// @Failure 404 {object} httperr.Response
// @Router /shipping/{confirmationNumber} [get]
func (h *ShippingHandler) GetRecord(c *gin.Context) {
	confirmationNumber := c.Param("confirmationNumber")

	rec, err := h.shippingUseCase.GetRecord(c.Request.Context(), confirmationNumber)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shipping record not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromShippingRecord(rec))
}
