package api

import (
	"errors"
	"net/http"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	reqdto "github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/dto/request"
	resdto "github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/dto/response"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/httperr"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentUseCase usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

// @Summary Charge
// @Description Record a payment attempt and return its confirmation number
// @Tags payment
// @Accept json
// @Produce json
// @Param request body reqdto.ChargeRequest true "Card details"
// @Success 200 {object} resdto.ChargeResponse
// @Failure 400 {object} httperr.Response
// @Router /payment [post]
func (h *PaymentHandler) Charge(c *gin.Context) {
	var req reqdto.ChargeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	confirmationNumber, err := h.paymentUseCase.Charge(c.Request.Context(), req.ToCard())
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrMissingHolderName),
			errors.Is(err, payment.ErrMissingCardNumber),
			errors.Is(err, payment.ErrMissingExpDate),
			errors.Is(err, payment.ErrMissingCVV):
			httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.ChargeResponse{ConfirmationNumber: confirmationNumber})
}

// @Summary Flag reversal
// @Description Mark a captured payment for out-of-band reversal
// @Tags payment
// @Produce json
// @Param confirmationNumber path string true "Payment confirmation number"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httperr.Response
// @Router /payment/{confirmationNumber}/reversal [post]
func (h *PaymentHandler) FlagReversal(c *gin.Context) {
	confirmationNumber := c.Param("confirmationNumber")

	if err := h.paymentUseCase.FlagReversal(c.Request.Context(), confirmationNumber); err != nil {
		switch {
		case errors.Is(err, errs.ErrPaymentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment record not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reversal_flagged"})
}
