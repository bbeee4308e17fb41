package api

import (
	"errors"
	"net/http"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
	reqdto "github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/dto/request"
	resdto "github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/dto/response"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/httperr"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkoutUseCase usecase.CheckoutUseCase
}

func NewCheckoutHandler(checkoutUseCase usecase.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: checkoutUseCase,
	}
}

// @Summary Place order
// @Description Run the checkout saga: reserve inventory, capture payment, persist the order and queue shipping
// @Tags orders
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} resdto.InsufficientResponse
// @Failure 502 {object} httperr.Response
// @Router /order-processing/order [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params := usecase.CheckoutParams{
		Lines:    req.ToLines(),
		Card:     req.ToCard(),
		Shipping: req.ToAddress(),
	}

	result, err := h.checkoutUseCase.Checkout(c.Request.Context(), params, idempotencyKey)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckoutResult(result))
}

// @Summary Get order
// @Description Get a persisted order by its confirmation number
// @Tags orders
// @Produce json
// @Param confirmationNumber path string true "Order confirmation number"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} httperr.Response
// @Router /order-processing/order/{confirmationNumber} [get]
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	confirmationNumber := c.Param("confirmationNumber")

	rm, err := h.checkoutUseCase.GetOrder(c.Request.Context(), confirmationNumber)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderRM(rm))
}

// respondCheckoutError maps saga failures to status codes. The shortfall
// body keeps its own shape because inventory clients decode it; everything
// else goes through the shared error envelope.
func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	var insufficient *usecase.InsufficientError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, resdto.FromShortfalls(insufficient.Shortfalls))
	case errors.Is(err, errs.ErrIdempotencyMismatch):
		httperr.AbortWithError(c, http.StatusConflict, err, "Idempotency key reused with a different request", nil)
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request with this idempotency key is still being processed", nil)
	case errors.Is(err, errs.ErrItemNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
	case errors.Is(err, errs.ErrPaymentDeclined):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment was not accepted", nil)
	case errors.Is(err, errs.ErrUpstreamUnavailable):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Upstream service unavailable", nil)
	case isValidationError(err):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *CheckoutHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}

// isValidationError collects the structural rejections that never reached a
// downstream service. They all map to 400.
func isValidationError(err error) bool {
	validationErrs := []error{
		inventory.ErrEmptyBatch,
		inventory.ErrNonPositiveQuantity,
		inventory.ErrDuplicateItem,
		payment.ErrMissingHolderName,
		payment.ErrMissingCardNumber,
		payment.ErrMissingExpDate,
		payment.ErrMissingCVV,
		shipping.ErrMissingName,
		shipping.ErrMissingAddress,
		shipping.ErrMissingCity,
		shipping.ErrMissingState,
		shipping.ErrMissingZip,
	}
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
