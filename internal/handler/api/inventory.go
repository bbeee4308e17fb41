package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	reqdto "github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/dto/request"
	resdto "github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/dto/response"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/httperr"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryUseCase usecase.InventoryUseCase
}

func NewInventoryHandler(inventoryUseCase usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{
		inventoryUseCase: inventoryUseCase,
	}
}

// @Summary List items
// @Description List all inventory items with current availability
// @Tags inventory
// @Produce json
// @Success 200 {array} resdto.ItemResponse
// @Failure 404 {object} httperr.Response
// @Router /inventory-management/inventory/items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventoryUseCase.ListItems(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNoItems):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No items found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromItems(items))
}

// @Summary Get item
// @Description Get a single inventory item by ID
// @Tags inventory
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /inventory-management/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item ID format", nil)
		return
	}

	item, err := h.inventoryUseCase.GetItem(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromItem(item))
}

// @Summary Search items
// @Description Search inventory items by name substring
// @Tags inventory
// @Produce json
// @Param name query string true "Name substring to match"
// @Success 200 {array} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /inventory-management/inventory/items/search [get]
func (h *InventoryHandler) SearchItems(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errs.New("missing name query parameter"), "Query parameter 'name' is required", nil)
		return
	}

	items, err := h.inventoryUseCase.SearchItems(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNoItems):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No items found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromItems(items))
}

// @Summary Reserve items
// @Description Atomically decrement availability for every line or none
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body reqdto.ReserveRequest true "Reservation lines"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} resdto.InsufficientResponse
// @Router /inventory-management/inventory/items [post]
func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req reqdto.ReserveRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.inventoryUseCase.Reserve(c.Request.Context(), req.ToLines())
	if err != nil {
		h.respondBatchError(c, err)
		return
	}

	if !result.Committed {
		c.JSON(http.StatusConflict, resdto.FromShortfalls(result.Shortfalls))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reserved"})
}

// @Summary Release items
// @Description Return previously reserved quantities to availability
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body reqdto.ReserveRequest true "Lines to release"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /inventory-management/inventory/items/release [post]
func (h *InventoryHandler) Release(c *gin.Context) {
	var req reqdto.ReserveRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := h.inventoryUseCase.Release(c.Request.Context(), req.ToLines()); err != nil {
		h.respondBatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "released"})
}

func (h *InventoryHandler) respondBatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrEmptyBatch),
		errors.Is(err, inventory.ErrNonPositiveQuantity),
		errors.Is(err, inventory.ErrDuplicateItem):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case errors.Is(err, errs.ErrItemNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
