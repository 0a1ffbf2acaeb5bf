package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
)

// InventoryHandler serves admin stock management
type InventoryHandler struct {
	BaseHandler
	inventory *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// GetStock godoc
// @Summary      Get product stock
// @Description  Return the available quantity of a product
// @Tags         admin-inventory
// @Produce      json
// @Param        product_id path int true "Product ID"
// @Success      200 {object} dto.Response{data=inventoryapp.StockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/inventory/{product_id} [get]
func (h *InventoryHandler) GetStock(c *gin.Context) {
	productID, ok := h.idParam(c, "product_id")
	if !ok {
		return
	}
	stock, err := h.inventory.GetStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stock)
}

// SetStock godoc
// @Summary      Set product stock
// @Description  Overwrite the available quantity of a product
// @Tags         admin-inventory
// @Accept       json
// @Produce      json
// @Param        product_id path int true "Product ID"
// @Param        request body inventoryapp.SetStockRequest true "New quantity"
// @Success      200 {object} dto.Response{data=inventoryapp.StockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/inventory/{product_id} [put]
func (h *InventoryHandler) SetStock(c *gin.Context) {
	productID, ok := h.idParam(c, "product_id")
	if !ok {
		return
	}
	var req inventoryapp.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	stock, err := h.inventory.SetStock(c.Request.Context(), productID, *req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stock)
}
