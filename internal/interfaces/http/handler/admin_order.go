package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
)

// AdminOrderHandler serves the operator queues and transitions
type AdminOrderHandler struct {
	BaseHandler
	orders *orderapp.OrderService
}

// NewAdminOrderHandler creates a new AdminOrderHandler
func NewAdminOrderHandler(orders *orderapp.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

// Queue godoc
// @Summary      List order queue
// @Description  List purchases in one status, pending by default, oldest first
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        status query string false "Queue status" Enums(pending, processing, delivering, completed, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]orderapp.PurchaseListItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *AdminOrderHandler) Queue(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.orders.ListByStatus(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Counts godoc
// @Summary      Count orders by status
// @Description  Return the size of every status queue
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=orderapp.StatusCountsResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/counts [get]
func (h *AdminOrderHandler) Counts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	counts, err := h.orders.CountByStatus(c.Request.Context(), actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, counts)
}

// Transition godoc
// @Summary      Apply order transition
// @Description  Apply approve, reject, advance or complete to a purchase
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path int true "Purchase ID"
// @Param        request body orderapp.TransitionInput true "Transition event"
// @Success      200 {object} dto.Response{data=orderapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/transitions [post]
func (h *AdminOrderHandler) Transition(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var in orderapp.TransitionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}

	purchase, err := h.orders.Transition(c.Request.Context(), id, actor, in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, purchase)
}
