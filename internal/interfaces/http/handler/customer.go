package handler

import (
	"github.com/gin-gonic/gin"
	customerapp "github.com/storefront/backend/internal/application/customer"
)

// CustomerHandler serves the caller's profile and address book
type CustomerHandler struct {
	BaseHandler
	customers *customerapp.AddressResolver
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *customerapp.AddressResolver) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// GetProfile godoc
// @Summary      Get my profile
// @Description  Return the caller's profile and which fields are still missing
// @Tags         profile
// @Produce      json
// @Success      200 {object} dto.Response{data=customerapp.ProfileResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /profile [get]
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	profile, err := h.customers.GetProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile godoc
// @Summary      Update my profile
// @Description  Replace name and phone. The name is mirrored onto every address
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body customerapp.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=customerapp.ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /profile [put]
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req customerapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	profile, err := h.customers.UpdateProfile(c.Request.Context(), actor.UserID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, profile)
}

// ListAddresses godoc
// @Summary      List my addresses
// @Description  List the caller's address book ordered by ID
// @Tags         addresses
// @Produce      json
// @Success      200 {object} dto.Response{data=[]customerapp.AddressResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses [get]
func (h *CustomerHandler) ListAddresses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	addresses, err := h.customers.ListAddresses(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if addresses == nil {
		addresses = []customerapp.AddressResponse{}
	}
	h.Success(c, addresses)
}

// CreateAddress godoc
// @Summary      Create address
// @Description  Add an address. The first address becomes the default
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateAddressRequest true "Address"
// @Success      201 {object} dto.Response{data=customerapp.AddressResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses [post]
func (h *CustomerHandler) CreateAddress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req customerapp.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	address, err := h.customers.CreateAddress(c.Request.Context(), actor.UserID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, address)
}

// UpdateAddress godoc
// @Summary      Update address
// @Description  Replace the postal fields of one of the caller's addresses
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        id path int true "Address ID"
// @Param        request body customerapp.AddressRequest true "Postal fields"
// @Success      200 {object} dto.Response{data=customerapp.AddressResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses/{id} [put]
func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req customerapp.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	address, err := h.customers.UpdateAddress(c.Request.Context(), actor.UserID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, address)
}

// DeleteAddress godoc
// @Summary      Delete address
// @Description  Delete an address. Deleting the default promotes the lowest remaining ID
// @Tags         addresses
// @Produce      json
// @Param        id path int true "Address ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses/{id} [delete]
func (h *CustomerHandler) DeleteAddress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.customers.DeleteAddress(c.Request.Context(), actor.UserID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// SetDefaultAddress godoc
// @Summary      Set default address
// @Description  Make an address the caller's only default
// @Tags         addresses
// @Produce      json
// @Param        id path int true "Address ID"
// @Success      200 {object} dto.Response{data=customerapp.AddressResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses/{id}/default [post]
func (h *CustomerHandler) SetDefaultAddress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.customers.SetDefault(c.Request.Context(), actor.UserID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	address, err := h.customers.GetAddress(c.Request.Context(), actor.UserID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, address)
}
