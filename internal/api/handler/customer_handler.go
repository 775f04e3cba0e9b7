package handler

import (
	"errors"
	"log/slog"

	"github.com/bank-management-core/internal/bank"
	"github.com/bank-management-core/internal/domain/customer"
	"github.com/bank-management-core/internal/storage"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles HTTP requests for customer operations
type CustomerHandler struct {
	bank   *bank.Bank
	logger *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(logger *slog.Logger, b *bank.Bank) *CustomerHandler {
	return &CustomerHandler{
		bank:   b,
		logger: logger,
	}
}

// Create registers a personal or company customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var (
		cust *customer.Customer
		err  error
	)
	switch customer.Kind(req.Kind) {
	case customer.KindPersonal:
		cust, err = h.bank.RegisterPersonalCustomer(c.Request.Context(), req.FirstName, req.LastName, req.Address, req.NationalID)
	case customer.KindCompany:
		cust, err = h.bank.RegisterCompanyCustomer(c.Request.Context(), req.FirstName, req.LastName, req.Address, req.CompanyName, req.CompanyAddress)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	RespondCreated(c, mapCustomerToResponse(cust))
}

// List returns every registered customer
func (h *CustomerHandler) List(c *gin.Context) {
	customers := h.bank.Customers()
	responses := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		responses[i] = mapCustomerToResponse(cust)
	}
	RespondOK(c, responses)
}

// GetByID retrieves a customer, returning 404 if unknown
func (h *CustomerHandler) GetByID(c *gin.Context) {
	cust, err := h.bank.Customer(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapCustomerToResponse(cust))
}

// UpdateProfile replaces the customer's mutable identity fields
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cust, err := h.bank.UpdateCustomerProfile(c.Request.Context(), c.Param("id"), req.FirstName, req.LastName, req.Address)
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapCustomerToResponse(cust))
}

// SetCredentials creates or replaces the customer's login credentials
func (h *CustomerHandler) SetCredentials(c *gin.Context) {
	var req SetCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cred, err := h.bank.SetCredentials(c.Request.Context(), c.Param("id"), req.Username, req.Password, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapCredentialsToResponse(cred))
}

// LinkAccount attaches an external account reference to the customer
func (h *CustomerHandler) LinkAccount(c *gin.Context) {
	var req LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.bank.LinkAccount(c.Request.Context(), c.Param("id"), req.AccountNumber); err != nil {
		h.respondError(c, err)
		return
	}
	RespondNoContent(c)
}

// UnlinkAccount drops an external account reference from the customer
func (h *CustomerHandler) UnlinkAccount(c *gin.Context) {
	if err := h.bank.UnlinkAccount(c.Request.Context(), c.Param("id"), c.Param("number")); err != nil {
		h.respondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *CustomerHandler) respondError(c *gin.Context, err error) {
	var notFound bank.ErrCustomerNotFound
	switch {
	case errors.As(err, &notFound):
		RespondNotFound(c, "Customer not found")
	case errors.Is(err, storage.ErrUnavailable):
		h.logger.Error("Storage backend failure", "error", err)
		RespondServiceUnavailable(c, "State could not be persisted")
	default:
		h.logger.Error("Customer operation failed", "error", err)
		RespondInternalError(c)
	}
}
