package handler

import (
	"errors"
	"log/slog"

	"github.com/bank-management-core/internal/bank"
	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/domain/shared"
	"github.com/bank-management-core/internal/interest"
	"github.com/bank-management-core/internal/storage"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles HTTP requests for account operations and the
// interest accrual trigger
type AccountHandler struct {
	bank   *bank.Bank
	engine *interest.Engine
	logger *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, b *bank.Bank, engine *interest.Engine) *AccountHandler {
	return &AccountHandler{
		bank:   b,
		engine: engine,
		logger: logger,
	}
}

// Open creates an account of the requested type for a customer
func (h *AccountHandler) Open(c *gin.Context) {
	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.bank.OpenAccount(c.Request.Context(), c.Param("id"), account.Type(req.Type), req.Branch, req.OpeningBalance, req.EmployerName, req.EmployerAddress)
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByNumber retrieves an account, returning 404 if unknown
func (h *AccountHandler) GetByNumber(c *gin.Context) {
	acc, err := h.bank.Account(c.Param("number"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Deposit credits an account
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.bank.Deposit(c.Request.Context(), c.Param("number"), req.Amount, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Withdraw debits an account if its variant permits
func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.bank.Withdraw(c.Request.Context(), c.Param("number"), req.Amount, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Close marks an account closed
func (h *AccountHandler) Close(c *gin.Context) {
	acc, err := h.bank.CloseAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Transactions returns the account's ledger in chronological order
func (h *AccountHandler) Transactions(c *gin.Context) {
	number := c.Param("number")
	txs, err := h.bank.AccountTransactions(number)
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = mapTransactionToResponse(tx)
	}
	RespondOK(c, TransactionListResponse{AccountNumber: number, Transactions: responses})
}

// RunInterest triggers one interest accrual pass over all accounts
func (h *AccountHandler) RunInterest(c *gin.Context) {
	summary, err := h.engine.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("Interest accrual pass failed to persist", "error", err)
		RespondServiceUnavailable(c, "Accrual applied in memory but could not be persisted")
		return
	}
	RespondOK(c, summary)
}

func (h *AccountHandler) respondError(c *gin.Context, err error) {
	var accountNotFound bank.ErrAccountNotFound
	var customerNotFound bank.ErrCustomerNotFound
	switch {
	case errors.As(err, &accountNotFound):
		RespondNotFound(c, "Account not found")
	case errors.As(err, &customerNotFound):
		RespondNotFound(c, "Customer not found")
	case errors.Is(err, account.ErrInvalidConfiguration),
		errors.Is(err, account.ErrUnknownType),
		errors.Is(err, shared.ErrInvalidAmount):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, account.ErrAccountClosed):
		RespondConflict(c, "ACCOUNT_CLOSED", "Account is closed")
	case errors.Is(err, account.ErrInsufficientFunds):
		RespondConflict(c, "INSUFFICIENT_FUNDS", "Insufficient funds for withdrawal")
	case errors.Is(err, account.ErrWithdrawalNotSupported):
		RespondConflict(c, "WITHDRAWAL_NOT_SUPPORTED", "This account type does not permit withdrawals")
	case errors.Is(err, storage.ErrUnavailable):
		h.logger.Error("Storage backend failure", "error", err)
		RespondServiceUnavailable(c, "State could not be persisted")
	default:
		h.logger.Error("Account operation failed", "error", err)
		RespondInternalError(c)
	}
}
