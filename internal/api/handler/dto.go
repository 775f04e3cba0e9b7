package handler

import (
	"time"

	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/domain/customer"
	"github.com/bank-management-core/internal/domain/ledger"
)

// CreateCustomerRequest represents a request to register a customer. Personal
// customers carry a national ID; company customers carry company details.
type CreateCustomerRequest struct {
	Kind           string `json:"kind" binding:"required,oneof=PERSONAL COMPANY"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Address        string `json:"address" binding:"required"`
	NationalID     string `json:"national_id,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	CompanyAddress string `json:"company_address,omitempty"`
}

// UpdateProfileRequest represents a request to change customer identity data
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Address   string `json:"address" binding:"required"`
}

// SetCredentialsRequest represents a request to create or replace login credentials
type SetCredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// LinkAccountRequest represents a request to attach an external account reference
type LinkAccountRequest struct {
	AccountNumber string `json:"account_number" binding:"required"`
}

// OpenAccountRequest represents a request to open an account for a customer.
// Amounts are in cents. Employer fields are required for CHEQUE accounts.
type OpenAccountRequest struct {
	Type            string `json:"type" binding:"required,oneof=SAVINGS INVESTMENT CHEQUE"`
	Branch          string `json:"branch" binding:"required"`
	OpeningBalance  int64  `json:"opening_balance" binding:"min=0"`
	EmployerName    string `json:"employer_name,omitempty"`
	EmployerAddress string `json:"employer_address,omitempty"`
}

// AmountRequest represents a deposit or withdrawal, amount in cents
type AmountRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Note   string `json:"note,omitempty"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             string            `json:"id"`
	Kind           string            `json:"kind"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Address        string            `json:"address"`
	NationalID     string            `json:"national_id,omitempty"`
	CompanyName    string            `json:"company_name,omitempty"`
	CompanyAddress string            `json:"company_address,omitempty"`
	LinkedAccounts []string          `json:"linked_accounts,omitempty"`
	Accounts       []AccountResponse `json:"accounts"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	Number          string `json:"number"`
	CustomerID      string `json:"customer_id"`
	Type            string `json:"type"`
	Balance         int64  `json:"balance"`
	Branch          string `json:"branch"`
	Closed          bool   `json:"closed"`
	EmployerName    string `json:"employer_name,omitempty"`
	EmployerAddress string `json:"employer_address,omitempty"`
}

// CredentialsResponse represents credentials in API responses. The password
// is never echoed back.
type CredentialsResponse struct {
	CustomerID string `json:"customer_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Active     bool   `json:"active"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
	Type          string `json:"type"`
	Timestamp     string `json:"timestamp"`
	Note          string `json:"note,omitempty"`
}

// TransactionListResponse represents an account's ledger in API responses
type TransactionListResponse struct {
	AccountNumber string                `json:"account_number"`
	Transactions  []TransactionResponse `json:"transactions"`
}

func mapCustomerToResponse(c *customer.Customer) CustomerResponse {
	accounts := c.Accounts()
	accountResponses := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		accountResponses[i] = mapAccountToResponse(a)
	}
	return CustomerResponse{
		ID:             c.ID(),
		Kind:           string(c.Kind()),
		FirstName:      c.FirstName(),
		LastName:       c.LastName(),
		Address:        c.Address(),
		NationalID:     c.NationalID(),
		CompanyName:    c.CompanyName(),
		CompanyAddress: c.CompanyAddress(),
		LinkedAccounts: c.LinkedAccounts(),
		Accounts:       accountResponses,
	}
}

func mapAccountToResponse(a account.Account) AccountResponse {
	resp := AccountResponse{
		Number:     a.Number(),
		CustomerID: a.CustomerID(),
		Type:       string(a.Type()),
		Balance:    a.Balance(),
		Branch:     a.Branch(),
		Closed:     a.Closed(),
	}
	if cheque, ok := a.(*account.Cheque); ok {
		resp.EmployerName = cheque.EmployerName()
		resp.EmployerAddress = cheque.EmployerAddress()
	}
	return resp
}

func mapCredentialsToResponse(cred *customer.Credentials) CredentialsResponse {
	return CredentialsResponse{
		CustomerID: cred.CustomerID,
		Username:   cred.Username,
		Email:      cred.Email,
		Active:     cred.Active,
	}
}

func mapTransactionToResponse(tx ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		AccountNumber: tx.AccountNumber,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Timestamp:     tx.Timestamp.Format(time.RFC3339),
		Note:          tx.Note,
	}
}
