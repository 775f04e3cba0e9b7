package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bank-management-core/internal/bank"
	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/interest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerCustomer(t *testing.T, b *bank.Bank) string {
	t.Helper()
	c, err := b.RegisterPersonalCustomer(context.Background(), "Ada", "Lovelace", "12 Analytical Lane", "NID-001")
	require.NoError(t, err)
	return c.ID()
}

func TestAccountHandler_Open(t *testing.T) {
	r, b := newTestRouter(t)
	customerID := registerCustomer(t, b)

	t.Run("savings account", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/customers/"+customerID+"/accounts", OpenAccountRequest{
			Type:           "SAVINGS",
			Branch:         "Main Street",
			OpeningBalance: 1000,
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.NotEmpty(t, resp.Number)
		assert.Equal(t, "SAVINGS", resp.Type)
		assert.Equal(t, int64(1000), resp.Balance)
		assert.False(t, resp.Closed)
	})

	t.Run("cheque account carries employer data", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/customers/"+customerID+"/accounts", OpenAccountRequest{
			Type:            "CHEQUE",
			Branch:          "Main Street",
			OpeningBalance:  5000,
			EmployerName:    "Acme Ltd",
			EmployerAddress: "1 Industrial Way",
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "Acme Ltd", resp.EmployerName)
	})

	t.Run("investment below minimum rejected", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/customers/"+customerID+"/accounts", OpenAccountRequest{
			Type:           "INVESTMENT",
			Branch:         "Main Street",
			OpeningBalance: 49999,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/customers/CUST-MISSING/accounts", OpenAccountRequest{
			Type:           "SAVINGS",
			Branch:         "Main Street",
			OpeningBalance: 1000,
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		require.NotNil(t, env.Error)
	})
}

func TestAccountHandler_DepositAndWithdraw(t *testing.T) {
	r, b := newTestRouter(t)
	customerID := registerCustomer(t, b)

	acc, err := b.OpenAccount(context.Background(), customerID, account.TypeInvestment, "Main Street", 100000, "", "")
	require.NoError(t, err)

	t.Run("deposit", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/accounts/"+acc.Number()+"/deposits", AmountRequest{Amount: 2500, Note: "payday"})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, int64(102500), resp.Balance)
	})

	t.Run("withdraw", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/accounts/"+acc.Number()+"/withdrawals", AmountRequest{Amount: 500})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, int64(102000), resp.Balance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/accounts/"+acc.Number()+"/withdrawals", AmountRequest{Amount: 1_000_000})
		assert.Equal(t, http.StatusConflict, rr.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)
	})

	t.Run("non-positive amount rejected by binding", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/accounts/"+acc.Number()+"/deposits", AmountRequest{Amount: 0})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		require.NotNil(t, env.Error)
	})

	t.Run("unknown account", func(t *testing.T) {
		rr, env := doJSON(t, r, http.MethodPost, "/api/v1/accounts/INV-MISSING/deposits", AmountRequest{Amount: 100})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		require.NotNil(t, env.Error)
	})
}

func TestAccountHandler_SavingsWithdrawalDenied(t *testing.T) {
	r, b := newTestRouter(t)
	customerID := registerCustomer(t, b)

	acc, err := b.OpenAccount(context.Background(), customerID, account.TypeSavings, "Main Street", 5000, "", "")
	require.NoError(t, err)

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/accounts/"+acc.Number()+"/withdrawals", AmountRequest{Amount: 1000})
	assert.Equal(t, http.StatusConflict, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "WITHDRAWAL_NOT_SUPPORTED", env.Error.Code)

	// The denied attempt shows up in the ledger.
	rr, env = doJSON(t, r, http.MethodGet, "/api/v1/accounts/"+acc.Number()+"/transactions", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp TransactionListResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "WITHDRAW_ATTEMPT", resp.Transactions[0].Type)
	assert.Equal(t, int64(0), resp.Transactions[0].Amount)
}

func TestAccountHandler_Close(t *testing.T) {
	r, b := newTestRouter(t)
	customerID := registerCustomer(t, b)

	acc, err := b.OpenAccount(context.Background(), customerID, account.TypeInvestment, "Main Street", 100000, "", "")
	require.NoError(t, err)

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/accounts/"+acc.Number()+"/close", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp AccountResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Closed)

	rr, env = doJSON(t, r, http.MethodPost, "/api/v1/accounts/"+acc.Number()+"/deposits", AmountRequest{Amount: 100})
	assert.Equal(t, http.StatusConflict, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ACCOUNT_CLOSED", env.Error.Code)
}

func TestAccountHandler_RunInterest(t *testing.T) {
	r, b := newTestRouter(t)
	customerID := registerCustomer(t, b)

	_, err := b.OpenAccount(context.Background(), customerID, account.TypeInvestment, "Main Street", 100000, "", "")
	require.NoError(t, err)
	_, err = b.OpenAccount(context.Background(), customerID, account.TypeCheque, "Main Street", 100000, "Acme Ltd", "1 Industrial Way")
	require.NoError(t, err)

	rr, env := doJSON(t, r, http.MethodPost, "/api/v1/interest-runs", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var summary interest.Summary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.AccountsSeen)
	assert.Equal(t, 1, summary.Credited)
	assert.Equal(t, int64(5000), summary.TotalInterest)
}
