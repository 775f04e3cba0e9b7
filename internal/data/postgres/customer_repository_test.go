package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/bank-management-core/internal/domain/customer"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerUpsertQuery = `
		INSERT INTO customers \(customer_id, first_name, last_name, address, customer_type, national_id, company_name, company_address\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)
		ON CONFLICT \(customer_id\) DO UPDATE
	`

func TestCustomerRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CustomerRepository{querier: mock, logger: logger}

	c := customer.NewPersonal("Ada", "Lovelace", "12 Analytical Lane", "NID-001")
	c.AddLinkedAccount("SAV-11111111")
	c.AddLinkedAccount("CHQ-22222222")

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(customerUpsertQuery).
			WithArgs(c.ID(), "Ada", "Lovelace", "12 Analytical Lane", "PERSONAL", "NID-001", "", "").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`DELETE FROM linked_accounts WHERE customer_id = \$1`).
			WithArgs(c.ID()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(`INSERT INTO linked_accounts \(customer_id, linked_account_number\) VALUES \(\$1, \$2\)`).
			WithArgs(c.ID(), "SAV-11111111").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO linked_accounts \(customer_id, linked_account_number\) VALUES \(\$1, \$2\)`).
			WithArgs(c.ID(), "CHQ-22222222").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Upsert(ctx, c)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("customer row failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(customerUpsertQuery).
			WithArgs(c.ID(), "Ada", "Lovelace", "12 Analytical Lane", "PERSONAL", "NID-001", "", "").
			WillReturnError(expectedErr)

		err := repo.Upsert(ctx, c)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upsert customer")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("linked account failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(customerUpsertQuery).
			WithArgs(c.ID(), "Ada", "Lovelace", "12 Analytical Lane", "PERSONAL", "NID-001", "", "").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`DELETE FROM linked_accounts WHERE customer_id = \$1`).
			WithArgs(c.ID()).
			WillReturnError(expectedErr)

		err := repo.Upsert(ctx, c)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to clear linked accounts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCustomerRepository_LoadAll(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CustomerRepository{querier: mock, logger: logger}

	customersQuery := `
		SELECT customer_id, first_name, last_name, address, customer_type, national_id, company_name, company_address
		FROM customers
		ORDER BY customer_id
	`
	linkedQuery := `
		SELECT customer_id, linked_account_number
		FROM linked_accounts
		ORDER BY customer_id, linked_account_number
	`

	t.Run("success", func(t *testing.T) {
		customerRows := pgxmock.NewRows([]string{"customer_id", "first_name", "last_name", "address", "customer_type", "national_id", "company_name", "company_address"}).
			AddRow("CUST-00000001", "Ada", "Lovelace", "12 Analytical Lane", "PERSONAL", "NID-001", "", "").
			AddRow("CUST-00000002", "Grace", "Hopper", "7 Compiler Road", "COMPANY", "", "Flow-Matic Inc", "1 Harbor Way")
		linkedRows := pgxmock.NewRows([]string{"customer_id", "linked_account_number"}).
			AddRow("CUST-00000001", "SAV-11111111")
		mock.ExpectQuery(customersQuery).WillReturnRows(customerRows)
		mock.ExpectQuery(linkedQuery).WillReturnRows(linkedRows)

		customers, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "CUST-00000001", customers[0].ID())
		assert.Equal(t, customer.KindPersonal, customers[0].Kind())
		assert.Equal(t, []string{"SAV-11111111"}, customers[0].LinkedAccounts())
		assert.Equal(t, customer.KindCompany, customers[1].Kind())
		assert.Equal(t, "Flow-Matic Inc", customers[1].CompanyName())
		assert.Empty(t, customers[1].LinkedAccounts())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(customersQuery).WillReturnError(expectedErr)

		customers, err := repo.LoadAll(ctx)
		assert.Error(t, err)
		assert.Nil(t, customers)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
