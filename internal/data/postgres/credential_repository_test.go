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

func TestCredentialRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CredentialRepository{querier: mock, logger: logger}

	cred := customer.NewCredentials("CUST-00000001", "ada", "secret", "ada@example.com")

	query := `
		INSERT INTO customer_credentials \(customer_id, username, password, email, is_active\)
		VALUES \(\$1, \$2, \$3, \$4, \$5\)
		ON CONFLICT \(customer_id\) DO UPDATE
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(cred.CustomerID, cred.Username, cred.Password, cred.Email, cred.Active).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Upsert(ctx, cred)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(cred.CustomerID, cred.Username, cred.Password, cred.Email, cred.Active).
			WillReturnError(expectedErr)

		err := repo.Upsert(ctx, cred)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upsert credentials")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCredentialRepository_LoadAll(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CredentialRepository{querier: mock, logger: logger}

	query := `
		SELECT customer_id, username, password, email, is_active
		FROM customer_credentials
		ORDER BY customer_id
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"customer_id", "username", "password", "email", "is_active"}).
			AddRow("CUST-00000001", "ada", "secret", "ada@example.com", true).
			AddRow("CUST-00000002", "grace", "hunter2", "grace@example.com", false)
		mock.ExpectQuery(query).WillReturnRows(rows)

		creds, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, creds, 2)
		assert.Equal(t, "ada", creds[0].Username)
		assert.True(t, creds[0].Active)
		assert.False(t, creds[1].Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WillReturnError(expectedErr)

		creds, err := repo.LoadAll(ctx)
		assert.Error(t, err)
		assert.Nil(t, creds)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
