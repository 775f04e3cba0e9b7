package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// AccountRepository persists account rows keyed by account_number. It works
// on the flattened stored form so the polymorphic variants all map onto the
// same table.
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a repository backed by the connection pool.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) *AccountRepository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a copy of the repository that runs all statements on the
// given transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Upsert writes the account row keyed by account_number. Employer fields are
// empty for non-cheque variants.
func (r *AccountRepository) Upsert(ctx context.Context, st account.StoredState) error {
	query := `
		INSERT INTO accounts (account_number, customer_id, account_type, balance, branch, is_closed, employer_name, employer_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_number) DO UPDATE
		SET customer_id = EXCLUDED.customer_id,
			account_type = EXCLUDED.account_type,
			balance = EXCLUDED.balance,
			branch = EXCLUDED.branch,
			is_closed = EXCLUDED.is_closed,
			employer_name = EXCLUDED.employer_name,
			employer_address = EXCLUDED.employer_address
	`

	_, err := r.querier.Exec(ctx, query,
		st.Number,
		st.CustomerID,
		string(st.Type),
		st.Balance,
		st.Branch,
		st.Closed,
		st.EmployerName,
		st.EmployerAddress,
	)
	if err != nil {
		r.logger.Error("Failed to upsert account", "accountNumber", st.Number, "error", err)
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	return nil
}

// LoadAll reloads every account row ordered by account_number. Ledgers are
// not stored in this table; StoredState.Transactions is left empty.
func (r *AccountRepository) LoadAll(ctx context.Context) ([]account.StoredState, error) {
	query := `
		SELECT account_number, customer_id, account_type, balance, branch, is_closed, employer_name, employer_address
		FROM accounts
		ORDER BY account_number
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query accounts", "error", err)
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var states []account.StoredState
	for rows.Next() {
		var (
			st  account.StoredState
			typ string
		)
		if err := rows.Scan(&st.Number, &st.CustomerID, &typ, &st.Balance, &st.Branch, &st.Closed, &st.EmployerName, &st.EmployerAddress); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		st.Type = account.Type(typ)
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}

	return states, nil
}
