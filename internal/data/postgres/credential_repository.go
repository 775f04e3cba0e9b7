package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-management-core/internal/domain/customer"
	"github.com/bank-management-core/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// CredentialRepository persists login credentials keyed by customer_id.
type CredentialRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewCredentialRepository creates a repository backed by the connection pool.
func NewCredentialRepository(logger *slog.Logger, db *persistence.PostgresDB) *CredentialRepository {
	return &CredentialRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a copy of the repository that runs all statements on the
// given transaction.
func (r *CredentialRepository) WithTx(tx pgx.Tx) *CredentialRepository {
	return &CredentialRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Upsert writes the credential row keyed by customer_id.
func (r *CredentialRepository) Upsert(ctx context.Context, cred *customer.Credentials) error {
	query := `
		INSERT INTO customer_credentials (customer_id, username, password, email, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id) DO UPDATE
		SET username = EXCLUDED.username,
			password = EXCLUDED.password,
			email = EXCLUDED.email,
			is_active = EXCLUDED.is_active
	`

	_, err := r.querier.Exec(ctx, query,
		cred.CustomerID,
		cred.Username,
		cred.Password,
		cred.Email,
		cred.Active,
	)
	if err != nil {
		r.logger.Error("Failed to upsert credentials", "customerID", cred.CustomerID, "error", err)
		return fmt.Errorf("failed to upsert credentials: %w", err)
	}

	return nil
}

// LoadAll reloads every credential row ordered by customer_id.
func (r *CredentialRepository) LoadAll(ctx context.Context) ([]*customer.Credentials, error) {
	query := `
		SELECT customer_id, username, password, email, is_active
		FROM customer_credentials
		ORDER BY customer_id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query credentials", "error", err)
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var creds []*customer.Credentials
	for rows.Next() {
		var cred customer.Credentials
		if err := rows.Scan(&cred.CustomerID, &cred.Username, &cred.Password, &cred.Email, &cred.Active); err != nil {
			return nil, fmt.Errorf("failed to scan credential row: %w", err)
		}
		creds = append(creds, &cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credential rows: %w", err)
	}

	return creds, nil
}
