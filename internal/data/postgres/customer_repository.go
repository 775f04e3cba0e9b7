// Package postgres provides the relational storage backend. Every entity is
// written with upsert semantics keyed on its natural identifier and reloaded
// with SELECT-all ordered by that key, so a save followed by a load rebuilds
// the same customer graph.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-management-core/internal/domain/customer"
	"github.com/bank-management-core/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// CustomerRepository persists customer identity rows and the linked-account
// reference list.
type CustomerRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewCustomerRepository creates a repository backed by the connection pool.
func NewCustomerRepository(logger *slog.Logger, db *persistence.PostgresDB) *CustomerRepository {
	return &CustomerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a copy of the repository that runs all statements on the
// given transaction.
func (r *CustomerRepository) WithTx(tx pgx.Tx) *CustomerRepository {
	return &CustomerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Upsert writes the customer row keyed by customer_id and replaces its
// linked-account list. The list is deleted and reinserted wholesale because
// it carries no identity of its own.
func (r *CustomerRepository) Upsert(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (customer_id, first_name, last_name, address, customer_type, national_id, company_name, company_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (customer_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			address = EXCLUDED.address,
			customer_type = EXCLUDED.customer_type,
			national_id = EXCLUDED.national_id,
			company_name = EXCLUDED.company_name,
			company_address = EXCLUDED.company_address
	`

	_, err := r.querier.Exec(ctx, query,
		c.ID(),
		c.FirstName(),
		c.LastName(),
		c.Address(),
		string(c.Kind()),
		c.NationalID(),
		c.CompanyName(),
		c.CompanyAddress(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert customer", "customerID", c.ID(), "error", err)
		return fmt.Errorf("failed to upsert customer: %w", err)
	}

	if err := r.replaceLinkedAccounts(ctx, c.ID(), c.LinkedAccounts()); err != nil {
		return err
	}

	return nil
}

func (r *CustomerRepository) replaceLinkedAccounts(ctx context.Context, customerID string, linked []string) error {
	if _, err := r.querier.Exec(ctx, `DELETE FROM linked_accounts WHERE customer_id = $1`, customerID); err != nil {
		r.logger.Error("Failed to clear linked accounts", "customerID", customerID, "error", err)
		return fmt.Errorf("failed to clear linked accounts: %w", err)
	}

	for _, number := range linked {
		_, err := r.querier.Exec(ctx,
			`INSERT INTO linked_accounts (customer_id, linked_account_number) VALUES ($1, $2)`,
			customerID, number,
		)
		if err != nil {
			r.logger.Error("Failed to insert linked account", "customerID", customerID, "number", number, "error", err)
			return fmt.Errorf("failed to insert linked account: %w", err)
		}
	}

	return nil
}

// LoadAll reloads every customer ordered by customer_id, with linked-account
// lists attached. Accounts are loaded separately and attached by the caller.
func (r *CustomerRepository) LoadAll(ctx context.Context) ([]*customer.Customer, error) {
	query := `
		SELECT customer_id, first_name, last_name, address, customer_type, national_id, company_name, company_address
		FROM customers
		ORDER BY customer_id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query customers", "error", err)
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*customer.Customer
	for rows.Next() {
		var (
			id, firstName, lastName, address        string
			kind                                    string
			nationalID, companyName, companyAddress string
		)
		if err := rows.Scan(&id, &firstName, &lastName, &address, &kind, &nationalID, &companyName, &companyAddress); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, customer.Restore(id, customer.Kind(kind), firstName, lastName, address, nationalID, companyName, companyAddress))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customer rows: %w", err)
	}

	linked, err := r.loadLinkedAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		for _, number := range linked[c.ID()] {
			c.AddLinkedAccount(number)
		}
	}

	return customers, nil
}

func (r *CustomerRepository) loadLinkedAccounts(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT customer_id, linked_account_number
		FROM linked_accounts
		ORDER BY customer_id, linked_account_number
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query linked accounts", "error", err)
		return nil, fmt.Errorf("failed to query linked accounts: %w", err)
	}
	defer rows.Close()

	linked := make(map[string][]string)
	for rows.Next() {
		var customerID, number string
		if err := rows.Scan(&customerID, &number); err != nil {
			return nil, fmt.Errorf("failed to scan linked account row: %w", err)
		}
		linked[customerID] = append(linked[customerID], number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate linked account rows: %w", err)
	}

	return linked, nil
}
