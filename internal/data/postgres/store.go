package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/domain/customer"
	"github.com/bank-management-core/internal/domain/ledger"
	"github.com/bank-management-core/internal/platform/persistence"
	"github.com/bank-management-core/internal/storage"
	"github.com/jackc/pgx/v5"
)

// LedgerArchive persists per-account transaction history outside the
// relational schema. The accounts table only carries current balances, so
// without an archive the ledger does not survive a restart.
type LedgerArchive interface {
	ReplaceAccountLedger(ctx context.Context, accountNumber string, transactions []ledger.Transaction) error
	AccountLedger(ctx context.Context, accountNumber string) ([]ledger.Transaction, error)
}

// Store implements storage.Store on PostgreSQL. Customer, account and
// credential rows are upserted in one transaction per Save; an optional
// ledger archive mirrors each account's transaction history after commit.
type Store struct {
	db          *persistence.PostgresDB
	logger      *slog.Logger
	customers   *CustomerRepository
	accounts    *AccountRepository
	credentials *CredentialRepository
	archive     LedgerArchive // nil when the archive is disabled
}

var _ storage.Store = (*Store)(nil)

// New creates a relational store. Pass a nil archive to skip ledger
// persistence.
func New(logger *slog.Logger, db *persistence.PostgresDB, archive LedgerArchive) *Store {
	return &Store{
		db:          db,
		logger:      logger,
		customers:   NewCustomerRepository(logger, db),
		accounts:    NewAccountRepository(logger, db),
		credentials: NewCredentialRepository(logger, db),
		archive:     archive,
	}
}

// Save upserts the full customer graph in a single transaction, then mirrors
// each account's ledger to the archive. An archive failure after commit is
// reported, but the relational rows are already durable at that point.
func (s *Store) Save(ctx context.Context, customers []*customer.Customer, credentials []*customer.Credentials) error {
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		customerRepo := s.customers.WithTx(tx)
		accountRepo := s.accounts.WithTx(tx)
		credentialRepo := s.credentials.WithTx(tx)

		for _, c := range customers {
			if err := customerRepo.Upsert(ctx, c); err != nil {
				return err
			}
			for _, a := range c.Accounts() {
				if err := accountRepo.Upsert(ctx, account.Stored(a)); err != nil {
					return err
				}
			}
		}
		for _, cred := range credentials {
			if err := credentialRepo.Upsert(ctx, cred); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	if s.archive == nil {
		return nil
	}
	for _, c := range customers {
		for _, a := range c.Accounts() {
			if err := s.archive.ReplaceAccountLedger(ctx, a.Number(), a.Transactions()); err != nil {
				return fmt.Errorf("%w: archiving ledger for %s: %w", storage.ErrUnavailable, a.Number(), err)
			}
		}
	}

	return nil
}

// Load rebuilds the full customer graph. Accounts whose owner is missing are
// dropped with a warning; ledgers come back from the archive when one is
// configured, otherwise accounts reload with empty histories.
func (s *Store) Load(ctx context.Context) ([]*customer.Customer, []*customer.Credentials, error) {
	customers, err := s.customers.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	byID := make(map[string]*customer.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID()] = c
	}

	states, err := s.accounts.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	for _, st := range states {
		owner, ok := byID[st.CustomerID]
		if !ok {
			s.logger.Warn("Dropping account with unknown owner", "accountNumber", st.Number, "customerID", st.CustomerID)
			continue
		}
		if s.archive != nil {
			st.Transactions, err = s.archive.AccountLedger(ctx, st.Number)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: loading ledger for %s: %w", storage.ErrUnavailable, st.Number, err)
			}
		}
		acc, err := account.Restore(st)
		if err != nil {
			s.logger.Warn("Dropping unreadable account row", "accountNumber", st.Number, "error", err)
			continue
		}
		owner.AddAccount(acc)
	}

	credentials, err := s.credentials.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	return customers, credentials, nil
}
