// Package bank holds the in-memory working set of customers and credentials
// and coordinates every operation against it: account opening, deposits,
// withdrawals, closing, and the save/load lifecycle against the configured
// storage backend. State is loaded once at startup and written back after
// every mutating operation.
package bank

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bank-management-core/internal/audit"
	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/domain/customer"
	"github.com/bank-management-core/internal/domain/ledger"
	"github.com/bank-management-core/internal/domain/shared"
	"github.com/bank-management-core/internal/storage"
)

// ErrCustomerNotFound indicates a lookup for an unknown customer ID.
type ErrCustomerNotFound struct {
	CustomerID string
}

func (e ErrCustomerNotFound) Error() string {
	return "customer not found: " + e.CustomerID
}

// ErrAccountNotFound indicates a lookup for an unknown account number.
type ErrAccountNotFound struct {
	Number string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.Number
}

const auditActor = "system"

// Bank is the working set plus its collaborators. All exported methods are
// safe for concurrent use; the mutex serializes every operation, matching
// the single-logical-actor model the storage contract assumes.
type Bank struct {
	mu     sync.Mutex
	store  storage.Store
	audit  *audit.Logger
	logger *slog.Logger

	customers   []*customer.Customer
	credentials []*customer.Credentials
}

// New creates an empty bank over the given storage backend.
func New(logger *slog.Logger, store storage.Store, auditLog *audit.Logger) *Bank {
	return &Bank{
		store:  store,
		audit:  auditLog,
		logger: logger,
	}
}

// Load replaces the working set with the stored one. On failure the working
// set is reset to empty and the error is returned; the caller decides
// whether an empty start is acceptable.
func (b *Bank) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	customers, credentials, err := b.store.Load(ctx)
	if err != nil {
		b.customers = nil
		b.credentials = nil
		return fmt.Errorf("loading bank state: %w", err)
	}

	b.customers = customers
	b.credentials = credentials
	b.logger.Info("bank state loaded", "customers", len(customers), "credentials", len(credentials))
	return nil
}

// Save writes the full working set to the backend.
func (b *Bank) Save(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveLocked(ctx)
}

// saveLocked persists the working set. A failure leaves the in-memory state
// untouched; the mutation that triggered the save stays applied.
func (b *Bank) saveLocked(ctx context.Context) error {
	if err := b.store.Save(ctx, b.customers, b.credentials); err != nil {
		b.logger.Warn("failed to persist bank state", "error", err)
		return fmt.Errorf("saving bank state: %w", err)
	}
	return nil
}

// Customers returns a snapshot of the working set.
func (b *Bank) Customers() []*customer.Customer {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*customer.Customer, len(b.customers))
	copy(out, b.customers)
	return out
}

// Customer looks up a customer by ID.
func (b *Bank) Customer(id string) (*customer.Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findCustomerLocked(id)
}

func (b *Bank) findCustomerLocked(id string) (*customer.Customer, error) {
	for _, c := range b.customers {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, ErrCustomerNotFound{CustomerID: id}
}

func (b *Bank) findAccountLocked(number string) (account.Account, error) {
	for _, c := range b.customers {
		if a, ok := c.Account(number); ok {
			return a, nil
		}
	}
	return nil, ErrAccountNotFound{Number: number}
}

// RegisterPersonalCustomer adds a personal customer and persists the change.
func (b *Bank) RegisterPersonalCustomer(ctx context.Context, firstName, lastName, address, nationalID string) (*customer.Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := customer.NewPersonal(firstName, lastName, address, nationalID)
	b.customers = append(b.customers, c)
	b.audit.Log("CUSTOMER", auditActor, c.ID(), "REGISTER", "personal customer", true)
	return c, b.saveLocked(ctx)
}

// RegisterCompanyCustomer adds a company customer and persists the change.
func (b *Bank) RegisterCompanyCustomer(ctx context.Context, firstName, lastName, address, companyName, companyAddress string) (*customer.Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := customer.NewCompany(firstName, lastName, address, companyName, companyAddress)
	b.customers = append(b.customers, c)
	b.audit.Log("CUSTOMER", auditActor, c.ID(), "REGISTER", "company customer", true)
	return c, b.saveLocked(ctx)
}

// UpdateCustomerProfile replaces the customer's mutable identity fields.
func (b *Bank) UpdateCustomerProfile(ctx context.Context, customerID, firstName, lastName, address string) (*customer.Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.findCustomerLocked(customerID)
	if err != nil {
		return nil, err
	}
	c.UpdateProfile(firstName, lastName, address)
	b.audit.Log("CUSTOMER", auditActor, c.ID(), "UPDATE_PROFILE", "", true)
	return c, b.saveLocked(ctx)
}

// SetCredentials creates or replaces the login credentials for a customer.
func (b *Bank) SetCredentials(ctx context.Context, customerID, username, password, email string) (*customer.Credentials, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.findCustomerLocked(customerID); err != nil {
		return nil, err
	}

	cred := customer.NewCredentials(customerID, username, password, email)
	replaced := false
	for i, existing := range b.credentials {
		if existing.CustomerID == customerID {
			b.credentials[i] = cred
			replaced = true
			break
		}
	}
	if !replaced {
		b.credentials = append(b.credentials, cred)
	}
	b.audit.Log("CREDENTIAL", auditActor, customerID, "SET", "username="+username, true)
	return cred, b.saveLocked(ctx)
}

// Credentials looks up the credentials for a customer, if any.
func (b *Bank) Credentials(customerID string) (*customer.Credentials, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, cred := range b.credentials {
		if cred.CustomerID == customerID {
			return cred, true
		}
	}
	return nil, false
}

// OpenAccount creates an account of the given type for a customer. Employer
// fields are required for cheque accounts and ignored for the others.
func (b *Bank) OpenAccount(ctx context.Context, customerID string, typ account.Type, branch string, openingBalance int64, employerName, employerAddress string) (account.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.findCustomerLocked(customerID)
	if err != nil {
		return nil, err
	}

	var acc account.Account
	switch typ {
	case account.TypeSavings:
		acc, err = account.NewSavings(customerID, branch, openingBalance)
	case account.TypeInvestment:
		acc, err = account.NewInvestment(customerID, branch, openingBalance)
	case account.TypeCheque:
		acc, err = account.NewCheque(customerID, branch, openingBalance, employerName, employerAddress)
	default:
		err = fmt.Errorf("%w: %q", account.ErrUnknownType, typ)
	}
	if err != nil {
		b.audit.Log("ACCOUNT", auditActor, customerID, "OPEN", fmt.Sprintf("type=%s reason=%v", typ, err), false)
		return nil, err
	}

	c.AddAccount(acc)
	b.audit.Log("ACCOUNT", auditActor, acc.Number(), "OPEN", fmt.Sprintf("type=%s balance=%s", typ, shared.FormatCents(openingBalance)), true)
	return acc, b.saveLocked(ctx)
}

// Account looks up an account by number across all customers.
func (b *Bank) Account(number string) (account.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findAccountLocked(number)
}

// AccountTransactions returns the ledger of one account in chronological
// order.
func (b *Bank) AccountTransactions(number string) ([]ledger.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, err := b.findAccountLocked(number)
	if err != nil {
		return nil, err
	}
	return acc.Transactions(), nil
}

// Deposit credits an open account and persists the new state.
func (b *Bank) Deposit(ctx context.Context, number string, amount int64, note string) (account.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, err := b.findAccountLocked(number)
	if err != nil {
		return nil, err
	}
	if err := acc.Deposit(amount, note); err != nil {
		b.audit.Log("TRANSACTION", auditActor, number, "DEPOSIT", fmt.Sprintf("amount=%s reason=%v", shared.FormatCents(amount), err), false)
		return nil, err
	}
	b.audit.Log("TRANSACTION", auditActor, number, "DEPOSIT", "amount="+shared.FormatCents(amount), true)
	return acc, b.saveLocked(ctx)
}

// Withdraw debits an account if its variant permits. A denied savings
// withdrawal still appends a ledger record, so the state is persisted even
// though the operation failed.
func (b *Bank) Withdraw(ctx context.Context, number string, amount int64, note string) (account.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, err := b.findAccountLocked(number)
	if err != nil {
		return nil, err
	}
	if err := acc.Withdraw(amount, note); err != nil {
		b.audit.Log("TRANSACTION", auditActor, number, "WITHDRAW", fmt.Sprintf("amount=%s reason=%v", shared.FormatCents(amount), err), false)
		if saveErr := b.saveLocked(ctx); saveErr != nil {
			b.logger.Warn("failed to persist denied withdrawal record", "accountNumber", number, "error", saveErr)
		}
		return nil, err
	}
	b.audit.Log("TRANSACTION", auditActor, number, "WITHDRAW", "amount="+shared.FormatCents(amount), true)
	return acc, b.saveLocked(ctx)
}

// CloseAccount marks an account closed. Closing twice is a no-op.
func (b *Bank) CloseAccount(ctx context.Context, number string) (account.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, err := b.findAccountLocked(number)
	if err != nil {
		return nil, err
	}
	acc.Close()
	b.audit.Log("ACCOUNT", auditActor, number, "CLOSE", "", true)
	return acc, b.saveLocked(ctx)
}

// LinkAccount records an external account reference on a customer.
func (b *Bank) LinkAccount(ctx context.Context, customerID, number string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.findCustomerLocked(customerID)
	if err != nil {
		return err
	}
	if !c.AddLinkedAccount(number) {
		return nil
	}
	b.audit.Log("CUSTOMER", auditActor, customerID, "LINK_ACCOUNT", "number="+number, true)
	return b.saveLocked(ctx)
}

// UnlinkAccount drops an external account reference from a customer.
func (b *Bank) UnlinkAccount(ctx context.Context, customerID, number string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.findCustomerLocked(customerID)
	if err != nil {
		return err
	}
	c.RemoveLinkedAccount(number)
	b.audit.Log("CUSTOMER", auditActor, customerID, "UNLINK_ACCOUNT", "number="+number, true)
	return b.saveLocked(ctx)
}
