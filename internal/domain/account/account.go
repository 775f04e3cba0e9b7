// Package account implements the polymorphic account model: Savings,
// Investment and Cheque variants sharing one mutation core. Every balance
// change appends exactly one ledger record, and balances never go negative.
package account

import (
	"errors"

	"github.com/bank-management-core/internal/domain/ledger"
	"github.com/bank-management-core/internal/domain/shared"
)

// Common errors
var (
	ErrAccountClosed          = errors.New("account is closed")
	ErrInsufficientFunds      = errors.New("insufficient funds for withdrawal")
	ErrWithdrawalNotSupported = errors.New("account variant does not support withdrawals")
	ErrInvalidConfiguration   = errors.New("invalid account configuration")
	ErrUnknownType            = errors.New("unknown account type")
)

// Type tags the account variant, used by persistence and the API surface.
type Type string

const (
	TypeSavings    Type = "SAVINGS"
	TypeInvestment Type = "INVESTMENT"
	TypeCheque     Type = "CHEQUE"
)

// Account is the behaviour common to all variants. Withdrawal rules are
// variant-specific; interest accrual is a separate capability (see
// InterestBearing) present only on the variants that earn interest.
type Account interface {
	Number() string
	CustomerID() string
	Branch() string
	Balance() int64
	Closed() bool
	Close()
	Type() Type

	// Deposit increases the balance and appends a DEPOSIT record.
	Deposit(amount int64, note string) error

	// Withdraw applies the variant's withdrawal rule. A denial on a
	// Savings account still appends a WITHDRAW_ATTEMPT record.
	Withdraw(amount int64, note string) error

	// Transactions returns the ledger in insertion order as a copy;
	// mutating the returned slice does not affect the account.
	Transactions() []ledger.Transaction
}

// InterestBearing is the accrual capability, implemented by Savings and
// Investment accounts only. Callers detect it with a type assertion rather
// than inspecting the variant tag.
type InterestBearing interface {
	// CalculateInterest applies one period of interest to the balance,
	// appends an INTEREST record when the amount is positive, and returns
	// the amount applied in cents (zero if none).
	CalculateInterest() int64
}

// base carries the state and mutation core shared by every variant.
type base struct {
	number       string
	customerID   string
	branch       string
	balance      int64
	closed       bool
	transactions []ledger.Transaction
}

func newBase(prefix, customerID, branch string, balance int64) base {
	return base{
		number:     shared.NewID(prefix),
		customerID: customerID,
		branch:     branch,
		balance:    balance,
	}
}

func (b *base) Number() string     { return b.number }
func (b *base) CustomerID() string { return b.customerID }
func (b *base) Branch() string     { return b.branch }
func (b *base) Balance() int64     { return b.balance }
func (b *base) Closed() bool       { return b.closed }

// Close transitions the account to its terminal state. There is no way back:
// every mutating operation fails once the account is closed.
func (b *base) Close() { b.closed = true }

func (b *base) Deposit(amount int64, note string) error {
	if b.closed {
		return ErrAccountClosed
	}
	if err := shared.ValidateAmount(amount); err != nil {
		return err
	}
	b.balance += amount
	b.record(ledger.New(b.number, amount, ledger.TypeDeposit, note))
	return nil
}

// withdrawFunds is the withdrawal rule for variants that allow it.
func (b *base) withdrawFunds(amount int64, note string) error {
	if b.closed {
		return ErrAccountClosed
	}
	if err := shared.ValidateAmount(amount); err != nil {
		return err
	}
	if amount > b.balance {
		return ErrInsufficientFunds
	}
	b.balance -= amount
	b.record(ledger.New(b.number, amount, ledger.TypeWithdrawal, note))
	return nil
}

// applyInterest credits interest at the given rate expressed in basis
// points. Truncates toward zero; a zero result leaves the ledger untouched.
// A closed account accrues nothing.
func (b *base) applyInterest(rateBasisPoints int64, note string) int64 {
	if b.closed {
		return 0
	}
	interest := b.balance * rateBasisPoints / 10000
	if interest > 0 {
		b.balance += interest
		b.record(ledger.New(b.number, interest, ledger.TypeInterest, note))
	}
	return interest
}

func (b *base) record(tx ledger.Transaction) {
	b.transactions = append(b.transactions, tx)
}

func (b *base) Transactions() []ledger.Transaction {
	out := make([]ledger.Transaction, len(b.transactions))
	copy(out, b.transactions)
	return out
}
