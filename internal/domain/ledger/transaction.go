// Package ledger defines the immutable transaction record kept per account.
// Each account owns an append-only sequence of these records; insertion
// order is chronological order and no record is ever mutated or removed.
package ledger

import (
	"time"

	"github.com/bank-management-core/internal/domain/shared"
)

// Type defines the balance-affecting event a transaction records.
type Type string

const (
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
	// TypeWithdrawAttempt records a denied withdrawal with amount zero,
	// preserving an audit trail of refused operations.
	TypeWithdrawAttempt Type = "WITHDRAW_ATTEMPT"
	TypeInterest        Type = "INTEREST"
)

// Transaction is one ledger record. Amount is in cents and always positive
// in magnitude, except for denied-withdrawal markers which carry zero.
type Transaction struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	Amount        int64     `json:"amount"` // cents
	Type          Type      `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	Note          string    `json:"note,omitempty"`
}

// New creates a transaction stamped with the current time and a fresh ID.
// Only account operations call this; callers outside the account package
// never construct ledger records for live accounts.
func New(accountNumber string, amount int64, typ Type, note string) Transaction {
	return Transaction{
		ID:            shared.NewID("TX"),
		AccountNumber: accountNumber,
		Amount:        amount,
		Type:          typ,
		Timestamp:     time.Now(),
		Note:          note,
	}
}
