package account

import (
	"fmt"

	"github.com/bank-management-core/internal/domain/ledger"
)

// savingsRateBasisPoints is 0.05% interest per period.
const savingsRateBasisPoints = 5

// Savings earns interest but never permits withdrawals. Denied attempts are
// still recorded so the audit trail shows them.
type Savings struct {
	base
}

// NewSavings opens a savings account. The opening balance may be zero.
func NewSavings(customerID, branch string, openingBalance int64) (*Savings, error) {
	if openingBalance < 0 {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidConfiguration)
	}
	return &Savings{base: newBase("SA", customerID, branch, openingBalance)}, nil
}

func (s *Savings) Type() Type { return TypeSavings }

// Withdraw always fails on a savings account. The attempt is appended to
// the ledger with amount zero so denied withdrawals are never silently
// dropped.
func (s *Savings) Withdraw(amount int64, note string) error {
	if s.closed {
		return ErrAccountClosed
	}
	s.record(ledger.New(s.number, 0, ledger.TypeWithdrawAttempt, "attempted withdrawal: "+note))
	return ErrWithdrawalNotSupported
}

func (s *Savings) CalculateInterest() int64 {
	return s.applyInterest(savingsRateBasisPoints, "Savings interest")
}
