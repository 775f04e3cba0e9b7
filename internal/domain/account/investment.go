package account

import (
	"fmt"

	"github.com/bank-management-core/internal/domain/shared"
)

const (
	// investmentRateBasisPoints is 5% interest per period.
	investmentRateBasisPoints = 500

	// MinInvestmentOpeningBalance is 500.00 in cents.
	MinInvestmentOpeningBalance int64 = 50000
)

// Investment earns interest and permits withdrawals against the balance.
type Investment struct {
	base
}

// NewInvestment opens an investment account. The opening balance must meet
// the 500.00 minimum; the balance may later fall below it through
// withdrawals.
func NewInvestment(customerID, branch string, openingBalance int64) (*Investment, error) {
	if openingBalance < MinInvestmentOpeningBalance {
		return nil, fmt.Errorf("%w: investment account requires a minimum opening balance of %s",
			ErrInvalidConfiguration, shared.FormatCents(MinInvestmentOpeningBalance))
	}
	return &Investment{base: newBase("IA", customerID, branch, openingBalance)}, nil
}

func (i *Investment) Type() Type { return TypeInvestment }

func (i *Investment) Withdraw(amount int64, note string) error {
	return i.withdrawFunds(amount, note)
}

func (i *Investment) CalculateInterest() int64 {
	return i.applyInterest(investmentRateBasisPoints, "Investment interest")
}
