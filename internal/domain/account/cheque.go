package account

import (
	"fmt"
	"strings"
)

// Cheque is a salary account. It requires employer details at opening,
// permits withdrawals, and earns no interest.
type Cheque struct {
	base
	employerName    string
	employerAddress string
}

// NewCheque opens a cheque account. Employer name and address are required
// and must not be blank.
func NewCheque(customerID, branch string, openingBalance int64, employerName, employerAddress string) (*Cheque, error) {
	if openingBalance < 0 {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(employerName) == "" || strings.TrimSpace(employerAddress) == "" {
		return nil, fmt.Errorf("%w: cheque account requires employer name and address", ErrInvalidConfiguration)
	}
	return &Cheque{
		base:            newBase("CA", customerID, branch, openingBalance),
		employerName:    employerName,
		employerAddress: employerAddress,
	}, nil
}

func (c *Cheque) Type() Type { return TypeCheque }

func (c *Cheque) EmployerName() string    { return c.employerName }
func (c *Cheque) EmployerAddress() string { return c.employerAddress }

func (c *Cheque) Withdraw(amount int64, note string) error {
	return c.withdrawFunds(amount, note)
}
