// Package customer models the customer aggregate: identity data, the set of
// owned accounts keyed by account number, and auxiliary linked account
// references. Accounts hold only the customer ID as a back-reference; the
// customer is the sole owner.
package customer

import (
	"strings"

	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/domain/shared"
)

// Kind tags the customer variant.
type Kind string

const (
	KindPersonal Kind = "PERSONAL"
	KindCompany  Kind = "COMPANY"
)

// Customer aggregates identity data and owned accounts. NationalID is set
// for personal customers; CompanyName/CompanyAddress for company customers.
type Customer struct {
	id        string
	kind      Kind
	firstName string
	lastName  string
	address   string

	nationalID     string
	companyName    string
	companyAddress string

	accounts []account.Account
	linked   []string
}

// NewPersonal registers a personal customer with a fresh ID.
func NewPersonal(firstName, lastName, address, nationalID string) *Customer {
	return &Customer{
		id:         shared.NewID("CUST"),
		kind:       KindPersonal,
		firstName:  firstName,
		lastName:   lastName,
		address:    address,
		nationalID: nationalID,
	}
}

// NewCompany registers a company customer with a fresh ID.
func NewCompany(firstName, lastName, address, companyName, companyAddress string) *Customer {
	return &Customer{
		id:             shared.NewID("CUST"),
		kind:           KindCompany,
		firstName:      firstName,
		lastName:       lastName,
		address:        address,
		companyName:    companyName,
		companyAddress: companyAddress,
	}
}

// Restore rebuilds a customer from persisted state with its original ID.
// Accounts are attached separately as the storage layer loads them.
func Restore(id string, kind Kind, firstName, lastName, address, nationalID, companyName, companyAddress string) *Customer {
	return &Customer{
		id:             id,
		kind:           kind,
		firstName:      firstName,
		lastName:       lastName,
		address:        address,
		nationalID:     nationalID,
		companyName:    companyName,
		companyAddress: companyAddress,
	}
}

func (c *Customer) ID() string             { return c.id }
func (c *Customer) Kind() Kind             { return c.kind }
func (c *Customer) FirstName() string      { return c.firstName }
func (c *Customer) LastName() string       { return c.lastName }
func (c *Customer) Address() string        { return c.address }
func (c *Customer) NationalID() string     { return c.nationalID }
func (c *Customer) CompanyName() string    { return c.companyName }
func (c *Customer) CompanyAddress() string { return c.companyAddress }

// UpdateProfile replaces the mutable identity fields.
func (c *Customer) UpdateProfile(firstName, lastName, address string) {
	c.firstName = firstName
	c.lastName = lastName
	c.address = address
}

// AddAccount attaches an account to the customer. An account whose number is
// already present is rejected as a no-op, even if it is a distinct value;
// this keeps one ledger per account number. Returns false when rejected.
func (c *Customer) AddAccount(a account.Account) bool {
	if a == nil {
		return false
	}
	for _, existing := range c.accounts {
		if existing.Number() == a.Number() {
			return false
		}
	}
	c.accounts = append(c.accounts, a)
	return true
}

// Accounts returns the owned accounts in attachment order. The slice is a
// copy; the accounts themselves are shared references.
func (c *Customer) Accounts() []account.Account {
	out := make([]account.Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Account looks up an owned account by number.
func (c *Customer) Account(number string) (account.Account, bool) {
	for _, a := range c.accounts {
		if a.Number() == number {
			return a, true
		}
	}
	return nil, false
}

// AddLinkedAccount records an external account reference. Blank numbers are
// rejected and duplicates are ignored. Returns false when nothing was added.
func (c *Customer) AddLinkedAccount(number string) bool {
	if strings.TrimSpace(number) == "" {
		return false
	}
	for _, existing := range c.linked {
		if existing == number {
			return false
		}
	}
	c.linked = append(c.linked, number)
	return true
}

// RemoveLinkedAccount drops an external account reference if present.
func (c *Customer) RemoveLinkedAccount(number string) {
	for i, existing := range c.linked {
		if existing == number {
			c.linked = append(c.linked[:i], c.linked[i+1:]...)
			return
		}
	}
}

// LinkedAccounts returns a copy of the external account references.
func (c *Customer) LinkedAccounts() []string {
	out := make([]string, len(c.linked))
	copy(out, c.linked)
	return out
}
