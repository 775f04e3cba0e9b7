package account

import "github.com/bank-management-core/internal/domain/ledger"

// StoredState is the flat record a storage backend holds for one account.
// Employer fields are meaningful for cheque accounts only; Transactions may
// be nil when the backend does not persist the ledger.
type StoredState struct {
	Number          string
	CustomerID      string
	Type            Type
	Balance         int64
	Branch          string
	Closed          bool
	EmployerName    string
	EmployerAddress string
	Transactions    []ledger.Transaction
}

// Restore rebuilds an account from persisted state. Opening rules are not
// re-applied: the stored state is authoritative, so an investment balance
// that has dropped below the opening minimum reloads as-is.
func Restore(s StoredState) (Account, error) {
	b := base{
		number:       s.Number,
		customerID:   s.CustomerID,
		branch:       s.Branch,
		balance:      s.Balance,
		closed:       s.Closed,
		transactions: s.Transactions,
	}

	switch s.Type {
	case TypeSavings:
		return &Savings{base: b}, nil
	case TypeInvestment:
		return &Investment{base: b}, nil
	case TypeCheque:
		return &Cheque{base: b, employerName: s.EmployerName, employerAddress: s.EmployerAddress}, nil
	default:
		return nil, ErrUnknownType
	}
}

// Stored flattens an account into its persistable record, including the
// ledger.
func Stored(a Account) StoredState {
	s := StoredState{
		Number:       a.Number(),
		CustomerID:   a.CustomerID(),
		Type:         a.Type(),
		Balance:      a.Balance(),
		Branch:       a.Branch(),
		Closed:       a.Closed(),
		Transactions: a.Transactions(),
	}
	if cheque, ok := a.(*Cheque); ok {
		s.EmployerName = cheque.EmployerName()
		s.EmployerAddress = cheque.EmployerAddress()
	}
	return s
}
