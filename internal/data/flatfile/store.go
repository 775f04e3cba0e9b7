// Package flatfile implements the storage façade over structured flat text
// files. Each entity is a tagged record of KEY:VALUE lines bracketed by
// START/END markers; unknown keys are ignored and missing optional keys
// default to empty or false. Free-text values are flattened to a single line
// on write. Unlike the relational backend, the ledger is always persisted
// here, in transactions.txt.
package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/domain/customer"
	"github.com/bank-management-core/internal/domain/ledger"
	"github.com/bank-management-core/internal/domain/shared"
	"github.com/bank-management-core/internal/storage"
)

const (
	customersFile    = "customers.txt"
	accountsFile     = "accounts.txt"
	credentialsFile  = "credentials.txt"
	transactionsFile = "transactions.txt"

	timestampLayout = time.RFC3339Nano
)

// Store reads and writes the full graph under one data directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// New creates the data directory if needed and returns a flat-file store.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %w", storage.ErrUnavailable, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save overwrites all four files with the given graph.
func (s *Store) Save(ctx context.Context, customers []*customer.Customer, credentials []*customer.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writeCustomers(customers); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	if err := s.writeAccounts(customers); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	if err := s.writeTransactions(customers); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	if err := s.writeCredentials(credentials); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	s.logger.Info("saved data set", "dir", s.dir, "customers", len(customers), "credentials", len(credentials))
	return nil
}

// Load reconstructs the graph. Missing files yield an empty data set;
// accounts referencing an unknown customer are dropped.
func (s *Store) Load(ctx context.Context) ([]*customer.Customer, []*customer.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	customers, err := s.readCustomers()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	ledgers, err := s.readTransactions()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	if err := s.readAccounts(customers, ledgers); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	credentials, err := s.readCredentials()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	return customers, credentials, nil
}

func (s *Store) writeCustomers(customers []*customer.Customer) error {
	return s.writeFile(customersFile, func(w *bufio.Writer) error {
		for _, c := range customers {
			fmt.Fprintln(w, "CUSTOMER_START")
			fmt.Fprintf(w, "ID:%s\n", c.ID())
			fmt.Fprintf(w, "FIRST_NAME:%s\n", sanitize(c.FirstName()))
			fmt.Fprintf(w, "LAST_NAME:%s\n", sanitize(c.LastName()))
			fmt.Fprintf(w, "ADDRESS:%s\n", sanitize(c.Address()))
			if linked := c.LinkedAccounts(); len(linked) > 0 {
				fmt.Fprintf(w, "LINKED:%s\n", sanitize(strings.Join(linked, ",")))
			}
			fmt.Fprintf(w, "TYPE:%s\n", c.Kind())
			switch c.Kind() {
			case customer.KindPersonal:
				fmt.Fprintf(w, "NATIONAL_ID:%s\n", sanitize(c.NationalID()))
			case customer.KindCompany:
				fmt.Fprintf(w, "COMPANY_NAME:%s\n", sanitize(c.CompanyName()))
				fmt.Fprintf(w, "COMPANY_ADDRESS:%s\n", sanitize(c.CompanyAddress()))
			}
			if _, err := fmt.Fprintln(w, "CUSTOMER_END"); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) writeAccounts(customers []*customer.Customer) error {
	return s.writeFile(accountsFile, func(w *bufio.Writer) error {
		for _, c := range customers {
			for _, a := range c.Accounts() {
				st := account.Stored(a)
				fmt.Fprintln(w, "ACCOUNT_START")
				fmt.Fprintf(w, "ACCOUNT_NUMBER:%s\n", st.Number)
				fmt.Fprintf(w, "CUSTOMER_ID:%s\n", c.ID())
				fmt.Fprintf(w, "BALANCE:%s\n", shared.FormatCents(st.Balance))
				fmt.Fprintf(w, "BRANCH:%s\n", sanitize(st.Branch))
				fmt.Fprintf(w, "TYPE:%s\n", st.Type)
				fmt.Fprintf(w, "CLOSED:%t\n", st.Closed)
				if st.Type == account.TypeCheque {
					fmt.Fprintf(w, "EMPLOYER_NAME:%s\n", sanitize(st.EmployerName))
					fmt.Fprintf(w, "EMPLOYER_ADDRESS:%s\n", sanitize(st.EmployerAddress))
				}
				if _, err := fmt.Fprintln(w, "ACCOUNT_END"); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) writeTransactions(customers []*customer.Customer) error {
	return s.writeFile(transactionsFile, func(w *bufio.Writer) error {
		for _, c := range customers {
			for _, a := range c.Accounts() {
				for _, tx := range a.Transactions() {
					fmt.Fprintln(w, "TRANSACTION_START")
					fmt.Fprintf(w, "TRANSACTION_ID:%s\n", tx.ID)
					fmt.Fprintf(w, "ACCOUNT_NUMBER:%s\n", tx.AccountNumber)
					fmt.Fprintf(w, "AMOUNT:%s\n", shared.FormatCents(tx.Amount))
					fmt.Fprintf(w, "TYPE:%s\n", tx.Type)
					fmt.Fprintf(w, "TIMESTAMP:%s\n", tx.Timestamp.Format(timestampLayout))
					fmt.Fprintf(w, "NOTE:%s\n", sanitize(tx.Note))
					if _, err := fmt.Fprintln(w, "TRANSACTION_END"); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func (s *Store) writeCredentials(credentials []*customer.Credentials) error {
	return s.writeFile(credentialsFile, func(w *bufio.Writer) error {
		for _, cred := range credentials {
			fmt.Fprintln(w, "CREDENTIAL_START")
			fmt.Fprintf(w, "CUSTOMER_ID:%s\n", cred.CustomerID)
			fmt.Fprintf(w, "USERNAME:%s\n", sanitize(cred.Username))
			fmt.Fprintf(w, "PASSWORD:%s\n", sanitize(cred.Password))
			fmt.Fprintf(w, "EMAIL:%s\n", sanitize(cred.Email))
			fmt.Fprintf(w, "IS_ACTIVE:%t\n", cred.Active)
			if _, err := fmt.Fprintln(w, "CREDENTIAL_END"); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) writeFile(name string, write func(w *bufio.Writer) error) error {
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}

func (s *Store) readCustomers() ([]*customer.Customer, error) {
	records, err := s.readRecords(customersFile, "CUSTOMER_START", "CUSTOMER_END")
	if err != nil {
		return nil, err
	}

	var customers []*customer.Customer
	for _, rec := range records {
		kind := customer.Kind(rec["TYPE"])
		if kind != customer.KindPersonal && kind != customer.KindCompany {
			s.logger.Warn("skipping customer record with unknown type", "id", rec["ID"], "type", rec["TYPE"])
			continue
		}
		c := customer.Restore(
			rec["ID"], kind,
			rec["FIRST_NAME"], rec["LAST_NAME"], rec["ADDRESS"],
			rec["NATIONAL_ID"], rec["COMPANY_NAME"], rec["COMPANY_ADDRESS"],
		)
		for _, number := range strings.Split(rec["LINKED"], ",") {
			c.AddLinkedAccount(strings.TrimSpace(number))
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (s *Store) readTransactions() (map[string][]ledger.Transaction, error) {
	records, err := s.readRecords(transactionsFile, "TRANSACTION_START", "TRANSACTION_END")
	if err != nil {
		return nil, err
	}

	ledgers := make(map[string][]ledger.Transaction)
	for _, rec := range records {
		amount, err := shared.ParseCents(rec["AMOUNT"])
		if err != nil {
			s.logger.Warn("skipping transaction record with bad amount", "id", rec["TRANSACTION_ID"], "error", err)
			continue
		}
		timestamp, err := time.Parse(timestampLayout, rec["TIMESTAMP"])
		if err != nil {
			s.logger.Warn("skipping transaction record with bad timestamp", "id", rec["TRANSACTION_ID"], "error", err)
			continue
		}
		number := rec["ACCOUNT_NUMBER"]
		ledgers[number] = append(ledgers[number], ledger.Transaction{
			ID:            rec["TRANSACTION_ID"],
			AccountNumber: number,
			Amount:        amount,
			Type:          ledger.Type(rec["TYPE"]),
			Timestamp:     timestamp,
			Note:          rec["NOTE"],
		})
	}
	return ledgers, nil
}

func (s *Store) readAccounts(customers []*customer.Customer, ledgers map[string][]ledger.Transaction) error {
	records, err := s.readRecords(accountsFile, "ACCOUNT_START", "ACCOUNT_END")
	if err != nil {
		return err
	}

	byID := make(map[string]*customer.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID()] = c
	}

	for _, rec := range records {
		owner, ok := byID[rec["CUSTOMER_ID"]]
		if !ok {
			s.logger.Warn("skipping account record with unknown customer",
				"account", rec["ACCOUNT_NUMBER"], "customer_id", rec["CUSTOMER_ID"])
			continue
		}

		balance, err := shared.ParseCents(rec["BALANCE"])
		if err != nil {
			s.logger.Warn("skipping account record with bad balance", "account", rec["ACCOUNT_NUMBER"], "error", err)
			continue
		}
		closed, _ := strconv.ParseBool(rec["CLOSED"])

		number := rec["ACCOUNT_NUMBER"]
		acc, err := account.Restore(account.StoredState{
			Number:          number,
			CustomerID:      owner.ID(),
			Type:            account.Type(rec["TYPE"]),
			Balance:         balance,
			Branch:          rec["BRANCH"],
			Closed:          closed,
			EmployerName:    rec["EMPLOYER_NAME"],
			EmployerAddress: rec["EMPLOYER_ADDRESS"],
			Transactions:    ledgers[number],
		})
		if err != nil {
			s.logger.Warn("skipping account record", "account", number, "error", err)
			continue
		}
		owner.AddAccount(acc)
	}
	return nil
}

func (s *Store) readCredentials() ([]*customer.Credentials, error) {
	records, err := s.readRecords(credentialsFile, "CREDENTIAL_START", "CREDENTIAL_END")
	if err != nil {
		return nil, err
	}

	var credentials []*customer.Credentials
	for _, rec := range records {
		active, _ := strconv.ParseBool(rec["IS_ACTIVE"])
		credentials = append(credentials, &customer.Credentials{
			CustomerID: rec["CUSTOMER_ID"],
			Username:   rec["USERNAME"],
			Password:   rec["PASSWORD"],
			Email:      rec["EMAIL"],
			Active:     active,
		})
	}
	return credentials, nil
}

// sanitize keeps free text on one line. The record format is line-oriented,
// so a raw newline inside a value would be read back as structure.
func sanitize(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.ReplaceAll(value, "\n", " ")
}

// readRecords parses one tagged-record file into key/value maps. A missing
// file is an empty data set, not an error.
func (s *Store) readRecords(name, startMarker, endMarker string) ([]map[string]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	var records []map[string]string
	var current map[string]string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == startMarker:
			current = make(map[string]string)
		case line == endMarker:
			if current != nil {
				records = append(records, current)
				current = nil
			}
		case current != nil:
			if key, value, ok := strings.Cut(line, ":"); ok {
				current[key] = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return records, nil
}
