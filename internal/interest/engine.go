// Package interest implements the batch accrual run: walk every account,
// credit variant-specific interest where the variant supports it, and
// persist the result once at the end of the pass.
package interest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-management-core/internal/audit"
	"github.com/bank-management-core/internal/domain/account"
	"github.com/bank-management-core/internal/domain/customer"
)

// Directory is the slice of the bank the engine needs: the customer set and
// a way to persist it after the pass.
type Directory interface {
	Customers() []*customer.Customer
	Save(ctx context.Context) error
}

// Summary reports one accrual run. Runs are not guarded against repetition;
// invoking the engine twice compounds interest.
type Summary struct {
	AccountsSeen  int   `json:"accounts_seen"`
	Credited      int   `json:"credited"`
	TotalInterest int64 `json:"total_interest"`
}

// Engine applies interest across the whole directory.
type Engine struct {
	directory Directory
	audit     *audit.Logger
	logger    *slog.Logger
}

// NewEngine creates an accrual engine over the given directory.
func NewEngine(logger *slog.Logger, directory Directory, auditLog *audit.Logger) *Engine {
	return &Engine{
		directory: directory,
		audit:     auditLog,
		logger:    logger,
	}
}

// Run performs one accrual pass. Closed accounts and variants without the
// interest capability are skipped. State is saved once after the full pass;
// a save failure is returned alongside the summary of what was applied in
// memory.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	for _, c := range e.directory.Customers() {
		for _, acc := range c.Accounts() {
			summary.AccountsSeen++
			if acc.Closed() {
				continue
			}
			bearing, ok := acc.(account.InterestBearing)
			if !ok {
				continue
			}
			credited := bearing.CalculateInterest()
			if credited > 0 {
				summary.Credited++
				summary.TotalInterest += credited
			}
		}
	}

	e.logger.Info("interest accrual pass complete",
		"accounts_seen", summary.AccountsSeen,
		"credited", summary.Credited,
		"total_interest", summary.TotalInterest)
	e.audit.Log("INTEREST", "system", "all-accounts", "ACCRUE",
		fmt.Sprintf("seen=%d credited=%d total=%d", summary.AccountsSeen, summary.Credited, summary.TotalInterest), true)

	if err := e.directory.Save(ctx); err != nil {
		return summary, fmt.Errorf("persisting accrual results: %w", err)
	}
	return summary, nil
}
