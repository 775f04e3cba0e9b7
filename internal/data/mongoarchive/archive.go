// Package mongoarchive mirrors per-account transaction history to MongoDB.
// The relational backend stores only current balances; the archive keeps the
// ledger itself durable across restarts when it is enabled.
package mongoarchive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bank-management-core/internal/domain/ledger"
)

const (
	// LedgerCollectionName is the name of the ledger collection in MongoDB
	LedgerCollectionName = "account_ledgers"
)

// txDocument is the stored form of a ledger transaction.
type txDocument struct {
	TransactionID string    `bson:"transaction_id"`
	AccountNumber string    `bson:"account_number"`
	Amount        int64     `bson:"amount"`
	Type          string    `bson:"type"`
	Timestamp     time.Time `bson:"timestamp"`
	Note          string    `bson:"note,omitempty"`
}

func toDocument(tx ledger.Transaction) txDocument {
	return txDocument{
		TransactionID: tx.ID,
		AccountNumber: tx.AccountNumber,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Timestamp:     tx.Timestamp,
		Note:          tx.Note,
	}
}

func fromDocument(doc txDocument) ledger.Transaction {
	return ledger.Transaction{
		ID:            doc.TransactionID,
		AccountNumber: doc.AccountNumber,
		Amount:        doc.Amount,
		Type:          ledger.Type(doc.Type),
		Timestamp:     doc.Timestamp,
		Note:          doc.Note,
	}
}

// Archive stores account ledgers in a MongoDB collection, one document per
// transaction.
type Archive struct {
	db     *mongo.Database
	logger *slog.Logger
}

// New creates a ledger archive on the given database.
func New(logger *slog.Logger, db *mongo.Database) *Archive {
	return &Archive{
		db:     db,
		logger: logger,
	}
}

// ReplaceAccountLedger overwrites the stored ledger for one account with the
// given history. The save model is a full-graph snapshot, so the previous
// documents are dropped rather than diffed.
func (a *Archive) ReplaceAccountLedger(ctx context.Context, accountNumber string, transactions []ledger.Transaction) error {
	collection := a.db.Collection(LedgerCollectionName)

	if _, err := collection.DeleteMany(ctx, bson.M{"account_number": accountNumber}); err != nil {
		a.logger.Error("Failed to clear archived ledger",
			"account_number", accountNumber,
			"error", err)
		return fmt.Errorf("failed to clear archived ledger: %w", err)
	}

	if len(transactions) == 0 {
		return nil
	}

	docs := make([]interface{}, len(transactions))
	for i, tx := range transactions {
		docs[i] = toDocument(tx)
	}

	if _, err := collection.InsertMany(ctx, docs); err != nil {
		a.logger.Error("Failed to archive ledger",
			"account_number", accountNumber,
			"count", len(docs),
			"error", err)
		return fmt.Errorf("failed to archive ledger: %w", err)
	}

	return nil
}

// AccountLedger retrieves the stored ledger for one account in chronological
// order. A missing account yields an empty slice, not an error.
func (a *Archive) AccountLedger(ctx context.Context, accountNumber string) ([]ledger.Transaction, error) {
	collection := a.db.Collection(LedgerCollectionName)

	filter := bson.M{"account_number": accountNumber}
	opts := options.Find().SetSort(bson.M{"timestamp": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		a.logger.Error("Failed to load archived ledger",
			"account_number", accountNumber,
			"error", err)
		return nil, fmt.Errorf("failed to load archived ledger: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []txDocument
	if err := cursor.All(ctx, &docs); err != nil {
		a.logger.Error("Failed to decode archived ledger",
			"account_number", accountNumber,
			"error", err)
		return nil, fmt.Errorf("failed to decode archived ledger: %w", err)
	}

	transactions := make([]ledger.Transaction, len(docs))
	for i, doc := range docs {
		transactions[i] = fromDocument(doc)
	}

	return transactions, nil
}
