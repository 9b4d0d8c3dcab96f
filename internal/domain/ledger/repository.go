package ledger

import "context"

// TransactionRepository defines data access for the transaction ledger.
// Amounts are never mutated in place; only the voided and is_deleted flags
// may flip after creation.
type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	// CreateBatch writes transactions in store batches bounded by the
	// per-batch op limit; each batch commits independently.
	CreateBatch(ctx context.Context, ts []Transaction) error
	GetByID(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	// ListSalaryAdvancesByShiftIDs returns live (non-voided, non-deleted)
	// salary-advance entries tied to the given shifts.
	ListSalaryAdvancesByShiftIDs(ctx context.Context, shiftIDs []string) ([]Transaction, error)

	SetVoided(ctx context.Context, id string, voided bool) error
	SoftDelete(ctx context.Context, id string) error
	// VoidByRunID voids every non-voided entry tagged with the run and
	// returns how many were voided.
	VoidByRunID(ctx context.Context, runID string) (int, error)
}

// LedgerService is the thin transaction surface around the ledger.
type LedgerService interface {
	Create(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error)
	Get(ctx context.Context, id string) (TransactionResponse, error)
	List(ctx context.Context, filter TransactionFilter) ([]TransactionResponse, error)
	Void(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
