package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
)

type LedgerServiceImpl struct {
	txRepo ledger.TransactionRepository
	now    func() time.Time
}

func NewLedgerService(txRepo ledger.TransactionRepository) ledger.LedgerService {
	return &LedgerServiceImpl{
		txRepo: txRepo,
		now:    time.Now,
	}
}

func (s *LedgerServiceImpl) Create(ctx context.Context, req ledger.CreateTransactionRequest) (ledger.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.TransactionResponse{}, err
	}

	occurredAt := s.now()
	if req.OccurredAt != "" {
		occurredAt, _ = time.Parse(time.RFC3339, req.OccurredAt)
	}

	created, err := s.txRepo.Create(ctx, ledger.Transaction{
		ID:                 uuid.NewString(),
		Category:           ledger.Category(req.Category),
		Amount:             req.Amount,
		OccurredAt:         occurredAt,
		StaffID:            req.StaffID,
		ShiftID:            req.ShiftID,
		ExpenseType:        req.ExpenseType,
		BeneficiaryStaffID: req.BeneficiaryStaffID,
		BeneficiaryName:    req.BeneficiaryName,
	})
	if err != nil {
		return ledger.TransactionResponse{}, err
	}
	return toTransactionResponse(created), nil
}

func (s *LedgerServiceImpl) Get(ctx context.Context, id string) (ledger.TransactionResponse, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return ledger.TransactionResponse{}, err
	}
	return toTransactionResponse(tx), nil
}

func (s *LedgerServiceImpl) List(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.TransactionResponse, error) {
	txs, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ledger.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTransactionResponse(tx))
	}
	return responses, nil
}

func (s *LedgerServiceImpl) Void(ctx context.Context, id string) error {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Entries posted by a payroll run are voided through the run, not one
	// at a time.
	if tx.PayrollRunID != nil && *tx.PayrollRunID != "" {
		return ledger.ErrTransactionPosted
	}
	return s.txRepo.SetVoided(ctx, id, true)
}

func (s *LedgerServiceImpl) Delete(ctx context.Context, id string) error {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tx.PayrollRunID != nil && *tx.PayrollRunID != "" {
		return ledger.ErrTransactionPosted
	}
	return s.txRepo.SoftDelete(ctx, id)
}

func toTransactionResponse(tx ledger.Transaction) ledger.TransactionResponse {
	return ledger.TransactionResponse{
		ID:                 tx.ID,
		Category:           string(tx.Category),
		Amount:             tx.Amount,
		OccurredAt:         tx.OccurredAt,
		StaffID:            tx.StaffID,
		StaffName:          tx.StaffName,
		ShiftID:            tx.ShiftID,
		ExpenseType:        tx.ExpenseType,
		BeneficiaryStaffID: tx.BeneficiaryStaffID,
		BeneficiaryName:    tx.BeneficiaryName,
		PayrollRunID:       tx.PayrollRunID,
		Voided:             tx.Voided,
	}
}
