package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
	"github.com/tindago/shop-backend-go/internal/handler/http/response"
)

type LedgerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Void(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
}

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{ledgerService: ledgerService}
}

func (h *ledgerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ledgerService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Transaction recorded", result)
}

func (h *ledgerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerService.Get(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := ledger.TransactionFilter{}
	query := r.URL.Query()

	if param := query.Get("category"); param != "" {
		category := ledger.Category(param)
		filter.Category = &category
	}
	if param := query.Get("expense_type"); param != "" {
		filter.ExpenseType = &param
	}
	if param := query.Get("shift_id"); param != "" {
		filter.ShiftID = &param
	}
	if param := query.Get("payroll_run_id"); param != "" {
		filter.PayrollRunID = &param
	}
	if param := query.Get("staff_id"); param != "" {
		filter.StaffID = &param
	}
	if param := query.Get("from"); param != "" {
		from, err := time.Parse("2006-01-02", param)
		if err != nil {
			response.BadRequest(w, "from must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		filter.From = &from
	}
	if param := query.Get("to"); param != "" {
		to, err := time.Parse("2006-01-02", param)
		if err != nil {
			response.BadRequest(w, "to must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	filter.IncludeVoided = query.Get("include_voided") == "true"

	result, err := h.ledgerService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) Void(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerService.Void(r.Context(), chi.URLParam(r, "transactionID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transaction voided", nil)
}

func (h *ledgerHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerService.Delete(r.Context(), chi.URLParam(r, "transactionID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transaction deleted", nil)
}
