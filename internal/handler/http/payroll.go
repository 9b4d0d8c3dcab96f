package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tindago/shop-backend-go/internal/domain/payroll"
	"github.com/tindago/shop-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)

	CreateRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	SaveDraft(w http.ResponseWriter, r *http.Request)

	SetLineRate(w http.ResponseWriter, r *http.Request)
	OverrideShift(w http.ResponseWriter, r *http.Request)
	AddAdjustment(w http.ResponseWriter, r *http.Request)
	UpdateAdjustment(w http.ResponseWriter, r *http.Request)
	RemoveAdjustment(w http.ResponseWriter, r *http.Request)

	Finalize(w http.ResponseWriter, r *http.Request)
	VoidRun(w http.ResponseWriter, r *http.Request)

	ListPaystubs(w http.ResponseWriter, r *http.Request)
	GetPaystub(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PREVIEW ==========

func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	req := payroll.PreviewRequest{
		PeriodStart: r.URL.Query().Get("period_start"),
		PeriodEnd:   r.URL.Query().Get("period_end"),
	}

	result, err := h.payrollService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run created", result)
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListRuns(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SaveDraft(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.SaveDraft(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== LINE EDITOR ==========

func (h *payrollHandlerImpl) SetLineRate(w http.ResponseWriter, r *http.Request) {
	var req payroll.SetLineRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RunID = chi.URLParam(r, "runID")
	req.StaffID = chi.URLParam(r, "staffID")

	result, err := h.payrollService.SetLineRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) OverrideShift(w http.ResponseWriter, r *http.Request) {
	var req payroll.OverrideShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RunID = chi.URLParam(r, "runID")
	req.StaffID = chi.URLParam(r, "staffID")
	req.ShiftID = chi.URLParam(r, "shiftID")

	result, err := h.payrollService.OverrideShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	var req payroll.AddAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RunID = chi.URLParam(r, "runID")
	req.StaffID = chi.URLParam(r, "staffID")

	result, err := h.payrollService.AddAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RunID = chi.URLParam(r, "runID")
	req.StaffID = chi.URLParam(r, "staffID")
	req.AdjustmentID = chi.URLParam(r, "adjustmentID")

	result, err := h.payrollService.UpdateAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RemoveAdjustment(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.RemoveAdjustment(r.Context(),
		chi.URLParam(r, "runID"),
		chi.URLParam(r, "staffID"),
		chi.URLParam(r, "adjustmentID"),
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== POSTING ==========

func (h *payrollHandlerImpl) Finalize(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Finalize(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run posted", result)
}

func (h *payrollHandlerImpl) VoidRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.VoidRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run voided", result)
}

// ========== PAYSTUBS ==========

func (h *payrollHandlerImpl) ListPaystubs(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPaystubs(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPaystub(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPaystub(r.Context(),
		chi.URLParam(r, "runID"),
		chi.URLParam(r, "staffID"),
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
