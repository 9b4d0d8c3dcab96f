package shift

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tindago/shop-backend-go/internal/domain/shift"
	"github.com/tindago/shop-backend-go/internal/domain/staff"
)

type ShiftServiceImpl struct {
	shiftRepo shift.ShiftRepository
	staffRepo staff.StaffRepository
	now       func() time.Time
}

func NewShiftService(shiftRepo shift.ShiftRepository, staffRepo staff.StaffRepository) shift.ShiftService {
	return &ShiftServiceImpl{
		shiftRepo: shiftRepo,
		staffRepo: staffRepo,
		now:       time.Now,
	}
}

func (s *ShiftServiceImpl) ClockIn(ctx context.Context, req shift.ClockInRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	member, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !member.IsActive {
		return shift.ShiftResponse{}, staff.ErrStaffInactive
	}

	if _, err := s.shiftRepo.GetOpenByStaffID(ctx, req.StaffID); err == nil {
		return shift.ShiftResponse{}, shift.ErrShiftAlreadyOpen
	} else if !errors.Is(err, shift.ErrShiftNotFound) {
		return shift.ShiftResponse{}, err
	}

	start := s.now()
	if req.Start != "" {
		start, _ = time.Parse(time.RFC3339, req.Start)
	}

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		ID:      uuid.NewString(),
		StaffID: req.StaffID,
		Start:   &start,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return toShiftResponse(created), nil
}

func (s *ShiftServiceImpl) ClockOut(ctx context.Context, req shift.ClockOutRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if existing.End != nil {
		return shift.ShiftResponse{}, shift.ErrShiftAlreadyClosed
	}

	end := s.now()
	if req.End != "" {
		end, _ = time.Parse(time.RFC3339, req.End)
	}

	existing.End = &end
	existing.CashCount = req.CashCount
	existing.TotalCash = req.TotalCash
	existing.ExpensesTotal = req.ExpensesTotal
	existing.SystemTotal = req.SystemTotal

	closed, err := s.shiftRepo.Close(ctx, existing)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return toShiftResponse(closed), nil
}

func (s *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return toShiftResponse(sh), nil
}

func (s *ShiftServiceImpl) ListByPeriod(ctx context.Context, start, end time.Time) ([]shift.ShiftResponse, error) {
	shifts, err := s.shiftRepo.ListByPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, toShiftResponse(sh))
	}
	return responses, nil
}

func toShiftResponse(sh shift.Shift) shift.ShiftResponse {
	return shift.ShiftResponse{
		ID:            sh.ID,
		StaffID:       sh.StaffID,
		StaffName:     sh.StaffName,
		Start:         sh.Start,
		End:           sh.End,
		MinutesWorked: sh.MinutesWorked(),
		CashCount:     sh.CashCount,
		TotalCash:     sh.TotalCash,
		ExpensesTotal: sh.ExpensesTotal,
		SystemTotal:   sh.SystemTotal,
		ExpectedCash:  sh.ExpectedCash(),
		Shortage:      sh.Shortage(),
		PayrollRunID:  sh.PayrollRunID,
	}
}
