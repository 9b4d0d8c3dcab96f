package staff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tindago/shop-backend-go/internal/domain/staff"
	"golang.org/x/crypto/bcrypt"
)

type StaffServiceImpl struct {
	staffRepo staff.StaffRepository
}

func NewStaffService(staffRepo staff.StaffRepository) staff.StaffService {
	return &StaffServiceImpl{staffRepo: staffRepo}
}

func (s *StaffServiceImpl) Create(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	created, err := s.staffRepo.Create(ctx, staff.Staff{
		ID:           uuid.NewString(),
		Name:         req.Name,
		EmployeeCode: req.EmployeeCode,
		Role:         staff.Role(req.Role),
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return toStaffResponse(created), nil
}

func (s *StaffServiceImpl) Get(ctx context.Context, id string) (staff.StaffResponse, error) {
	member, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	if profile, err := s.staffRepo.GetProfile(ctx, id); err == nil {
		member.Profile = &profile
	}
	return toStaffResponse(member), nil
}

func (s *StaffServiceImpl) List(ctx context.Context, role *staff.Role, activeOnly bool) ([]staff.StaffResponse, error) {
	members, err := s.staffRepo.List(ctx, role, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]staff.StaffResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, toStaffResponse(member))
	}
	return responses, nil
}

func (s *StaffServiceImpl) GetProfile(ctx context.Context, staffID string) (staff.PayrollProfileResponse, error) {
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	profile, err := s.staffRepo.GetProfile(ctx, staffID)
	if err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}

func (s *StaffServiceImpl) UpdateDefaultRate(ctx context.Context, req staff.UpdateDefaultRateRequest) (staff.PayrollProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	if _, err := s.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	if err := s.staffRepo.UpsertDefaultRate(ctx, req.StaffID, req.DefaultRate); err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	profile, err := s.staffRepo.GetProfile(ctx, req.StaffID)
	if err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}

func (s *StaffServiceImpl) AddRateChange(ctx context.Context, req staff.AddRateChangeRequest) (staff.PayrollProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	if _, err := s.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	if err := s.staffRepo.AppendRateChange(ctx, req.StaffID, req.Rate, effectiveFrom); err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	profile, err := s.staffRepo.GetProfile(ctx, req.StaffID)
	if err != nil {
		return staff.PayrollProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}

func toStaffResponse(member staff.Staff) staff.StaffResponse {
	resp := staff.StaffResponse{
		ID:           member.ID,
		Name:         member.Name,
		EmployeeCode: member.EmployeeCode,
		Role:         string(member.Role),
		IsActive:     member.IsActive,
	}
	if member.Profile != nil {
		profile := toProfileResponse(*member.Profile)
		resp.Profile = &profile
	}
	return resp
}

func toProfileResponse(profile staff.PayrollProfile) staff.PayrollProfileResponse {
	resp := staff.PayrollProfileResponse{
		StaffID:     profile.StaffID,
		DefaultRate: profile.DefaultRate,
		History:     make([]staff.RateChangeResponse, 0, len(profile.History)),
	}
	for _, entry := range profile.History {
		resp.History = append(resp.History, staff.RateChangeResponse{
			Rate:          entry.Rate,
			EffectiveFrom: entry.EffectiveFrom.Format("2006-01-02"),
		})
	}
	return resp
}
