package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"counsel_hub/internal/app/task"
	"counsel_hub/internal/common"
	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/domain/repository"
	"counsel_hub/internal/platform/mailer"

	"github.com/google/uuid"
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type AppointmentService struct {
	apptRepo  repository.AppointmentRepository
	adminRepo repository.AdminRepository
	mail      mailer.Sender
	tasks     *task.Runner
}

func NewAppointmentService(
	apptRepo repository.AppointmentRepository,
	adminRepo repository.AdminRepository,
	mail mailer.Sender,
	tasks *task.Runner,
) *AppointmentService {
	return &AppointmentService{apptRepo: apptRepo, adminRepo: adminRepo, mail: mail, tasks: tasks}
}

// AppointmentInput carries the client-settable fields. Nil means "not provided".
type AppointmentInput struct {
	Counselor *string `json:"counselor"`
	Type      *string `json:"type"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

func (s *AppointmentService) List(ctx context.Context, opts *query.Options) ([]model.Appointment, int, error) {
	return s.apptRepo.List(ctx, opts)
}

func (s *AppointmentService) ListForCounselor(ctx context.Context, identity model.Identity, counselorID string) ([]model.Appointment, error) {
	if !model.IsAdmin(identity) {
		return nil, common.NewError(common.ErrForbidden, "User role %s is not authorized to access this route", identity.Role())
	}
	if _, err := uuid.Parse(counselorID); err != nil {
		return nil, common.NewError(common.ErrNotFound, "Counselor not found with id of %s", counselorID)
	}
	return s.apptRepo.ListByCounselor(ctx, counselorID)
}

func (s *AppointmentService) Get(ctx context.Context, identity model.Identity, id string) (*model.Appointment, error) {
	appt, err := s.apptRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrValidation) {
			return nil, common.NewError(common.ErrNotFound, "Appointment not found with id of %s", id)
		}
		return nil, err
	}
	if !canAccess(identity, appt) {
		return nil, common.NewError(common.ErrUnauthorized, "Not authorized to access this appointment")
	}
	return appt, nil
}

func (s *AppointmentService) Create(ctx context.Context, identity model.Identity, in AppointmentInput) (*model.Appointment, error) {
	appt := &model.Appointment{
		ID:     uuid.NewString(),
		UserID: identity.AccountID(),
		Status: model.StatusPending,
	}
	if in.Counselor == nil || strings.TrimSpace(*in.Counselor) == "" {
		return nil, common.NewError(common.ErrValidation, "Please add a counselor")
	}
	if in.Type == nil {
		return nil, common.NewError(common.ErrValidation, "Please add an appointment type")
	}
	if in.Date == nil {
		return nil, common.NewError(common.ErrValidation, "Please add a date")
	}
	if in.Time == nil {
		return nil, common.NewError(common.ErrValidation, "Please add a time")
	}
	if err := applyAppointmentInput(appt, in); err != nil {
		return nil, err
	}
	if err := s.ensureCounselor(ctx, appt.CounselorID); err != nil {
		return nil, err
	}

	taken, err := s.apptRepo.SlotTaken(ctx, appt.Slot(), "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrSlotTaken
	}
	// the store constraint settles races the pre-check cannot see
	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	created, err := s.apptRepo.FindByID(ctx, appt.ID)
	if err != nil {
		return nil, err
	}
	s.notifyBooked(created)
	return created, nil
}

func (s *AppointmentService) Update(ctx context.Context, identity model.Identity, id string, in AppointmentInput) (*model.Appointment, error) {
	appt, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	before := appt.Slot()

	if err := applyAppointmentInput(appt, in); err != nil {
		return nil, err
	}
	if appt.CounselorID != before.CounselorID {
		if err := s.ensureCounselor(ctx, appt.CounselorID); err != nil {
			return nil, err
		}
	}
	if appt.Slot().Key() != before.Key() {
		taken, err := s.apptRepo.SlotTaken(ctx, appt.Slot(), appt.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ErrSlotTaken
		}
	}

	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return s.apptRepo.FindByID(ctx, appt.ID)
}

func (s *AppointmentService) Delete(ctx context.Context, identity model.Identity, id string) error {
	appt, err := s.Get(ctx, identity, id)
	if err != nil {
		return err
	}
	if err := s.apptRepo.Delete(ctx, appt.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewError(common.ErrNotFound, "Appointment not found with id of %s", id)
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *AppointmentService) ensureCounselor(ctx context.Context, counselorID string) error {
	if _, err := uuid.Parse(counselorID); err != nil {
		return common.NewError(common.ErrNotFound, "Counselor not found with id of %s", counselorID)
	}
	if _, err := s.adminRepo.FindByID(ctx, counselorID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewError(common.ErrNotFound, "Counselor not found with id of %s", counselorID)
		}
		return err
	}
	return nil
}

// notifyBooked mails the requester in the background; the booking stands
// whether or not delivery succeeds.
func (s *AppointmentService) notifyBooked(appt *model.Appointment) {
	if appt.User == nil || appt.User.Email == "" {
		return
	}
	counselor := appt.CounselorID
	if appt.Counselor != nil && appt.Counselor.Name != "" {
		counselor = appt.Counselor.Name
	}
	msg := mailer.Message{
		To:      appt.User.Email,
		Subject: "Appointment request received",
		Body: fmt.Sprintf("Your %s appointment with %s on %s at %s has been received and is %s.",
			appt.Type, counselor, appt.Date.Format(model.DateLayout), appt.Time, appt.Status),
	}
	s.tasks.Go("appointment-email:"+appt.ID, func(ctx context.Context) error {
		return s.mail.Send(ctx, msg)
	})
}

func canAccess(identity model.Identity, appt *model.Appointment) bool {
	switch identity.(type) {
	case model.AdminIdentity:
		return true
	case model.UserIdentity:
		return appt.UserID == identity.AccountID()
	}
	return false
}

func applyAppointmentInput(appt *model.Appointment, in AppointmentInput) error {
	if in.Counselor != nil {
		appt.CounselorID = strings.TrimSpace(*in.Counselor)
	}
	if in.Type != nil {
		t := model.AppointmentType(*in.Type)
		if !t.Valid() {
			return common.NewError(common.ErrValidation, "Appointment type must be short or long")
		}
		appt.Type = t
	}
	if in.Date != nil {
		d, err := query.ParseDate(strings.TrimSpace(*in.Date))
		if err != nil {
			return common.NewError(common.ErrValidation, "Please add a valid date (YYYY-MM-DD)")
		}
		appt.Date = d
	}
	if in.Time != nil {
		t := strings.TrimSpace(*in.Time)
		if !timePattern.MatchString(t) {
			return common.NewError(common.ErrValidation, "Please add a valid time (HH:MM)")
		}
		appt.Time = t
	}
	if in.Status != nil {
		st := model.AppointmentStatus(*in.Status)
		if !st.Valid() {
			return common.NewError(common.ErrValidation, "Status must be one of pending, confirmed, completed, cancelled")
		}
		appt.Status = st
	}
	if in.Notes != nil {
		if utf8.RuneCountInString(*in.Notes) > model.AppointmentNotesMaxLen {
			return common.NewError(common.ErrValidation, "Notes can not be more than %d characters", model.AppointmentNotesMaxLen)
		}
		appt.Notes = *in.Notes
	}
	return nil
}
