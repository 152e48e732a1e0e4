package model

import "time"

type AppointmentType string

const (
	AppointmentShort AppointmentType = "short"
	AppointmentLong  AppointmentType = "long"
)

func (t AppointmentType) Valid() bool {
	return t == AppointmentShort || t == AppointmentLong
}

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	AppointmentNotesMaxLen = 500
	DateLayout             = "2006-01-02"
	TimeLayout             = "15:04"
)

type Appointment struct {
	ID          string            `json:"id"`
	UserID      string            `json:"-"`
	CounselorID string            `json:"-"`
	User        *AccountSummary   `json:"user"`
	Counselor   *AccountSummary   `json:"counselor"`
	Type        AppointmentType   `json:"type"`
	Date        time.Time         `json:"-"`
	Time        string            `json:"time"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Slot identifies a bookable counselor time.
type Slot struct {
	CounselorID string
	Date        time.Time
	Time        string
}

func (a *Appointment) Slot() Slot {
	return Slot{CounselorID: a.CounselorID, Date: a.Date, Time: a.Time}
}

func (s Slot) Key() string {
	return s.CounselorID + "|" + s.Date.Format(DateLayout) + "|" + s.Time
}
