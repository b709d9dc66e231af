package leave

import (
	"encoding/json"

	"github.com/frahmantamala/jinzai/internal/core/calendar"
)

type Type string

const (
	TypeAnnual Type = "annual"
	TypeSick   Type = "sick"
	TypeCasual Type = "casual"
	TypeUnpaid Type = "unpaid"
	TypeOther  Type = "other"
)

var Types = []Type{TypeAnnual, TypeSick, TypeCasual, TypeUnpaid, TypeOther}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

func (t Type) Label() string {
	switch t {
	case TypeAnnual:
		return "Annual Leave"
	case TypeSick:
		return "Sick Leave"
	case TypeCasual:
		return "Casual Leave"
	case TypeUnpaid:
		return "Unpaid Leave"
	case TypeOther:
		return "Other"
	}
	return string(t)
}

// Status is shared by leave and WFH requests.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusWithdrawn}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Withdrawable reports whether the owner may still withdraw the request.
func (s Status) Withdrawable() bool {
	return s == StatusPending
}

type LeaveRequest struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	LeaveType Type          `json:"leave_type"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	NumDays   int           `json:"num_days"`
	Status    Status        `json:"status"`
	Reason    *string       `json:"reason"`
}

// UnmarshalJSON also accepts the older from_date/to_date/comments field names.
func (l *LeaveRequest) UnmarshalJSON(b []byte) error {
	type plain LeaveRequest
	var aux struct {
		plain
		FromDate *calendar.Date `json:"from_date"`
		ToDate   *calendar.Date `json:"to_date"`
		Comments *string        `json:"comments"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*l = LeaveRequest(aux.plain)
	if l.StartDate.IsZero() && aux.FromDate != nil {
		l.StartDate = *aux.FromDate
	}
	if l.EndDate.IsZero() && aux.ToDate != nil {
		l.EndDate = *aux.ToDate
	}
	if l.Reason == nil && aux.Comments != nil {
		l.Reason = aux.Comments
	}
	return nil
}

// ReasonText returns the reason or "" when none was given.
func (l LeaveRequest) ReasonText() string {
	if l.Reason == nil {
		return ""
	}
	return *l.Reason
}

// CreateLeaveRequest is the body for POST /api/v1/leaves and
// POST /api/v1/admin/leaves. Reason is a pointer so a blank reason is sent as null.
type CreateLeaveRequest struct {
	UserID    int64         `json:"user_id,omitempty"`
	LeaveType Type          `json:"leave_type"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	NumDays   int           `json:"num_days"`
	Status    Status        `json:"status"`
	Reason    *string       `json:"reason"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}
