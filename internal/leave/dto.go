package leave

import (
	"net/url"
	"strings"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/core/calendar"
	"github.com/frahmantamala/jinzai/internal/core/common/validation"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
)

// CreateLeaveDTO is the create-leave form, shared by the member page and the
// admin screen.
type CreateLeaveDTO struct {
	LeaveType string
	StartDate string
	EndDate   string
	Reason    string
}

func CreateLeaveDTOFromForm(form url.Values) CreateLeaveDTO {
	return CreateLeaveDTO{
		LeaveType: strings.TrimSpace(form.Get("leave_type")),
		StartDate: strings.TrimSpace(form.Get("start_date")),
		EndDate:   strings.TrimSpace(form.Get("end_date")),
		Reason:    strings.TrimSpace(form.Get("reason")),
	}
}

func (d CreateLeaveDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("leave_type", "Leave Type", d.LeaveType).Required().OneOf(typeNames()...)
	v.Field("start_date", "Start Date", d.StartDate).Required().Date()
	v.Field("end_date", "End Date", d.EndDate).Required().Date()
	v.Field("reason", "Reason", d.Reason).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}

	start, _ := calendar.ParseDate(d.StartDate)
	end, _ := calendar.ParseDate(d.EndDate)
	return validation.ValidateDateRange(start, end)
}

// Request builds the backend body. userID is ignored by the member endpoint.
// Call Validate first.
func (d CreateLeaveDTO) Request(userID int64) leavedm.CreateLeaveRequest {
	start, _ := calendar.ParseDate(d.StartDate)
	end, _ := calendar.ParseDate(d.EndDate)

	req := leavedm.CreateLeaveRequest{
		UserID:    userID,
		LeaveType: leavedm.Type(d.LeaveType),
		StartDate: start,
		EndDate:   end,
		NumDays:   start.DaysThrough(end),
		Status:    leavedm.StatusPending,
	}
	// never send an empty string
	if d.Reason != "" {
		reason := d.Reason
		req.Reason = &reason
	}
	return req
}

// FilterDTO is the query string of the leave list.
type FilterDTO struct {
	Type   string
	Status string
	From   string
	To     string
}

func FilterDTOFromQuery(q url.Values) FilterDTO {
	return FilterDTO{
		Type:   strings.TrimSpace(q.Get("type")),
		Status: strings.TrimSpace(q.Get("status")),
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
	}
}

func (d FilterDTO) Validate() *internal.AppError {
	statuses := make([]string, len(leavedm.Statuses))
	for i, s := range leavedm.Statuses {
		statuses[i] = string(s)
	}

	v := validation.NewValidator()
	v.Field("type", "Type", d.Type).OneOf(typeNames()...)
	v.Field("status", "Status", d.Status).OneOf(statuses...)
	v.Field("from", "From", d.From).Date()
	v.Field("to", "To", d.To).Date()
	return v.Validate()
}

// Filter narrows a leave list. Zero fields match everything.
type Filter struct {
	Type   leavedm.Type
	Status leavedm.Status
	From   calendar.Date
	To     calendar.Date
}

// Filter converts a validated FilterDTO.
func (d FilterDTO) Filter() Filter {
	f := Filter{Type: leavedm.Type(d.Type), Status: leavedm.Status(d.Status)}
	f.From, _ = calendar.ParseDate(d.From)
	f.To, _ = calendar.ParseDate(d.To)
	return f
}

func (f Filter) Match(l leavedm.LeaveRequest) bool {
	if f.Type != "" && l.LeaveType != f.Type {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	return calendar.Overlaps(l.StartDate, l.EndDate, f.From, f.To)
}

func (f Filter) Apply(leaves []leavedm.LeaveRequest) []leavedm.LeaveRequest {
	out := make([]leavedm.LeaveRequest, 0, len(leaves))
	for _, l := range leaves {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

func typeNames() []string {
	names := make([]string, len(leavedm.Types))
	for i, t := range leavedm.Types {
		names[i] = string(t)
	}
	return names
}
