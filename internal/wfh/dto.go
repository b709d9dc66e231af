package wfh

import (
	"net/url"
	"strings"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/core/calendar"
	"github.com/frahmantamala/jinzai/internal/core/common/validation"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	wfhdm "github.com/frahmantamala/jinzai/internal/core/datamodel/wfh"
)

type CreateWfhDTO struct {
	Category  string
	StartDate string
	EndDate   string
	Reason    string
}

func CreateWfhDTOFromForm(form url.Values) CreateWfhDTO {
	return CreateWfhDTO{
		Category:  strings.TrimSpace(form.Get("category")),
		StartDate: strings.TrimSpace(form.Get("start_date")),
		EndDate:   strings.TrimSpace(form.Get("end_date")),
		Reason:    strings.TrimSpace(form.Get("reason")),
	}
}

func (d CreateWfhDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("category", "Category", d.Category).OneOf(categoryNames()...)
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

func (d CreateWfhDTO) Request() wfhdm.CreateWfhRequest {
	start, _ := calendar.ParseDate(d.StartDate)
	end, _ := calendar.ParseDate(d.EndDate)

	req := wfhdm.CreateWfhRequest{
		Category:  wfhdm.Category(d.Category),
		StartDate: start,
		EndDate:   end,
		NumDays:   start.DaysThrough(end),
		Status:    leavedm.StatusPending,
	}
	if d.Reason != "" {
		reason := d.Reason
		req.Reason = &reason
	}
	return req
}

type FilterDTO struct {
	Category string
	Status   string
}

func FilterDTOFromQuery(q url.Values) FilterDTO {
	return FilterDTO{
		Category: strings.TrimSpace(q.Get("category")),
		Status:   strings.TrimSpace(q.Get("status")),
	}
}

func (d FilterDTO) Validate() *internal.AppError {
	statuses := make([]string, len(leavedm.Statuses))
	for i, s := range leavedm.Statuses {
		statuses[i] = string(s)
	}

	v := validation.NewValidator()
	v.Field("category", "Category", d.Category).OneOf(categoryNames()...)
	v.Field("status", "Status", d.Status).OneOf(statuses...)
	return v.Validate()
}

func (d FilterDTO) Filter() Filter {
	return Filter{Category: wfhdm.Category(d.Category), Status: leavedm.Status(d.Status)}
}

// Filter narrows a WFH list. The category is matched against the derived
// category when the backend sent none.
type Filter struct {
	Category wfhdm.Category
	Status   leavedm.Status
}

func (f Filter) Apply(reqs []wfhdm.WfhRequest) []wfhdm.WfhRequest {
	out := make([]wfhdm.WfhRequest, 0, len(reqs))
	for _, r := range reqs {
		if f.Category != "" && r.EffectiveCategory() != f.Category {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

func categoryNames() []string {
	names := make([]string, len(wfhdm.Categories))
	for i, c := range wfhdm.Categories {
		names[i] = string(c)
	}
	return names
}
