package wfh

import (
	"encoding/json"

	"github.com/frahmantamala/jinzai/internal/core/calendar"
	"github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
)

// Category is display-only; the backend does not require it.
type Category string

const (
	CategoryFull     Category = "full"
	CategoryPartial  Category = "partial"
	CategorySpecific Category = "specific"
)

var Categories = []Category{CategoryFull, CategoryPartial, CategorySpecific}

func (c Category) Label() string {
	switch c {
	case CategoryFull:
		return "Full Week"
	case CategoryPartial:
		return "Partial Week"
	case CategorySpecific:
		return "Specific Days"
	}
	return string(c)
}

type WfhRequest struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Category  Category      `json:"category,omitempty"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	NumDays   int           `json:"num_days"`
	Status    leave.Status  `json:"status"`
	Reason    *string       `json:"reason"`
}

func (w *WfhRequest) UnmarshalJSON(b []byte) error {
	type plain WfhRequest
	var aux struct {
		plain
		FromDate *calendar.Date `json:"from_date"`
		ToDate   *calendar.Date `json:"to_date"`
		Comments *string        `json:"comments"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*w = WfhRequest(aux.plain)
	if w.StartDate.IsZero() && aux.FromDate != nil {
		w.StartDate = *aux.FromDate
	}
	if w.EndDate.IsZero() && aux.ToDate != nil {
		w.EndDate = *aux.ToDate
	}
	if w.Reason == nil && aux.Comments != nil {
		w.Reason = aux.Comments
	}
	return nil
}

// EffectiveCategory returns the stored category or derives one from the range.
func (w WfhRequest) EffectiveCategory() Category {
	if w.Category != "" {
		return w.Category
	}
	days := w.NumDays
	if days == 0 {
		days = w.StartDate.DaysThrough(w.EndDate)
	}
	switch {
	case days >= 5:
		return CategoryFull
	case days <= 1:
		return CategorySpecific
	default:
		return CategoryPartial
	}
}

func (w WfhRequest) ReasonText() string {
	if w.Reason == nil {
		return ""
	}
	return *w.Reason
}

type CreateWfhRequest struct {
	Category  Category      `json:"category,omitempty"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	NumDays   int           `json:"num_days"`
	Status    leave.Status  `json:"status"`
	Reason    *string       `json:"reason"`
}
