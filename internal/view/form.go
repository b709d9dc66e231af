package view

import (
	"net/url"
	"strings"

	"github.com/frahmantamala/jinzai/internal"
)

// Form carries submitted values and their errors back into a page.
type Form struct {
	Values  map[string]string
	Errors  map[string]string
	Message string
}

func NewForm(values url.Values) Form {
	f := Form{Values: make(map[string]string, len(values)), Errors: map[string]string{}}
	for k := range values {
		f.Values[k] = strings.TrimSpace(values.Get(k))
	}
	return f
}

func (f Form) Value(key string) string {
	return f.Values[key]
}

func (f Form) Error(key string) string {
	return f.Errors[key]
}

func (f Form) Checked(key string) bool {
	switch f.Values[key] {
	case "on", "true", "1":
		return true
	}
	return false
}

func (f Form) HasErrors() bool {
	return len(f.Errors) > 0 || f.Message != ""
}

// Fail records err on the form: field errors go next to their inputs,
// anything else becomes the form message.
func (f *Form) Fail(err error) {
	if f.Errors == nil {
		f.Errors = map[string]string{}
	}
	if appErr, ok := internal.IsAppError(err); ok {
		if details, ok := appErr.Details.(internal.ValidationErrors); ok && len(details.Errors) > 0 {
			for _, fe := range details.Errors {
				if _, seen := f.Errors[fe.Field]; !seen {
					f.Errors[fe.Field] = fe.Message
				}
			}
			return
		}
	}
	f.Message = internal.UserMessage(err)
}
