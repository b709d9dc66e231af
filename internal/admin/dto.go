package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/core/common/validation"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
)

type CreateUserDTO struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsActive    bool
	IsSuperuser bool
}

func CreateUserDTOFromForm(form url.Values) CreateUserDTO {
	return CreateUserDTO{
		Email:       strings.TrimSpace(form.Get("email")),
		Password:    form.Get("password"),
		FirstName:   strings.TrimSpace(form.Get("first_name")),
		LastName:    strings.TrimSpace(form.Get("last_name")),
		IsActive:    checked(form.Get("is_active")),
		IsSuperuser: checked(form.Get("is_superuser")),
	}
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", "Email", d.Email).Required().MaxLength(255)
	v.Field("password", "Password", d.Password).Required()
	v.Field("first_name", "First Name", d.FirstName).MaxLength(100)
	v.Field("last_name", "Last Name", d.LastName).MaxLength(100)
	return v.Validate()
}

func (d CreateUserDTO) Request() userdm.CreateUserRequest {
	return userdm.CreateUserRequest{
		Email:       d.Email,
		Password:    d.Password,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		IsActive:    d.IsActive,
		IsSuperuser: d.IsSuperuser,
	}
}

// AdjustDaysDTO carries the raw text of the days input; it is only turned
// into a number once it validates.
type AdjustDaysDTO struct {
	Days string
}

func AdjustDaysDTOFromForm(form url.Values) AdjustDaysDTO {
	return AdjustDaysDTO{Days: strings.TrimSpace(form.Get("granted_additional_days"))}
}

func (d AdjustDaysDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("granted_additional_days", "Granted Additional Days", d.Days).Required().NonNegativeInt()
	return v.Validate()
}

func (d AdjustDaysDTO) Value() int {
	n, _ := strconv.Atoi(d.Days)
	return n
}

func checked(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	}
	return false
}
