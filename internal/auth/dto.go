package auth

import (
	"net/url"
	"strings"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/core/common/validation"
)

// LoginDTO is the login form.
type LoginDTO struct {
	Username string
	Password string
}

func LoginDTOFromForm(form url.Values) LoginDTO {
	return LoginDTO{
		Username: strings.TrimSpace(form.Get("username")),
		Password: form.Get("password"),
	}
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", "Username", d.Username).Required()
	v.Field("password", "Password", d.Password).Required()
	return v.Validate()
}
