package auth

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/jinzai/internal"
)

const PermissionAdmin = "admin"

// Permissions is the token's permissions claim. The backend sends a single
// string ("admin", "user"); a list is accepted as well.
type Permissions []string

func (p *Permissions) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*p = nil
		} else {
			*p = Permissions{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*p = list
	return nil
}

func (p Permissions) HasAny(required ...string) bool {
	for _, have := range p {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Claims are the parts of the backend access token the client reads.
type Claims struct {
	Permissions Permissions `json:"permissions"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Permissions.HasAny(PermissionAdmin)
}

// DecodeAccessToken reads the claims of a backend token without verifying
// its signature. The client has no key to verify with; the admin flag is a
// UI hint and the backend authorizes every call itself.
func DecodeAccessToken(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, internal.NewDecodeFailedError("Login successful, but failed to process user information.", err)
	}
	return claims, nil
}
