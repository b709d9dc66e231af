package session

import "time"

// WebSession is a server-side session row for the postgres session driver.
// IDHash is the blake2b digest of the id carried in the browser cookie.
type WebSession struct {
	IDHash      string    `gorm:"column:id_hash;primaryKey"`
	AccessToken string    `gorm:"column:access_token;not null"`
	IsAdmin     bool      `gorm:"column:is_admin;not null;default:false"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WebSession) TableName() string {
	return "web_sessions"
}
