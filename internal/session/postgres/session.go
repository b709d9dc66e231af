package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	sessiondm "github.com/frahmantamala/jinzai/internal/core/datamodel/session"
	"github.com/frahmantamala/jinzai/internal/session"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) session.Repository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Save(ctx context.Context, s *sessiondm.WebSession) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "is_admin", "expires_at", "updated_at"}),
	}).Create(s).Error
}

func (r *SessionRepository) FindByHash(ctx context.Context, idHash string) (*sessiondm.WebSession, error) {
	var s sessiondm.WebSession
	err := r.db.WithContext(ctx).Where("id_hash = ?", idHash).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) DeleteByHash(ctx context.Context, idHash string) error {
	return r.db.WithContext(ctx).Where("id_hash = ?", idHash).Delete(&sessiondm.WebSession{}).Error
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&sessiondm.WebSession{})
	return res.RowsAffected, res.Error
}
