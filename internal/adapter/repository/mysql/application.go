package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appDomain "amanah-mortgage-backend/internal/domain/application"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.FinancingApplication) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*appDomain.FinancingApplication, error) {
	var out appDomain.FinancingApplication
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, appDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*appDomain.FinancingApplication, error) {
	var out appDomain.FinancingApplication
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", applicationID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, appDomain.ErrNotFound
	}
	return &out, res.Error
}

// Save writes the full row guarded by the optimistic version check.
func (r *ApplicationRepository) Save(ctx context.Context, a *appDomain.FinancingApplication) error {
	prev := a.Version
	a.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(a).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at").
		Updates(a)
	if res.Error != nil {
		a.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		a.Version = prev
		return appDomain.ErrConcurrentModification
	}
	return nil
}

func (r *ApplicationRepository) ListExpiredOffers(ctx context.Context, before time.Time) ([]appDomain.FinancingApplication, error) {
	var out []appDomain.FinancingApplication
	res := r.db.WithContext(ctx).
		Where("status = ? AND offer_expires_at IS NOT NULL AND offer_expires_at < ?", appDomain.StatusOfferSent, before).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) UpsertDocument(ctx context.Context, d *appDomain.Document) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "application_ref"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{"verification_status", "updated_at"}),
		}).
		Create(d).Error
}

func (r *ApplicationRepository) GetDocuments(ctx context.Context, applicationRef uint64) ([]appDomain.Document, error) {
	var out []appDomain.Document
	res := r.db.WithContext(ctx).
		Where("application_ref = ?", applicationRef).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) CreateStages(ctx context.Context, stages []appDomain.ApprovalStage) error {
	if len(stages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&stages).Error
}

func (r *ApplicationRepository) GetStages(ctx context.Context, applicationRef uint64) ([]appDomain.ApprovalStage, error) {
	var out []appDomain.ApprovalStage
	res := r.db.WithContext(ctx).
		Where("application_ref = ?", applicationRef).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) SaveStage(ctx context.Context, s *appDomain.ApprovalStage) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ApplicationRepository) AppendTransition(ctx context.Context, rec *appDomain.TransitionRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *ApplicationRepository) ListTransitions(ctx context.Context, applicationRef uint64) ([]appDomain.TransitionRecord, error) {
	var out []appDomain.TransitionRecord
	res := r.db.WithContext(ctx).
		Where("application_ref = ?", applicationRef).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
