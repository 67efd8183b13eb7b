package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create persists the account and its schedule in one go. The unique index
// on application_ref turns a duplicate activation into a constraint error.
func (r *AccountRepository) Create(ctx context.Context, acc *acctDomain.MortgageAccount, items []acctDomain.ScheduleItem) error {
	if err := r.db.WithContext(ctx).Create(acc).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].AccountRef = acc.ID
	}
	return r.db.WithContext(ctx).CreateInBatches(&items, 200).Error
}

func (r *AccountRepository) GetByAccountID(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
	var out acctDomain.MortgageAccount
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, acctDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
	var out acctDomain.MortgageAccount
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, acctDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) GetByApplicationRef(ctx context.Context, applicationRef uint64) (*acctDomain.MortgageAccount, error) {
	var out acctDomain.MortgageAccount
	res := r.db.WithContext(ctx).Where("application_ref = ?", applicationRef).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, acctDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) Save(ctx context.Context, acc *acctDomain.MortgageAccount) error {
	prev := acc.Version
	acc.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(acc).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at").
		Updates(acc)
	if res.Error != nil {
		acc.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		acc.Version = prev
		return acctDomain.ErrConcurrentModification
	}
	return nil
}

func (r *AccountRepository) GetSchedule(ctx context.Context, accountRef uint64) ([]acctDomain.ScheduleItem, error) {
	var out []acctDomain.ScheduleItem
	res := r.db.WithContext(ctx).
		Where("account_ref = ?", accountRef).
		Order("period ASC").
		Find(&out)
	return out, res.Error
}

func (r *AccountRepository) GetItemByItemID(ctx context.Context, itemID string) (*acctDomain.ScheduleItem, error) {
	var out acctDomain.ScheduleItem
	res := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, acctDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) SaveItem(ctx context.Context, it *acctDomain.ScheduleItem) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *AccountRepository) DeleteUnsettled(ctx context.Context, accountRef uint64) error {
	return r.db.WithContext(ctx).
		Where("account_ref = ? AND status IN ?", accountRef,
			[]acctDomain.ItemStatus{acctDomain.ItemUpcoming, acctDomain.ItemOverdue}).
		Delete(&acctDomain.ScheduleItem{}).Error
}

func (r *AccountRepository) CreateItems(ctx context.Context, items []acctDomain.ScheduleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&items, 200).Error
}

func (r *AccountRepository) CreatePayment(ctx context.Context, p *acctDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *AccountRepository) ListPayments(ctx context.Context, accountRef uint64) ([]acctDomain.Payment, error) {
	var out []acctDomain.Payment
	res := r.db.WithContext(ctx).
		Where("account_ref = ?", accountRef).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *AccountRepository) ListMonitored(ctx context.Context) ([]acctDomain.MortgageAccount, error) {
	var out []acctDomain.MortgageAccount
	res := r.db.WithContext(ctx).
		Where("monitor_suspended = ? AND status IN ?", false,
			[]acctDomain.Status{acctDomain.StatusActive, acctDomain.StatusInArrears, acctDomain.StatusDefault}).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
