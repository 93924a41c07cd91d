package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 顧客の未払いカートを取得
func (r *CartGormRepository) FindUnpaidByCustomer(ctx context.Context, username string) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("customer = ? AND paid = ?", username, false).
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 顧客の未払いカートを取得し、無ければ作成。
// 同時リクエストでの二重作成を避けるため行ロック付きで探す。
func (r *CartGormRepository) GetOrCreateUnpaidByCustomer(ctx context.Context, username string) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer = ? AND paid = ?", username, false).
			Order("id desc").
			First(&cart).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		newCart := model.Cart{
			Customer: username,
			Paid:     false,
			Total:    decimal.Zero,
		}
		if err := tx.Create(&newCart).Error; err != nil {
			// 同時作成と競合した場合はもう一度探す
			retryErr := tx.
				Where("customer = ? AND paid = ?", username, false).
				Order("id desc").
				First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// carts.totalを更新
func (r *CartGormRepository) UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total", total)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// paid=trueにして支払い日を記録。支払い済みカートは以後変更しない
func (r *CartGormRepository) MarkPaid(ctx context.Context, cartID int64, paymentDate time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ? AND paid = ?", cartID, false).
		Updates(map[string]interface{}{
			"paid":         true,
			"payment_date": paymentDate,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 支払い済みカートのみ（履歴）
func (r *CartGormRepository) ListPaidByCustomer(ctx context.Context, username string) ([]model.Cart, error) {
	var carts []model.Cart

	err := r.db.WithContext(ctx).
		Where("customer = ? AND paid = ?", username, true).
		Order("id asc").
		Find(&carts).Error

	if err != nil {
		return []model.Cart{}, err
	}
	return carts, nil
}

// 全顧客の全カート
func (r *CartGormRepository) ListAll(ctx context.Context) ([]model.Cart, error) {
	var carts []model.Cart

	err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&carts).Error

	if err != nil {
		return []model.Cart{}, err
	}
	return carts, nil
}

// カートと明細を全削除
func (r *CartGormRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ProductInCart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Cart{}).Error; err != nil {
			return err
		}
		return nil
	})
}
