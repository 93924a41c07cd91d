package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.ProductInCart, error) {
	var items []model.ProductInCart

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.ProductInCart{}, err
	}
	return items, nil
}

// (cart, model)で明細を1件取得
func (r *CartItemGormRepository) FindByCartAndModel(ctx context.Context, cartID int64, productModel string) (model.ProductInCart, error) {
	var item model.ProductInCart

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND model = ?", cartID, productModel).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductInCart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductInCart{}, err
	}
	return item, nil
}

// 明細を新規作成。(cart, model)重複はErrDuplicate
func (r *CartItemGormRepository) Create(ctx context.Context, item model.ProductInCart) error {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

// 明細の数量を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, itemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductInCart{}).
		Where("id = ?", itemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, itemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ProductInCart{}, itemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 指定カートの明細を全削除
func (r *CartItemGormRepository) DeleteByCartID(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.ProductInCart{}).Error
}
