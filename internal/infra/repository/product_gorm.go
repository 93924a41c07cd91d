package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 商品の作成。model重複はErrDuplicate
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) error {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

// modelで商品を取得
func (r *ProductGormRepository) FindByModel(ctx context.Context, productModel string) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Where("model = ?", productModel).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// フィルタ付き一覧。availableOnlyならquantity>0のみ
func (r *ProductGormRepository) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if f.AvailableOnly {
		tx = tx.Where("quantity > 0")
	}
	if f.Category != nil {
		tx = tx.Where("category = ?", *f.Category)
	}
	if f.Model != nil {
		tx = tx.Where("model = ?", *f.Model)
	}

	var products []model.Product
	if err := tx.Order("model asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// quantity += delta、arrival_dateをchangeDateへ更新
func (r *ProductGormRepository) AddQuantity(ctx context.Context, productModel string, delta int64, changeDate time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("model = ?", productModel).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", delta),
			"arrival_date": changeDate,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ減らす
func (r *ProductGormRepository) DecreaseQuantityIfEnough(ctx context.Context, productModel string, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("model = ? AND quantity >= ?", productModel, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 商品削除
func (r *ProductGormRepository) DeleteByModel(ctx context.Context, productModel string) error {
	res := r.db.WithContext(ctx).
		Where("model = ?", productModel).
		Delete(&model.Product{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 全商品削除
func (r *ProductGormRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.Product{}).Error
}
