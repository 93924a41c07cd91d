package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

// DI
func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

// レビューを作成。(model, user)重複はErrDuplicate
func (r *ReviewGormRepository) Create(ctx context.Context, review model.ProductReview) error {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

// 商品のレビューを一覧取得
func (r *ReviewGormRepository) ListByModel(ctx context.Context, productModel string) ([]model.ProductReview, error) {
	var reviews []model.ProductReview

	if err := r.db.WithContext(ctx).
		Where("model = ?", productModel).
		Order("id asc").
		Find(&reviews).Error; err != nil {
		return []model.ProductReview{}, err
	}
	return reviews, nil
}

// ユーザー自身のレビューを削除。0件ならErrNotFound
func (r *ReviewGormRepository) DeleteByModelAndUser(ctx context.Context, productModel string, username string) error {
	res := r.db.WithContext(ctx).
		Where(`model = ? AND "user" = ?`, productModel, username).
		Delete(&model.ProductReview{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品の全レビューを削除
func (r *ReviewGormRepository) DeleteByModel(ctx context.Context, productModel string) error {
	return r.db.WithContext(ctx).
		Where("model = ?", productModel).
		Delete(&model.ProductReview{}).Error
}

// 全レビューを削除
func (r *ReviewGormRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.ProductReview{}).Error
}
