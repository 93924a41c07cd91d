package repository

import (
	"context"

	"ezelectronics/internal/domain/model"
)

type ReviewRepository interface {
	// 作成。(model, user)重複はErrDuplicate
	Create(ctx context.Context, review model.ProductReview) error

	ListByModel(ctx context.Context, productModel string) ([]model.ProductReview, error)

	// 0件削除はErrNotFound（そのユーザーのレビューが無い）
	DeleteByModelAndUser(ctx context.Context, productModel string, username string) error

	DeleteByModel(ctx context.Context, productModel string) error
	DeleteAll(ctx context.Context) error
}
