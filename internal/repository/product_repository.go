package repository

import (
	"context"
	"errors"
	"time"

	"ezelectronics/internal/domain/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// 一覧の絞り込み。categoryかmodelのどちらか一方のみ指定できる。
type ProductFilter struct {
	Category      *model.Category
	Model         *string
	AvailableOnly bool // quantity > 0 のみ
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 作成。model重複はErrDuplicate
	Create(ctx context.Context, p model.Product) error

	// modelで1件取得
	FindByModel(ctx context.Context, productModel string) (model.Product, error)

	List(ctx context.Context, f ProductFilter) ([]model.Product, error)

	// quantity += delta、arrival_dateをchangeDateへ更新
	AddQuantity(ctx context.Context, productModel string, delta int64, changeDate time.Time) error

	// 在庫が足りるときだけ減算
	DecreaseQuantityIfEnough(ctx context.Context, productModel string, qty int64) (bool, error)

	DeleteByModel(ctx context.Context, productModel string) error
	DeleteAll(ctx context.Context) error
}
