package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ezelectronics/internal/domain/model"
)

type CartRepository interface {
	// 顧客の未払いカートを取得。無ければErrNotFound
	FindUnpaidByCustomer(ctx context.Context, username string) (model.Cart, error)

	// 顧客の未払いカートを取得し、無ければ作成
	GetOrCreateUnpaidByCustomer(ctx context.Context, username string) (model.Cart, error)

	UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error

	// paid=true、payment_dateをセット
	MarkPaid(ctx context.Context, cartID int64, paymentDate time.Time) error

	// 支払い済みカートのみ（履歴）。現在のカートは含まない
	ListPaidByCustomer(ctx context.Context, username string) ([]model.Cart, error)

	// 全顧客・支払い状況を問わず全件
	ListAll(ctx context.Context) ([]model.Cart, error)

	// カートと明細を全削除
	DeleteAll(ctx context.Context) error
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.ProductInCart, error)

	// (cart, model)で1件取得。無ければErrNotFound
	FindByCartAndModel(ctx context.Context, cartID int64, productModel string) (model.ProductInCart, error)

	Create(ctx context.Context, item model.ProductInCart) error
	UpdateQuantity(ctx context.Context, itemID int64, qty int64) error
	DeleteByID(ctx context.Context, itemID int64) error

	// カートの明細を全削除（クリア）
	DeleteByCartID(ctx context.Context, cartID int64) error
}
