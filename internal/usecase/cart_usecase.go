package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

// カートのライフサイクルを管理する。
// 顧客1人につき未払いカートは1つ。複文の更新は必ずTransactionManager内で行い、
// チェックアウトの検証と在庫減算が中途半端に残らないようにする。
type CartUsecase struct {
	tx           repo.TransactionManager
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	auditRepo    repo.AuditLogRepository
	clock        Clock
}

// DI
func NewCartUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *CartUsecase {
	return &CartUsecase{
		tx:           tx,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		auditRepo:    auditRepo,
		clock:        clock,
	}
}

// カート明細のAPI表現。priceは追加時点のスナップショット
type ProductInCartResponse struct {
	Model    string          `json:"model"`
	Quantity int64           `json:"quantity"`
	Category model.Category  `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type CartResponse struct {
	Customer    string                  `json:"customer"`
	Paid        bool                    `json:"paid"`
	PaymentDate *string                 `json:"paymentDate"`
	Total       decimal.Decimal         `json:"total"`
	Products    []ProductInCartResponse `json:"products"`
}

// 「カートが無い」は空カートとして表現する（エラーにしない）
func emptyCartResponse(username string) CartResponse {
	return CartResponse{
		Customer:    username,
		Paid:        false,
		PaymentDate: nil,
		Total:       decimal.Zero,
		Products:    []ProductInCartResponse{},
	}
}

func toCartResponse(cart model.Cart, items []model.ProductInCart) CartResponse {
	respItems := make([]ProductInCartResponse, 0, len(items))
	for _, it := range items {
		respItems = append(respItems, ProductInCartResponse{
			Model:    it.Model,
			Quantity: it.Quantity,
			Category: it.Category,
			Price:    it.Price,
		})
	}

	var paymentDate *string
	if cart.PaymentDate != nil {
		s := cart.PaymentDate.Format(DateLayout)
		paymentDate = &s
	}

	return CartResponse{
		Customer:    cart.Customer,
		Paid:        cart.Paid,
		PaymentDate: paymentDate,
		Total:       cart.Total,
		Products:    respItems,
	}
}

// GetCurrentCart は顧客の未払いカートを返す。
// まだカートが無ければ空カートを返し、エラーにはしない。
func (u *CartUsecase) GetCurrentCart(ctx context.Context, actor model.User) (CartResponse, error) {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return CartResponse{}, err
	}

	cart, err := u.cartRepo.FindUnpaidByCustomer(ctx, actor.Username)
	if errors.Is(err, repo.ErrNotFound) {
		return emptyCartResponse(actor.Username), nil
	}
	if err != nil {
		return CartResponse{}, ErrInternal
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, ErrInternal
	}
	return toCartResponse(cart, items), nil
}

// AddProductToCart は商品を1個カートに追加する。
// カートが無ければ作成。同じ商品は数量+1。totalは単価ぶん増える。
func (u *CartUsecase) AddProductToCart(ctx context.Context, actor model.User, productModel string) (CartResponse, error) {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return CartResponse{}, err
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByModel(ctx, productModel)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return ErrInternal
		}
		if p.Quantity == 0 {
			return ErrEmptyProductStock
		}

		cart, err := r.Carts().GetOrCreateUnpaidByCustomer(ctx, actor.Username)
		if err != nil {
			return ErrInternal
		}

		item, err := r.CartItems().FindByCartAndModel(ctx, cart.ID, productModel)
		switch {
		case err == nil:
			// 既存明細は数量+1。totalは追加時点の単価で増やす
			if err := r.CartItems().UpdateQuantity(ctx, item.ID, item.Quantity+1); err != nil {
				return ErrInternal
			}
			cart.Total = cart.Total.Add(item.Price)

		case errors.Is(err, repo.ErrNotFound):
			// 新規明細。categoryとpriceは今の商品からスナップショット
			newItem := model.ProductInCart{
				CartID:   cart.ID,
				Model:    p.Model,
				Quantity: 1,
				Category: p.Category,
				Price:    p.SellingPrice,
			}
			if err := r.CartItems().Create(ctx, newItem); err != nil {
				return ErrInternal
			}
			cart.Total = cart.Total.Add(p.SellingPrice)

		default:
			return ErrInternal
		}

		if err := r.Carts().UpdateTotal(ctx, cart.ID, cart.Total); err != nil {
			return ErrInternal
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return ErrInternal
		}
		out = toCartResponse(cart, items)
		return nil
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// RemoveProductFromCart は商品を1個カートから外す。
// 数量1の明細は削除、それ以外は数量-1。totalは明細の単価ぶん減る。
func (u *CartUsecase) RemoveProductFromCart(ctx context.Context, actor model.User, productModel string) (CartResponse, error) {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return CartResponse{}, err
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindUnpaidByCustomer(ctx, actor.Username)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return ErrInternal
		}

		item, err := r.CartItems().FindByCartAndModel(ctx, cart.ID, productModel)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotInCart
		}
		if err != nil {
			return ErrInternal
		}

		if item.Quantity == 1 {
			if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
				return ErrInternal
			}
		} else {
			if err := r.CartItems().UpdateQuantity(ctx, item.ID, item.Quantity-1); err != nil {
				return ErrInternal
			}
		}

		cart.Total = cart.Total.Sub(item.Price)
		if err := r.Carts().UpdateTotal(ctx, cart.ID, cart.Total); err != nil {
			return ErrInternal
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return ErrInternal
		}
		out = toCartResponse(cart, items)
		return nil
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// CheckoutCart はカートを支払い済みにする（支払いは常に成功とみなす）。
// 先に全明細を今の在庫で検証し、全部通ってから減算する。
// 途中で失敗した場合はトランザクションごと巻き戻る。
func (u *CartUsecase) CheckoutCart(ctx context.Context, actor model.User) (CartResponse, error) {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return CartResponse{}, err
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindUnpaidByCustomer(ctx, actor.Username)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return ErrInternal
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return ErrInternal
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// 第1段階: 全明細を今の在庫で再検証。最初の違反で打ち切る
		for _, item := range items {
			p, err := r.Products().FindByModel(ctx, item.Model)
			if errors.Is(err, repo.ErrNotFound) {
				return ErrProductNotFound
			}
			if err != nil {
				return ErrInternal
			}
			if p.Quantity == 0 {
				return ErrEmptyProductStock
			}
			if p.Quantity < item.Quantity {
				return ErrLowProductStock
			}
		}

		// 第2段階: 全部通ったので在庫を減らして支払い済みにする
		for _, item := range items {
			ok, err := r.Products().DecreaseQuantityIfEnough(ctx, item.Model, item.Quantity)
			if err != nil {
				return ErrInternal
			}
			if !ok {
				return ErrLowProductStock
			}
		}

		paymentDate := dateOnly(u.clock.Now())
		if err := r.Carts().MarkPaid(ctx, cart.ID, paymentDate); err != nil {
			return ErrInternal
		}

		cart.Paid = true
		cart.PaymentDate = &paymentDate
		out = toCartResponse(cart, items)
		return nil
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// ClearCart は未払いカートの明細を全部消してtotalを0にする。
// カートの行自体は残る（未払いのまま空になる）。
func (u *CartUsecase) ClearCart(ctx context.Context, actor model.User) error {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindUnpaidByCustomer(ctx, actor.Username)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return ErrInternal
		}

		if err := r.CartItems().DeleteByCartID(ctx, cart.ID); err != nil {
			return ErrInternal
		}
		if err := r.Carts().UpdateTotal(ctx, cart.ID, decimal.Zero); err != nil {
			return ErrInternal
		}
		return nil
	})
}

// GetCustomerHistory は支払い済みカートの履歴を返す。現在のカートは含まない。
func (u *CartUsecase) GetCustomerHistory(ctx context.Context, actor model.User) ([]CartResponse, error) {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return nil, err
	}

	carts, err := u.cartRepo.ListPaidByCustomer(ctx, actor.Username)
	if err != nil {
		return nil, ErrInternal
	}
	return u.buildCartList(ctx, carts)
}

// GetAllCarts は全顧客のカートを返す（Admin/Manager）。
func (u *CartUsecase) GetAllCarts(ctx context.Context, actor model.User) ([]CartResponse, error) {
	if err := requireRole(actor, model.RoleAdmin, model.RoleManager); err != nil {
		return nil, err
	}

	carts, err := u.cartRepo.ListAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return u.buildCartList(ctx, carts)
}

// DeleteAllCarts は全顧客のカートと明細を削除する（Admin/Manager）。
func (u *CartUsecase) DeleteAllCarts(ctx context.Context, actor model.User) error {
	if err := requireRole(actor, model.RoleAdmin, model.RoleManager); err != nil {
		return err
	}

	if err := u.cartRepo.DeleteAll(ctx); err != nil {
		return ErrInternal
	}

	writeAudit(ctx, u.auditRepo, u.clock, actor, model.AuditActionDeleteAll, model.AuditResourceCart, "*", "", "")
	return nil
}

func (u *CartUsecase) buildCartList(ctx context.Context, carts []model.Cart) ([]CartResponse, error) {
	out := make([]CartResponse, 0, len(carts))
	for _, cart := range carts {
		items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
		if err != nil {
			return nil, ErrInternal
		}
		out = append(out, toCartResponse(cart, items))
	}
	return out, nil
}
