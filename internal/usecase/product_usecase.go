package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

// 商品カタログの業務ロジック。
// 在庫数と入荷日のルールはここで守る（DBは保存するだけ）。
type ProductUsecase struct {
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
	clock       Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		clock:       clock,
	}
}

// APIに返す商品。日付は "YYYY-MM-DD"
type ProductResponse struct {
	Model        string          `json:"model"`
	Category     model.Category  `json:"category"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	ArrivalDate  string          `json:"arrivalDate"`
	Details      string          `json:"details"`
	Quantity     int64           `json:"quantity"`
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		Model:        p.Model,
		Category:     p.Category,
		SellingPrice: p.SellingPrice,
		ArrivalDate:  p.ArrivalDate.Format(DateLayout),
		Details:      p.Details,
		Quantity:     p.Quantity,
	}
}

type RegisterProductInput struct {
	Model        string
	Category     string
	Quantity     int64
	Details      string
	SellingPrice decimal.Decimal
	ArrivalDate  string // 省略時は今日
}

// 商品コンセプトを新規登録する。
func (u *ProductUsecase) RegisterProduct(ctx context.Context, actor model.User, in RegisterProductInput) error {
	if err := requireRole(actor, model.RoleManager, model.RoleAdmin); err != nil {
		return err
	}

	if strings.TrimSpace(in.Model) == "" {
		return NewHTTPError(http.StatusUnprocessableEntity, "model required")
	}
	category := model.Category(in.Category)
	if !category.Valid() {
		return NewHTTPError(http.StatusUnprocessableEntity, "invalid category")
	}
	if in.Quantity < 1 {
		return NewHTTPError(http.StatusUnprocessableEntity, "quantity must be >= 1")
	}
	if !in.SellingPrice.IsPositive() {
		return NewHTTPError(http.StatusUnprocessableEntity, "sellingPrice must be > 0")
	}

	today := dateOnly(u.clock.Now())

	// 入荷日は省略時は今日。未来日は不可
	arrival := today
	if in.ArrivalDate != "" {
		parsed, err := time.Parse(DateLayout, in.ArrivalDate)
		if err != nil {
			return NewHTTPError(http.StatusUnprocessableEntity, "invalid arrivalDate")
		}
		arrival = dateOnly(parsed)
	}
	if arrival.After(today) {
		return ErrDate
	}

	err := u.productRepo.Create(ctx, model.Product{
		Model:        strings.TrimSpace(in.Model),
		Category:     category,
		SellingPrice: in.SellingPrice,
		ArrivalDate:  arrival,
		Details:      in.Details,
		Quantity:     in.Quantity,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return ErrProductAlreadyExists
	}
	if err != nil {
		return ErrInternal
	}
	return nil
}

// 入荷による在庫追加。新しい在庫数を返す。
// changeDateは未来不可・入荷日より前も不可。成功時はarrival_dateをchangeDateに更新する。
func (u *ProductUsecase) ChangeProductQuantity(ctx context.Context, actor model.User, productModel string, delta int64, changeDate string) (int64, error) {
	if err := requireRole(actor, model.RoleManager, model.RoleAdmin); err != nil {
		return 0, err
	}
	if delta < 1 {
		return 0, NewHTTPError(http.StatusUnprocessableEntity, "quantity must be >= 1")
	}

	p, err := u.productRepo.FindByModel(ctx, productModel)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, ErrInternal
	}

	today := dateOnly(u.clock.Now())
	change := today
	if changeDate != "" {
		parsed, err := time.Parse(DateLayout, changeDate)
		if err != nil {
			return 0, NewHTTPError(http.StatusUnprocessableEntity, "invalid changeDate")
		}
		change = dateOnly(parsed)
	}

	if change.After(today) {
		return 0, ErrChangeDateAfterCurrentDate
	}
	if change.Before(dateOnly(p.ArrivalDate)) {
		return 0, ErrChangeDateBeforeArrivalDate
	}

	if err := u.productRepo.AddQuantity(ctx, productModel, delta, change); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, ErrInternal
	}

	u.writeStockAudit(ctx, actor, model.AuditActionRestock, p, p.Quantity+delta)

	return p.Quantity + delta, nil
}

// 販売による在庫減算。残りの在庫数を返す。
func (u *ProductUsecase) SellProduct(ctx context.Context, actor model.User, productModel string, quantity int64, sellingDate string) (int64, error) {
	if err := requireRole(actor, model.RoleManager, model.RoleAdmin); err != nil {
		return 0, err
	}
	if quantity < 1 {
		return 0, NewHTTPError(http.StatusUnprocessableEntity, "quantity must be >= 1")
	}

	p, err := u.productRepo.FindByModel(ctx, productModel)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, ErrInternal
	}

	selling := dateOnly(u.clock.Now())
	if sellingDate != "" {
		parsed, err := time.Parse(DateLayout, sellingDate)
		if err != nil {
			return 0, NewHTTPError(http.StatusUnprocessableEntity, "invalid sellingDate")
		}
		selling = dateOnly(parsed)
	}

	// 入荷日より前の販売はあり得ない
	if selling.Before(dateOnly(p.ArrivalDate)) {
		return 0, ErrDate
	}
	if p.Quantity == 0 {
		return 0, ErrEmptyProductStock
	}
	if p.Quantity < quantity {
		return 0, ErrLowProductStock
	}

	ok, err := u.productRepo.DecreaseQuantityIfEnough(ctx, productModel, quantity)
	if err != nil {
		return 0, ErrInternal
	}
	if !ok {
		// 読み取りと更新の間に在庫が減った
		return 0, ErrLowProductStock
	}

	u.writeStockAudit(ctx, actor, model.AuditActionSell, p, p.Quantity-quantity)

	return p.Quantity - quantity, nil
}

// 一覧取得の入力。groupingの整合性はhandlerで422にしてある
type ListProductsInput struct {
	Grouping string // "" / "category" / "model"
	Category string
	Model    string
}

// 全商品一覧（Manager/Admin）
func (u *ProductUsecase) GetProducts(ctx context.Context, actor model.User, in ListProductsInput) ([]ProductResponse, error) {
	if err := requireRole(actor, model.RoleManager, model.RoleAdmin); err != nil {
		return nil, err
	}
	return u.listProducts(ctx, in, false)
}

// 在庫ありのみの一覧（ログイン済みなら誰でも）
func (u *ProductUsecase) GetAvailableProducts(ctx context.Context, actor model.User, in ListProductsInput) ([]ProductResponse, error) {
	return u.listProducts(ctx, in, true)
}

func (u *ProductUsecase) listProducts(ctx context.Context, in ListProductsInput, availableOnly bool) ([]ProductResponse, error) {
	f := repo.ProductFilter{AvailableOnly: availableOnly}

	switch in.Grouping {
	case "category":
		c := model.Category(in.Category)
		f.Category = &c
	case "model":
		m := in.Model
		f.Model = &m
	}

	products, err := u.productRepo.List(ctx, f)
	if err != nil {
		return nil, ErrInternal
	}

	// model指定で0件は「存在しない」
	if in.Grouping == "model" && len(products) == 0 {
		return nil, ErrProductNotFound
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// 商品を1件削除
func (u *ProductUsecase) DeleteProduct(ctx context.Context, actor model.User, productModel string) error {
	if err := requireRole(actor, model.RoleManager, model.RoleAdmin); err != nil {
		return err
	}

	err := u.productRepo.DeleteByModel(ctx, productModel)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return ErrInternal
	}

	writeAudit(ctx, u.auditRepo, u.clock, actor, model.AuditActionDeleteByName, model.AuditResourceProduct, productModel, "", "")
	return nil
}

// 全商品を削除
func (u *ProductUsecase) DeleteAllProducts(ctx context.Context, actor model.User) error {
	if err := requireRole(actor, model.RoleManager, model.RoleAdmin); err != nil {
		return err
	}

	if err := u.productRepo.DeleteAll(ctx); err != nil {
		return ErrInternal
	}

	writeAudit(ctx, u.auditRepo, u.clock, actor, model.AuditActionDeleteAll, model.AuditResourceProduct, "*", "", "")
	return nil
}

// 在庫変更の監査ログ（before/after）
func (u *ProductUsecase) writeStockAudit(ctx context.Context, actor model.User, action model.AuditAction, p model.Product, after int64) {
	beforeJSON := fmt.Sprintf(`{"quantity":%d}`, p.Quantity)
	afterJSON := fmt.Sprintf(`{"quantity":%d}`, after)
	writeAudit(ctx, u.auditRepo, u.clock, actor, action, model.AuditResourceProduct, p.Model, beforeJSON, afterJSON)
}
