package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
	"ezelectronics/internal/usecase"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProdProductRepoMock) FindByModel(ctx context.Context, productModel string) (model.Product, error) {
	args := m.Called(ctx, productModel)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProdProductRepoMock) AddQuantity(ctx context.Context, productModel string, delta int64, changeDate time.Time) error {
	args := m.Called(ctx, productModel, delta, changeDate)
	return args.Error(0)
}

func (m *ProdProductRepoMock) DecreaseQuantityIfEnough(ctx context.Context, productModel string, qty int64) (bool, error) {
	args := m.Called(ctx, productModel, qty)
	return args.Bool(0), args.Error(1)
}

func (m *ProdProductRepoMock) DeleteByModel(ctx context.Context, productModel string) error {
	args := m.Called(ctx, productModel)
	return args.Error(0)
}

func (m *ProdProductRepoMock) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type ProdAuditRepoMock struct{ mock.Mock }

func (m *ProdAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ProdAuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// テスト用の固定時計
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	testNow     = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	testToday   = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	testManager = model.User{Username: "manager1", Role: model.RoleManager}
	testAdmin   = model.User{Username: "admin1", Role: model.RoleAdmin}
	testCust    = model.User{Username: "cust1", Role: model.RoleCustomer}
)

func newProductUC(pRepo *ProdProductRepoMock, aRepo *ProdAuditRepoMock) *usecase.ProductUsecase {
	return usecase.NewProductUsecase(pRepo, aRepo, fixedClock{testNow})
}

func auditOK(aRepo *ProdAuditRepoMock) {
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
}

// =====================
// RegisterProduct
// =====================

func TestProductUsecase_RegisterProduct_Success(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Model == "iPhone 13" &&
			p.Category == model.CategorySmartphone &&
			p.Quantity == 5 &&
			p.ArrivalDate.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	})).Return(nil)

	err := uc.RegisterProduct(context.Background(), testManager, usecase.RegisterProductInput{
		Model:        "iPhone 13",
		Category:     "Smartphone",
		Quantity:     5,
		SellingPrice: decimal.NewFromInt(999),
		ArrivalDate:  "2024-06-10",
	})
	assert.NoError(t, err)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_RegisterProduct_DefaultsArrivalToToday(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ArrivalDate.Equal(testToday)
	})).Return(nil)

	err := uc.RegisterProduct(context.Background(), testManager, usecase.RegisterProductInput{
		Model:        "iPhone 13",
		Category:     "Smartphone",
		Quantity:     1,
		SellingPrice: decimal.NewFromInt(999),
	})
	assert.NoError(t, err)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_RegisterProduct_Duplicate(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	pRepo.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicate)

	err := uc.RegisterProduct(context.Background(), testManager, usecase.RegisterProductInput{
		Model:        "iPhone 13",
		Category:     "Smartphone",
		Quantity:     1,
		SellingPrice: decimal.NewFromInt(999),
	})
	assert.ErrorIs(t, err, usecase.ErrProductAlreadyExists)
}

func TestProductUsecase_RegisterProduct_FutureArrivalDate(t *testing.T) {
	uc := newProductUC(new(ProdProductRepoMock), new(ProdAuditRepoMock))

	err := uc.RegisterProduct(context.Background(), testManager, usecase.RegisterProductInput{
		Model:        "iPhone 13",
		Category:     "Smartphone",
		Quantity:     1,
		SellingPrice: decimal.NewFromInt(999),
		ArrivalDate:  "2024-07-01",
	})
	assert.ErrorIs(t, err, usecase.ErrDate)
}

func TestProductUsecase_RegisterProduct_InvalidCategory(t *testing.T) {
	uc := newProductUC(new(ProdProductRepoMock), new(ProdAuditRepoMock))

	err := uc.RegisterProduct(context.Background(), testManager, usecase.RegisterProductInput{
		Model:        "iPhone 13",
		Category:     "Tablet",
		Quantity:     1,
		SellingPrice: decimal.NewFromInt(999),
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 422, he.Status)
}

func TestProductUsecase_RegisterProduct_CustomerForbidden(t *testing.T) {
	uc := newProductUC(new(ProdProductRepoMock), new(ProdAuditRepoMock))

	err := uc.RegisterProduct(context.Background(), testCust, usecase.RegisterProductInput{
		Model:        "iPhone 13",
		Category:     "Smartphone",
		Quantity:     1,
		SellingPrice: decimal.NewFromInt(999),
	})
	assert.ErrorIs(t, err, usecase.ErrNotAuthorized)
}

// =====================
// ChangeProductQuantity
// =====================

func TestProductUsecase_ChangeQuantity_Success(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, aRepo)
	auditOK(aRepo)

	stored := model.Product{
		Model:       "iPhone 13",
		Category:    model.CategorySmartphone,
		Quantity:    5,
		ArrivalDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	pRepo.On("FindByModel", mock.Anything, "iPhone 13").Return(stored, nil)
	pRepo.On("AddQuantity", mock.Anything, "iPhone 13", int64(3), time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)).Return(nil)

	quantity, err := uc.ChangeProductQuantity(context.Background(), testManager, "iPhone 13", 3, "2024-06-12")
	assert.NoError(t, err)
	assert.Equal(t, int64(8), quantity)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_ChangeQuantity_FutureChangeDate(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	stored := model.Product{Model: "iPhone 13", Quantity: 5, ArrivalDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	pRepo.On("FindByModel", mock.Anything, "iPhone 13").Return(stored, nil)

	_, err := uc.ChangeProductQuantity(context.Background(), testManager, "iPhone 13", 3, "2024-07-01")
	assert.ErrorIs(t, err, usecase.ErrChangeDateAfterCurrentDate)
	pRepo.AssertNotCalled(t, "AddQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_ChangeQuantity_BeforeArrivalDate(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	stored := model.Product{Model: "iPhone 13", Quantity: 5, ArrivalDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}
	pRepo.On("FindByModel", mock.Anything, "iPhone 13").Return(stored, nil)

	_, err := uc.ChangeProductQuantity(context.Background(), testManager, "iPhone 13", 3, "2024-06-05")
	assert.ErrorIs(t, err, usecase.ErrChangeDateBeforeArrivalDate)
}

func TestProductUsecase_ChangeQuantity_ProductNotFound(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	pRepo.On("FindByModel", mock.Anything, "nope").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.ChangeProductQuantity(context.Background(), testManager, "nope", 3, "")
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

// =====================
// SellProduct
// =====================

func TestProductUsecase_SellProduct_Success(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, aRepo)
	auditOK(aRepo)

	stored := model.Product{Model: "iPhone 13", Quantity: 5, ArrivalDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	pRepo.On("FindByModel", mock.Anything, "iPhone 13").Return(stored, nil)
	pRepo.On("DecreaseQuantityIfEnough", mock.Anything, "iPhone 13", int64(2)).Return(true, nil)

	quantity, err := uc.SellProduct(context.Background(), testManager, "iPhone 13", 2, "")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), quantity)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_SellProduct_EmptyStock(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	stored := model.Product{Model: "iPhone 13", Quantity: 0, ArrivalDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	pRepo.On("FindByModel", mock.Anything, "iPhone 13").Return(stored, nil)

	_, err := uc.SellProduct(context.Background(), testManager, "iPhone 13", 1, "")
	assert.ErrorIs(t, err, usecase.ErrEmptyProductStock)
	pRepo.AssertNotCalled(t, "DecreaseQuantityIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

// 要求数が在庫を超える場合は在庫を変更しない
func TestProductUsecase_SellProduct_LowStockLeavesStockUntouched(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	stored := model.Product{Model: "iPhone 13", Quantity: 3, ArrivalDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	pRepo.On("FindByModel", mock.Anything, "iPhone 13").Return(stored, nil)

	_, err := uc.SellProduct(context.Background(), testManager, "iPhone 13", 5, "")
	assert.ErrorIs(t, err, usecase.ErrLowProductStock)
	pRepo.AssertNotCalled(t, "DecreaseQuantityIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_SellProduct_SellingDateBeforeArrival(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	stored := model.Product{Model: "iPhone 13", Quantity: 3, ArrivalDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}
	pRepo.On("FindByModel", mock.Anything, "iPhone 13").Return(stored, nil)

	_, err := uc.SellProduct(context.Background(), testManager, "iPhone 13", 1, "2024-06-05")
	assert.ErrorIs(t, err, usecase.ErrDate)
}

// =====================
// GetProducts / GetAvailableProducts
// =====================

func TestProductUsecase_GetProducts_ByModelNotFound(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	pRepo.On("List", mock.Anything, mock.Anything).Return([]model.Product{}, nil)

	_, err := uc.GetProducts(context.Background(), testAdmin, usecase.ListProductsInput{Grouping: "model", Model: "nope"})
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestProductUsecase_GetProducts_CustomerForbidden(t *testing.T) {
	uc := newProductUC(new(ProdProductRepoMock), new(ProdAuditRepoMock))

	_, err := uc.GetProducts(context.Background(), testCust, usecase.ListProductsInput{})
	assert.ErrorIs(t, err, usecase.ErrNotAuthorized)
}

func TestProductUsecase_GetAvailableProducts_FiltersAvailableOnly(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	pRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.ProductFilter) bool {
		return f.AvailableOnly
	})).Return([]model.Product{{Model: "iPhone 13", Quantity: 2, SellingPrice: decimal.NewFromInt(999)}}, nil)

	out, err := uc.GetAvailableProducts(context.Background(), testCust, usecase.ListProductsInput{})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "iPhone 13", out[0].Model)
	pRepo.AssertExpectations(t)
}

// =====================
// Delete
// =====================

func TestProductUsecase_DeleteProduct_NotFound(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := newProductUC(pRepo, new(ProdAuditRepoMock))

	pRepo.On("DeleteByModel", mock.Anything, "nope").Return(repo.ErrNotFound)

	err := uc.DeleteProduct(context.Background(), testAdmin, "nope")
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestProductUsecase_DeleteAllProducts_Success(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, aRepo)
	auditOK(aRepo)

	pRepo.On("DeleteAll", mock.Anything).Return(nil)

	err := uc.DeleteAllProducts(context.Background(), testManager)
	assert.NoError(t, err)
	pRepo.AssertExpectations(t)
}

// 監査ログの失敗は操作の成否に影響しない
func TestProductUsecase_AuditFailureDoesNotFailOperation(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	aRepo := new(ProdAuditRepoMock)
	uc := newProductUC(pRepo, aRepo)

	aRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)
	pRepo.On("DeleteAll", mock.Anything).Return(nil)

	err := uc.DeleteAllProducts(context.Background(), testManager)
	assert.NoError(t, err)
}
