package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ezelectronics/internal/config"
	"ezelectronics/internal/domain/model"
	"ezelectronics/internal/middleware"
	"ezelectronics/internal/repository"
	"ezelectronics/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	// 500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /products のHTTP
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type RegisterProductRequest struct {
	Model        string          `json:"model"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	Details      string          `json:"details"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	ArrivalDate  string          `json:"arrivalDate"`
}

type ChangeQuantityRequest struct {
	Quantity   int64  `json:"quantity"`
	ChangeDate string `json:"changeDate"`
}

type SellProductRequest struct {
	Quantity    int64  `json:"quantity"`
	SellingDate string `json:"sellingDate"`
}

type QuantityResponse struct {
	Quantity int64 `json:"quantity"`
}

// /products を登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.register)
	g.PATCH("/:model", h.changeQuantity)
	g.PATCH("/:model/sell", h.sell)
	g.GET("", h.list)
	g.GET("/available", h.listAvailable)
	g.DELETE("/:model", h.deleteOne)
	g.DELETE("", h.deleteAll)
}

func (h *ProductHandler) register(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req RegisterProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.RegisterProduct(c.Request().Context(), actor, usecase.RegisterProductInput{
		Model:        req.Model,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Details:      req.Details,
		SellingPrice: req.SellingPrice,
		ArrivalDate:  req.ArrivalDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

func (h *ProductHandler) changeQuantity(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ChangeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	quantity, err := h.uc.ChangeProductQuantity(c.Request().Context(), actor, c.Param("model"), req.Quantity, req.ChangeDate)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, QuantityResponse{Quantity: quantity})
}

func (h *ProductHandler) sell(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SellProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	quantity, err := h.uc.SellProduct(c.Request().Context(), actor, c.Param("model"), req.Quantity, req.SellingDate)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, QuantityResponse{Quantity: quantity})
}

func (h *ProductHandler) list(c echo.Context) error {
	return h.listWith(c, h.uc.GetProducts)
}

func (h *ProductHandler) listAvailable(c echo.Context) error {
	return h.listWith(c, h.uc.GetAvailableProducts)
}

// grouping/category/modelの組み合わせを検証して一覧を返す。
// grouping無しでフィルタ指定、groupingと合わないフィルタは422。
func (h *ProductHandler) listWith(
	c echo.Context,
	list func(ctx context.Context, actor model.User, in usecase.ListProductsInput) ([]usecase.ProductResponse, error),
) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	grouping := c.QueryParam("grouping")
	category := c.QueryParam("category")
	productModel := c.QueryParam("model")

	switch grouping {
	case "":
		if category != "" || productModel != "" {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "grouping required when filtering"})
		}
	case "category":
		if productModel != "" {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "model must not be set when grouping by category"})
		}
		if !model.Category(category).Valid() {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid category"})
		}
	case "model":
		if category != "" {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "category must not be set when grouping by model"})
		}
		if productModel == "" {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "model required"})
		}
	default:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid grouping"})
	}

	products, err := list(c.Request().Context(), actor, usecase.ListProductsInput{
		Grouping: grouping,
		Category: category,
		Model:    productModel,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) deleteOne(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), actor, c.Param("model")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *ProductHandler) deleteAll(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteAllProducts(c.Request().Context(), actor); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
