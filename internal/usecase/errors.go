package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ドメインエラー一覧。handlerはStatusをそのままHTTPステータスにする。
var (
	// 商品
	ErrProductNotFound             = NewHTTPError(http.StatusNotFound, "Product not found")
	ErrProductAlreadyExists        = NewHTTPError(http.StatusConflict, "The product already exists")
	ErrEmptyProductStock           = NewHTTPError(http.StatusConflict, "Product stock is empty")
	ErrLowProductStock             = NewHTTPError(http.StatusConflict, "Product stock cannot satisfy the requested quantity")
	ErrChangeDateAfterCurrentDate  = NewHTTPError(http.StatusBadRequest, "The change date cannot be after the current date")
	ErrChangeDateBeforeArrivalDate = NewHTTPError(http.StatusBadRequest, "The change date cannot be before the arrival date")
	ErrDate                        = NewHTTPError(http.StatusBadRequest, "Input date is not compatible with the current date")

	// カート
	ErrCartNotFound     = NewHTTPError(http.StatusNotFound, "Cart not found")
	ErrProductNotInCart = NewHTTPError(http.StatusNotFound, "Product not in cart")
	ErrEmptyCart        = NewHTTPError(http.StatusBadRequest, "Cart is empty")

	// レビュー
	ErrExistingReview  = NewHTTPError(http.StatusConflict, "You have already reviewed this product")
	ErrNoReviewProduct = NewHTTPError(http.StatusNotFound, "You have not reviewed this product")

	// 認可・汎用
	ErrNotAuthorized = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrInternal      = NewHTTPError(http.StatusInternalServerError, "db error")
)
