package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ezelectronics/internal/domain/model"
	repo "ezelectronics/internal/repository"
)

// レビューの業務ロジック。1ユーザーにつき1商品1レビュー。
type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
	clock       Clock
}

// DI
func NewReviewUsecase(
	reviewRepo repo.ReviewRepository,
	productRepo repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		auditRepo:   auditRepo,
		clock:       clock,
	}
}

type ReviewResponse struct {
	Model   string `json:"model"`
	User    string `json:"user"`
	Score   int    `json:"score"`
	Date    string `json:"date"`
	Comment string `json:"comment"`
}

func toReviewResponse(r model.ProductReview) ReviewResponse {
	return ReviewResponse{
		Model:   r.Model,
		User:    r.User,
		Score:   r.Score,
		Date:    r.Date.Format(DateLayout),
		Comment: r.Comment,
	}
}

// AddReview はレビューを追加する。日付は今日。
func (u *ReviewUsecase) AddReview(ctx context.Context, actor model.User, productModel string, score int, comment string) error {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return err
	}
	if score < 1 || score > 5 {
		return NewHTTPError(http.StatusUnprocessableEntity, "score must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return NewHTTPError(http.StatusUnprocessableEntity, "comment required")
	}

	if err := u.ensureProductExists(ctx, productModel); err != nil {
		return err
	}

	err := u.reviewRepo.Create(ctx, model.ProductReview{
		Model:   productModel,
		User:    actor.Username,
		Score:   score,
		Date:    dateOnly(u.clock.Now()),
		Comment: comment,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return ErrExistingReview
	}
	if err != nil {
		return ErrInternal
	}
	return nil
}

// GetProductReviews は商品の全レビューを返す。
func (u *ReviewUsecase) GetProductReviews(ctx context.Context, actor model.User, productModel string) ([]ReviewResponse, error) {
	if err := u.ensureProductExists(ctx, productModel); err != nil {
		return nil, err
	}

	reviews, err := u.reviewRepo.ListByModel(ctx, productModel)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return out, nil
}

// DeleteReview は自分のレビューを削除する。
func (u *ReviewUsecase) DeleteReview(ctx context.Context, actor model.User, productModel string) error {
	if err := requireRole(actor, model.RoleCustomer); err != nil {
		return err
	}
	if err := u.ensureProductExists(ctx, productModel); err != nil {
		return err
	}

	err := u.reviewRepo.DeleteByModelAndUser(ctx, productModel, actor.Username)
	if errors.Is(err, repo.ErrNotFound) {
		// レビューしていない商品
		return ErrNoReviewProduct
	}
	if err != nil {
		return ErrInternal
	}
	return nil
}

// DeleteReviewsOfProduct は商品の全レビューを削除する（Admin/Manager）。
func (u *ReviewUsecase) DeleteReviewsOfProduct(ctx context.Context, actor model.User, productModel string) error {
	if err := requireRole(actor, model.RoleAdmin, model.RoleManager); err != nil {
		return err
	}
	if err := u.ensureProductExists(ctx, productModel); err != nil {
		return err
	}

	if err := u.reviewRepo.DeleteByModel(ctx, productModel); err != nil {
		return ErrInternal
	}

	writeAudit(ctx, u.auditRepo, u.clock, actor, model.AuditActionDeleteByName, model.AuditResourceReview, productModel, "", "")
	return nil
}

// DeleteAllReviews は全レビューを削除する（Admin/Manager）。
func (u *ReviewUsecase) DeleteAllReviews(ctx context.Context, actor model.User) error {
	if err := requireRole(actor, model.RoleAdmin, model.RoleManager); err != nil {
		return err
	}

	if err := u.reviewRepo.DeleteAll(ctx); err != nil {
		return ErrInternal
	}

	writeAudit(ctx, u.auditRepo, u.clock, actor, model.AuditActionDeleteAll, model.AuditResourceReview, "*", "", "")
	return nil
}

func (u *ReviewUsecase) ensureProductExists(ctx context.Context, productModel string) error {
	_, err := u.productRepo.FindByModel(ctx, productModel)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return ErrInternal
	}
	return nil
}
