package repository

import (
	"context"

	"ezelectronics/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	// 新規ユーザー作成。username重複はErrDuplicate
	Create(ctx context.Context, user *model.User) error

	// usernameでユーザーを1件取得。無ければErrNotFound
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// トークンのバージョンを+1
	IncrementTokenVersion(ctx context.Context, username string) error
}
