// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auth_portal/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash はユーザーが存在しない場合の比較対象となるbcryptハッシュです。
// 未登録メールでもbcrypt比較を必ず実行し、応答時間からアカウントの有無を推測されないようにします。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrDuplicateEmailを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// authUsecase は登録とログインのビジネスロジックを実装します。
type authUsecase struct {
	users UserRepository
	cost  int
	now   func() time.Time
}

// Option はauthUsecaseの生成時オプションです。
type Option func(*authUsecase)

// WithBcryptCost はbcryptのコストを変更します。テストでbcrypt.MinCostを使う場合に利用します。
func WithBcryptCost(cost int) Option {
	return func(u *authUsecase) { u.cost = cost }
}

// WithClock は作成日時の取得に使う時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(u *authUsecase) { u.now = now }
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, opts ...Option) *authUsecase {
	u := &authUsecase{
		users: users,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// NormalizeEmail は前後の空白を除去し、小文字化したメールアドレスを返します。
// "A@B.com" と "a@b.com" は同一のアカウントとして扱われます。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// - メールアドレスまたはパスワードが空の場合はErrInvalidInput
// - 既に登録済みのメールアドレスの場合はErrDuplicateEmail
func (u *authUsecase) Register(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	// bcryptは呼び出しごとにランダムなソルトを生成する
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return fmt.Errorf("%w: password exceeds 72 bytes", ErrInvalidInput)
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    u.now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("%w: create user: %w", ErrStorage, err)
	}
	return nil
}

// Login はメールアドレスとパスワードを検証し、成功時にユーザーを返します。
// 未登録のメールアドレスとパスワード不一致はどちらもErrInvalidCredentialsとなり、区別できません。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%w: find user: %w", ErrStorage, err)
	}

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.PasswordHash
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
