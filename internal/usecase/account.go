package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tripmate/accounts-api/internal/model"
	"github.com/tripmate/accounts-api/internal/repository"
	"github.com/tripmate/accounts-api/internal/security"
)

// AccountUsecase defines the business logic for account lifecycle operations.
type AccountUsecase interface {
	// Register creates a user and issues their bearer token.
	Register(ctx context.Context, params RegisterParams) (*model.User, string, error)

	// Login verifies credentials and returns the user's live token,
	// issuing one if needed.
	Login(ctx context.Context, username, password string) (*model.User, string, error)

	// Logout revokes the user's bearer token.
	Logout(ctx context.Context, user *model.User) error

	// Authenticate resolves a presented token key to its owner.
	Authenticate(ctx context.Context, key string) (*model.User, error)

	// ChangePassword rotates the user's password after verifying the old one.
	ChangePassword(ctx context.Context, user *model.User, oldPassword, newPassword string) error

	// UpdateProfile applies a partial update to the user's mutable fields.
	UpdateProfile(ctx context.Context, user *model.User, params UpdateProfileParams) (*model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateProfileParams enumerates the profile fields a user may change.
// The password hash and id are deliberately absent.
type UpdateProfileParams struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("wrong password")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

type accountUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.AuthTokenRepository
	logger    *zerolog.Logger
}

// NewAccountUsecase creates a new instance of AccountUsecase.
func NewAccountUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.AuthTokenRepository,
	logger *zerolog.Logger,
) AccountUsecase {
	return &accountUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

func (u *accountUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, string, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Username:     params.Username,
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: passwordHash,
		IsActive:     true,
	})
	if err != nil {
		return nil, "", err
	}

	key, err := u.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, key, nil
}

func (u *accountUsecase) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := u.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password so callers cannot probe
			// which usernames exist.
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if ok, err := security.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, "", err
	} else if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}

	key, err := u.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, key, nil
}

func (u *accountUsecase) Logout(ctx context.Context, user *model.User) error {
	return u.tokenRepo.DeleteByUserID(ctx, user.ID.Hex())
}

func (u *accountUsecase) Authenticate(ctx context.Context, key string) (*model.User, error) {
	token, err := u.tokenRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	user, err := u.userRepo.GetUser(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}

func (u *accountUsecase) ChangePassword(
	ctx context.Context,
	user *model.User,
	oldPassword, newPassword string,
) error {
	if ok, err := security.VerifyPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	} else if !ok {
		return ErrWrongPassword
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// The bearer token stays valid; only reset tokens issued against the
	// old hash die with this update.
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		return err
	}

	return nil
}

func (u *accountUsecase) UpdateProfile(
	ctx context.Context,
	user *model.User,
	params UpdateProfileParams,
) (*model.User, error) {
	if params.Username == nil && params.Email == nil && params.FirstName == nil && params.LastName == nil {
		return user, nil
	}

	return u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Username:  params.Username,
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	})
}

// issueToken returns the user's live token key, creating one atomically if
// none exists. Issuing is idempotent: repeated logins return the same key.
func (u *accountUsecase) issueToken(ctx context.Context, user *model.User) (string, error) {
	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}

	token, err := u.tokenRepo.Issue(ctx, user.ID.Hex(), key)
	if err != nil {
		return "", err
	}

	return token.Key, nil
}

// generateTokenKey generates an opaque 40-character bearer token key.
func generateTokenKey() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
