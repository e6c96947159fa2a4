package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripmate/accounts-api/internal/repository"
	"github.com/tripmate/accounts-api/internal/security"
)

// PasswordResetUsecase defines the business logic for the emailed
// password-reset flow.
type PasswordResetUsecase interface {
	// RequestPasswordReset mails a reset link to the address if it belongs
	// to a user. The outcome is identical either way.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset validates a reset link's uid and token and sets
	// the new password.
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error
}

// ErrInvalidResetToken covers every reset-confirm failure: malformed uid,
// unknown user, forged or expired token. They are deliberately
// indistinguishable to the caller.
var ErrInvalidResetToken = errors.New("invalid or expired password reset token")

// ResetMailer delivers the reset link. Delivery failure never changes the
// outcome of a reset request.
type ResetMailer interface {
	SendSimple(to []string, subject, body string) error
}

type passwordResetUsecase struct {
	userRepo    repository.UserRepository
	resetTokens *security.ResetTokenGenerator
	mailer      ResetMailer
	baseURL     string
	logger      *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
// baseURL is the scheme://host prefix of the reset links.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	resetTokens *security.ResetTokenGenerator,
	mailer ResetMailer,
	baseURL string,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:    userRepo,
		resetTokens: resetTokens,
		mailer:      mailer,
		baseURL:     baseURL,
		logger:      logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// To prevent email enumeration, do not reveal that the email
			// does not exist.
			return nil
		}
		return err
	}

	token := u.resetTokens.Generate(user)
	uid := security.EncodeUID(user.ID.Hex())
	resetLink := fmt.Sprintf("%s/reset-password/%s/%s/", u.baseURL, uid, token)

	body := fmt.Sprintf("Use this link to reset your password: %s", resetLink)
	if err := u.mailer.SendSimple([]string{user.Email}, "Password Reset for TripMate", body); err != nil {
		// The token already exists and the response must not betray the
		// delivery failure, so log and move on.
		u.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to send password reset email")
	}

	return nil
}

func (u *passwordResetUsecase) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	id, err := security.DecodeUID(uid)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if !u.resetTokens.Check(user, token) {
		return ErrInvalidResetToken
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		return err
	}

	return nil
}
