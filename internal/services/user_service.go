package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rskdev/pettycash-be/internal/auth"
	"github.com/rskdev/pettycash-be/internal/mailer"
	"github.com/rskdev/pettycash-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUpdate carries the proposed new values for a profile edit.
type ProfileUpdate struct {
	Name     string
	Mobile   string
	AvatarID string
	Email    string
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(name, mobile, email, password, avatarID string) (models.User, error)
	VerifyEmail(token string) error
	Authenticate(email, password string) (models.User, error)
	StoreSessionToken(userID, token string) error
	SendPasswordReset(email string) error
	SetNewPassword(otp, newPassword string) error
	SendProfileUpdateOTP(userID string, proposed ProfileUpdate) error
	EditUser(userID string, proposed ProfileUpdate, otp string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides business logic for account lifecycle: signup,
// email verification, login, password reset and OTP-gated profile edits.
type UserService struct {
	db       *sql.DB
	mail     mailer.Mailer
	tokenTTL time.Duration
}

// NewUserService creates a new UserService. tokenTTL bounds the lifetime of
// verification/reset/profile OTPs.
func NewUserService(db *sql.DB, mail mailer.Mailer, tokenTTL time.Duration) *UserService {
	return &UserService{db: db, mail: mail, tokenTTL: tokenTTL}
}

const userColumns = "id, name, mobile, email, avatar_id, password_hash, email_verified, verify_token, token_issued_at, session_token, created_at"

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Mobile, &u.Email, &u.AvatarID, &u.PasswordHash,
		&u.EmailVerified, &u.VerifyToken, &u.TokenIssuedAt, &u.SessionToken, &u.CreatedAt)
	return u, err
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// GetUserByEmail retrieves a single user by their email.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// Signup registers a new user with a hashed password and an unverified email,
// then sends the verification OTP. The OTP stays server-side; it reaches the
// user only by email.
func (s *UserService) Signup(name, mobile, email, password, avatarID string) (models.User, error) {
	if _, err := s.GetUserByEmail(email); err == nil {
		return models.User{}, ErrConflict
	} else if err != ErrNotFound {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return models.User{}, err
	}
	now := time.Now()

	user := models.User{
		ID:            uuid.New().String(),
		Name:          name,
		Mobile:        mobile,
		Email:         email,
		AvatarID:      avatarID,
		PasswordHash:  string(hashedPassword),
		EmailVerified: false,
		VerifyToken:   &otp,
		TokenIssuedAt: &now,
		CreatedAt:     now,
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, name, mobile, email, avatar_id, password_hash, email_verified, verify_token, token_issued_at, created_at) VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)",
		user.ID, user.Name, user.Mobile, user.Email, user.AvatarID,
		user.PasswordHash, otp, now, now,
	)
	if err != nil {
		return models.User{}, err
	}

	if err := s.mail.SendSignupOTP(user.Email, user.Name, otp); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to send signup verification email")
	}
	return user, nil
}

// tokenCurrent reports whether the user's stored OTP matches and is within
// its lifetime.
func (s *UserService) tokenCurrent(user models.User, token string) bool {
	if user.VerifyToken == nil || *user.VerifyToken != token {
		return false
	}
	if user.TokenIssuedAt == nil || time.Since(*user.TokenIssuedAt) > s.tokenTTL {
		return false
	}
	return true
}

// VerifyEmail marks the matching unverified user as verified and clears the
// token.
func (s *UserService) VerifyEmail(token string) error {
	row := s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE verify_token = ? AND email_verified = 0", token,
	)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if !s.tokenCurrent(user, token) {
		return ErrInvalidToken
	}

	_, err = s.db.Exec(
		"UPDATE users SET email_verified = 1, verify_token = NULL, token_issued_at = NULL WHERE id = ?",
		user.ID,
	)
	if err != nil {
		return err
	}

	if err := s.mail.SendEmailVerified(user.Email, user.Name); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to send verification confirmation email")
	}
	return nil
}

// Authenticate verifies a user's credentials. Every failure surfaces as
// ErrUnauthorized; the sub-reason is wrapped for logging only.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err == ErrNotFound {
		return models.User{}, fmt.Errorf("%w: user not found", ErrUnauthorized)
	}
	if err != nil {
		return models.User{}, err
	}

	if !user.EmailVerified {
		return models.User{}, fmt.Errorf("%w: email not verified", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("%w: invalid password", ErrUnauthorized)
	}
	return user, nil
}

// StoreSessionToken records the last issued session token on the user row.
func (s *UserService) StoreSessionToken(userID, token string) error {
	_, err := s.db.Exec("UPDATE users SET session_token = ? WHERE id = ?", token, userID)
	return err
}

// SendPasswordReset issues a fresh reset OTP, overwriting any prior token,
// and emails it to the user.
func (s *UserService) SendPasswordReset(email string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	_, err = s.db.Exec("UPDATE users SET verify_token = ?, token_issued_at = ? WHERE id = ?",
		otp, time.Now(), user.ID)
	if err != nil {
		return err
	}

	if err := s.mail.SendPasswordResetOTP(user.Email, user.Name, otp); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to send password reset email")
	}
	return nil
}

// SetNewPassword validates the reset OTP, stores the rehashed password and
// clears the token.
func (s *UserService) SetNewPassword(otp, newPassword string) error {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE verify_token = ?", otp)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if !s.tokenCurrent(user, otp) {
		return ErrInvalidToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec(
		"UPDATE users SET password_hash = ?, verify_token = NULL, token_issued_at = NULL WHERE id = ?",
		string(hashedPassword), user.ID,
	)
	if err != nil {
		return err
	}

	if err := s.mail.SendPasswordChanged(user.Email, user.Name); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to send password change confirmation email")
	}
	return nil
}

// SendProfileUpdateOTP stores a fresh OTP on the user and emails it to the
// proposed new address along with a summary of the requested changes.
func (s *UserService) SendProfileUpdateOTP(userID string, proposed ProfileUpdate) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	_, err = s.db.Exec("UPDATE users SET verify_token = ?, token_issued_at = ? WHERE id = ?",
		otp, time.Now(), user.ID)
	if err != nil {
		return err
	}

	changes := mailer.ProfileChanges{
		Name:   proposed.Name,
		Mobile: proposed.Mobile,
		Avatar: proposed.AvatarID,
		Email:  proposed.Email,
	}
	if err := s.mail.SendProfileUpdateOTP(proposed.Email, user.Name, otp, changes); err != nil {
		log.Warn().Err(err).Str("email", proposed.Email).Msg("Failed to send profile update OTP email")
	}
	return nil
}

// EditUser validates the profile-edit OTP and overwrites the user's profile
// fields with the proposed values.
func (s *UserService) EditUser(userID string, proposed ProfileUpdate, otp string) (models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if !s.tokenCurrent(user, otp) {
		return models.User{}, ErrInvalidToken
	}

	_, err = s.db.Exec(
		"UPDATE users SET name = ?, mobile = ?, avatar_id = ?, email = ?, verify_token = NULL, token_issued_at = NULL WHERE id = ?",
		proposed.Name, proposed.Mobile, proposed.AvatarID, proposed.Email, userID,
	)
	if err != nil {
		return models.User{}, err
	}

	if err := s.mail.SendProfileUpdated(proposed.Email, proposed.Name); err != nil {
		log.Warn().Err(err).Str("email", proposed.Email).Msg("Failed to send profile update confirmation email")
	}
	return s.GetUserByID(userID)
}

// ClearExpiredTokens removes verification/reset tokens older than the TTL.
// Ran periodically by the background sweeper.
func (s *UserService) ClearExpiredTokens() (int64, error) {
	res, err := s.db.Exec(
		"UPDATE users SET verify_token = NULL, token_issued_at = NULL WHERE verify_token IS NOT NULL AND token_issued_at < ?",
		time.Now().Add(-s.tokenTTL),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
