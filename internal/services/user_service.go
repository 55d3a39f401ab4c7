package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/habit-tracker-be/internal/database"
	"github.com/isdelr/habit-tracker-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for account services.
type UserServiceProvider interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, email, password string) (int64, error)
	VerifyCredentials(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db         *sql.DB
	bcryptCost int
}

// NewUserService creates a new UserService. A cost of zero uses bcrypt.DefaultCost.
func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// EmailExists reports whether an account is registered under email.
func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up email: %w", err)
	}
	return true, nil
}

// GetUserByID retrieves a single account by its ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, created_at FROM users WHERE id = ?", id)
	if err := row.Scan(&user.ID, &user.Email, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single account by email, including the password hash.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, password, created_at FROM users WHERE email = ?", email)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateAccount registers a new account and returns its ID. The password is
// stored as a salted bcrypt hash.
func (s *UserService) CreateAccount(ctx context.Context, email, password string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return 0, fmt.Errorf("email and password are required: %w", ErrInvalidInput)
	}

	exists, err := s.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO users (email, password) VALUES (?, ?)", email, string(hashedPassword))
	if err != nil {
		// Lost a race against a concurrent signup for the same email.
		if database.IsUniqueViolation(err) {
			return 0, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		return 0, fmt.Errorf("failed to create account: %w", err)
	}
	return res.LastInsertId()
}

// VerifyCredentials checks an email/password pair and returns the account
// without its password hash.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.getUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return models.User{}, fmt.Errorf("user %d: %w", user.ID, ErrInvalidCredential)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to verify password: %w", err)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
