package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"grocermart-backend/internal/models"
	"grocermart-backend/internal/utils"
)

var (
	// ErrUserExists is returned when a registration reuses an email
	ErrUserExists = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned for a failed login without
	// revealing which part was wrong
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a user id does not exist
	ErrUserNotFound = errors.New("user not found")
)

// UserService handles user accounts and credential checks
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new user service
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser registers a new user with the default buyer role
func (s *UserService) CreateUser(registration *models.UserRegistration) (*models.User, error) {
	if err := utils.ValidateStruct(registration); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	registration.Email = strings.ToLower(strings.TrimSpace(registration.Email))

	exists, err := s.emailExists(registration.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        registration.Email,
		Phone:        registration.Phone,
		FirstName:    registration.FirstName,
		LastName:     registration.LastName,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleUser,
		Status:       models.UserStatusActive,
		Theme:        "light",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (
			id, email, phone, first_name, last_name, password_hash, role, status,
			vendor_id, theme, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		user.ID, user.Email, user.Phone, user.FirstName, user.LastName,
		user.PasswordHash, user.Role, user.Status, user.VendorID, user.Theme,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// AuthenticateUser checks a login against the stored credentials
func (s *UserService) AuthenticateUser(login *models.UserLogin) (*models.User, error) {
	if err := utils.ValidateStruct(login); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(login.Email))

	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID returns a user by id
func (s *UserService) GetUserByID(userID string) (*models.User, error) {
	return s.getUser("id = ?", userID)
}

// GetUserByEmail returns a user by email
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	return s.getUser("email = ?", email)
}

// PromoteToVendor grants the vendor role and attaches a vendor id.
// Admin-only; the handler enforces the role check.
func (s *UserService) PromoteToVendor(userID, vendorID string) (*models.User, error) {
	if vendorID == "" {
		vendorID = uuid.New().String()
	}

	query := `UPDATE users SET role = ?, vendor_id = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.Exec(query, models.UserRoleVendor, vendorID, time.Now(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	return s.GetUserByID(userID)
}

// UpdateTheme stores the user's dashboard theme preference
func (s *UserService) UpdateTheme(userID, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("invalid theme: %s", theme)
	}

	result, err := s.db.Exec(`UPDATE users SET theme = ?, updated_at = ? WHERE id = ?`,
		theme, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return nil
}

func (s *UserService) getUser(where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, email, phone, first_name, last_name, password_hash, role, status,
		       vendor_id, theme, created_at, updated_at
		FROM users WHERE ` + where

	var user models.User
	err := s.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Email, &user.Phone, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.Role, &user.Status, &user.VendorID, &user.Theme,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *UserService) emailExists(email string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
