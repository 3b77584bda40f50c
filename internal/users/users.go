// Package users manages admin accounts and ingestion API keys.
package users

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an admin account.
type User struct {
	ID                uint   `gorm:"primaryKey"`
	Email             string `gorm:"uniqueIndex"`
	EncryptedPassword string
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// APIKey authorizes snapshot ingestion. The raw key is shown once at
// creation time; only its value is stored for constant-time comparison.
type APIKey struct {
	ID        uint   `gorm:"primaryKey"`
	Label     string `gorm:"not null"`
	Key       string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// ErrUserExists is returned when attempting to create a user that already exists.
var ErrUserExists = errors.New("user already exists")

// ErrInvalidCredentials is returned on a failed credential check.
var ErrInvalidCredentials = errors.New("invalid credentials")

// FindByEmail retrieves a user by email.
func FindByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateAdminUser creates a new admin user with the supplied credentials.
// It returns ErrUserExists if the user already exists.
func CreateAdminUser(db *gorm.DB, email, password string) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if _, err := FindByEmail(db, email); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	newUser := User{
		Email:             email,
		EncryptedPassword: string(hashed),
	}
	return db.Create(&newUser).Error
}

// VerifyCredentials checks an email/password pair.
func VerifyCredentials(db *gorm.DB, email, password string) (*User, error) {
	user, err := FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword updates a user's password.
func ChangePassword(db *gorm.DB, email, newPassword string) error {
	if newPassword == "" {
		return errors.New("password cannot be empty")
	}
	user, err := FindByEmail(db, email)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return db.Model(user).Update("encrypted_password", string(hashed)).Error
}

// GenerateAPIKey creates and stores a new ingestion API key, returning the
// raw key value.
func GenerateAPIKey(db *gorm.DB, label string) (string, error) {
	if label == "" {
		label = "default"
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	key := hex.EncodeToString(raw)

	record := APIKey{Label: label, Key: key}
	if err := db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("store api key: %w", err)
	}
	return key, nil
}

// ValidateAPIKey reports whether the provided key matches any stored key,
// using constant-time comparison against each candidate.
func ValidateAPIKey(db *gorm.DB, provided string) (bool, error) {
	if provided == "" {
		return false, nil
	}

	var keys []APIKey
	if err := db.Find(&keys).Error; err != nil {
		return false, fmt.Errorf("load api keys: %w", err)
	}

	for _, candidate := range keys {
		if subtle.ConstantTimeCompare([]byte(candidate.Key), []byte(provided)) == 1 {
			return true, nil
		}
	}
	return false, nil
}
