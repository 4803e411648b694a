package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"gorm.io/gorm"

	"jobportal/internal/auth"
	"jobportal/internal/board"
	"jobportal/internal/database"
)

type createdAccount struct {
	account  *database.Account
	password string
}

// createAccount stores a new account with a random password and provisions
// the profile its role calls for. Username and email follow the sign up rules.
func createAccount(ctx context.Context, db *gorm.DB, username, email string, role database.Role) (*createdAccount, error) {
	if err := board.ValidateIdentity(username, email); err != nil {
		return nil, err
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &database.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&database.Account{}).Where("username = ?", username).Count(&existing).Error; err != nil {
			return fmt.Errorf("query account: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("account %q already exists", username)
		}
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		_, err := board.ProvisionAccount(ctx, tx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &createdAccount{account: account, password: password}, nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
