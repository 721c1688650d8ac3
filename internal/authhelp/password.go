// SPDX-License-Identifier: AGPL-3.0-only
package authhelp

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassphrase hashes the local app-lock passphrase. The network
// password is never stored on this device, hashed or otherwise.
func HashPassphrase(passphrase string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassphrase(hash, passphrase string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase))
	return err == nil
}

// ValidatePasswordStrength is applied client-side before a register
// request is submitted, so weak passwords never reach the network.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("Password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("Password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("Password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("Password must contain at least one number")
	}
	if !hasSpecial {
		return fmt.Errorf("Password must contain at least one special character")
	}

	return nil
}
