// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash.
// bcrypt.CompareHashAndPassword is timing-safe.
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// CompareDummy spends the same time as a real comparison at cost. Login calls
// it for unknown emails so response time does not reveal which emails exist.
func CompareDummy(password string, cost int) {
	dummyHashOnce.Do(func() {
		// Only fails for an out-of-range cost, which config validation rules out.
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mesto-dummy-password"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
