// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package auth checks the admin password.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks a password.
type Verifier interface {
	Verify(password string) error
}

// VerifierFunc is a func implementing Verifier.
type VerifierFunc func(string) error

func (f VerifierFunc) Verify(password string) error { return f(password) }

// Hash verifies passwords against a bcrypt hash.
type Hash []byte

// ParseHash checks that s is a bcrypt hash.
func ParseHash(s string) (Hash, error) {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return nil, fmt.Errorf("parse password hash: %w", err)
	}
	return Hash(s), nil
}

// Verify returns ErrInvalidCredentials if password does not match the hash.
func (h Hash) Verify(password string) error {
	if len(h) == 0 {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(h, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// HashPassword returns the bcrypt hash of password, to be used with ParseHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Deny is a Verifier rejecting every password.
var Deny = VerifierFunc(func(string) error { return ErrInvalidCredentials })
