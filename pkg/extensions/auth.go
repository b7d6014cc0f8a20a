// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the enterprise extension points for the
// verification service.
//
// The open source build ships no-op implementations: NopAuthProvider
// authenticates every request as a local admin user, which lets the
// service and CLI run without any identity infrastructure. Enterprise
// deployments implement these interfaces against real identity
// providers (Okta, Auth0, Azure AD) and inject them at startup.
package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when authentication or authorization
// fails. Enterprise implementations should wrap this error.
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo contains identity information returned after successful
// authentication. UserID is always populated; the rest may be empty.
type AuthInfo struct {
	// UserID is the unique identifier for the authenticated user.
	UserID string

	// Email is the user's email address, if the provider supplies one.
	Email string

	// Roles contains role memberships for authorization decisions.
	Roles []string

	// Metadata holds additional provider-specific claims.
	Metadata map[string]any
}

// HasRole checks if the user has a specific role.
func (a *AuthInfo) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthProvider validates authentication tokens and returns user
// identity.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type AuthProvider interface {
	// Validate checks the token and returns the user's identity, or
	// ErrUnauthorized (possibly wrapped) when the token is invalid.
	// The token format is implementation-specific (JWT, API key,
	// session ID).
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// NopAuthProvider is the default provider for open source builds: any
// token, including the empty string, authenticates as "local-user"
// with admin privileges.
//
// Thread-safe; no mutable state.
type NopAuthProvider struct{}

// Validate always returns a valid local admin user.
func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return &AuthInfo{
		UserID: "local-user",
		Roles:  []string{"admin"},
	}, nil
}

var _ AuthProvider = (*NopAuthProvider)(nil)
