// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package models

// User is a catalog account. Name falls back to Login when blank; the
// service layer applies that default before persisting.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nospaces"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday"`
}

// DisplayName returns Name, or Login when Name is blank.
func (u *User) DisplayName() string {
	if u.Name == "" {
		return u.Login
	}
	return u.Name
}
