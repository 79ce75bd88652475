// Copyright (C) 2025 cradle authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shared

import "fmt"

// ValidationError marks malformed input parameters. Controllers translate it
// to a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthenticationError marks a missing or invalid caller identity. Controllers
// translate it to a 401 response.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string {
	return e.Msg
}

func NewAuthenticationError(msg string) *AuthenticationError {
	return &AuthenticationError{Msg: msg}
}

// NotFoundError marks an absent entity. It is fatal for singular lookups and
// non-fatal (logged, skipped) inside bulk sweeps.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFoundError(entity string, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}
