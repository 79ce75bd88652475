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

package controllers

import (
	"errors"
	"net/http"

	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// httpError translates service-layer errors into HTTP responses. Anything not
// explicitly classified is a 500 with the cause attached for the logs only.
func httpError(err error) error {
	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Msg).WithInternal(err)
	}
	var authErr *shared.AuthenticationError
	if errors.As(err, &authErr) {
		return echo.NewHTTPError(http.StatusUnauthorized, authErr.Msg).WithInternal(err)
	}
	var notFoundErr *shared.NotFoundError
	if errors.As(err, &notFoundErr) {
		return echo.NewHTTPError(http.StatusNotFound, notFoundErr.Error()).WithInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "unexpected error").WithInternal(err)
}

func uuidParam(ctx shared.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name).WithInternal(err)
	}
	return id, nil
}

// callerID identifies the acting user. Authentication happens upstream of this
// service, the gateway forwards the identity as a header.
func callerID(ctx shared.Context) string {
	if user := ctx.Request().Header.Get("X-User-ID"); user != "" {
		return user
	}
	return "anonymous"
}
