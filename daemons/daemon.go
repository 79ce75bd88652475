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

package daemons

import (
	"context"
	"log/slog"
	"time"
)

// Schedule runs fn immediately and then on every tick until the context is
// cancelled. Intended to be started as a goroutine.
func Schedule(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	slog.Info("starting background daemon", "daemon", name, "interval", interval)
	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping background daemon", "daemon", name)
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
