// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"os"
	"os/signal"
)

// refreshTrigger subscribes to on-demand refresh requests of watch mode. A nil channel
// never fires. cancel ends the subscription.
type refreshTrigger func() (requests <-chan os.Signal, cancel func())

// userSignals fires on the refresh signals of the platform.
func userSignals() (<-chan os.Signal, func()) {
	if len(refreshSignals) == 0 {
		return nil, func() {}
	}
	requests := make(chan os.Signal, 1)
	signal.Notify(requests, refreshSignals...)
	return requests, func() { signal.Stop(requests) }
}

// awaitRefresh searches the last query again for every request until ctx is done. Requests
// that queue up while a refresh runs are folded into the next one.
func (s *Service) awaitRefresh(ctx context.Context, requests <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-requests:
			s.logger.Debug("forecast refresh requested", "signal", sig.String())
			s.refresh(ctx)
			drain(requests)
		}
	}
}

func drain(requests <-chan os.Signal) {
	for {
		select {
		case <-requests:
		default:
			return
		}
	}
}
