// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build !unix

package service

import "os"

// No user signal on this platform, watch mode refreshes on its interval only.
var refreshSignals []os.Signal
