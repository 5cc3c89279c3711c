// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package concurrent provides the start/shutdown contract used to tie goroutine-owning
components, such as timers, to an enclosing scope.  A Runnable spawns whatever it needs
when Run is called and tears it down once the shutdown channel is closed.
*/
package concurrent
