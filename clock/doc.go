// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package clock abstracts the native scheduling primitives that timers are built on:
reading the current time, sleeping, and arming one-shot or periodic callbacks that
can be cancelled through a handle.

Production code uses System(), which delegates to the time package.  Tests use
clocktest.Fake to drive virtual time deterministically.
*/
package clock
