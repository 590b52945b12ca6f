// SPDX-License-Identifier: Apache-2.0

// Package client implements the interactive application runtime.
//
// It wires terminal UI flows, the service layer, and background workers
// into a single process lifecycle.
package client
