// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package replay provides a sliding-window guard against replayed
// inbound message ids. The entity layer consults it after a payload
// passes the verification pipeline, so a captured message cannot be
// presented twice within the window.
package replay
