// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package verify implements the inbound verification pipeline: the single
deterministic judgment of one transport payload.

A [Pipeline] run moves through the states

	RECEIVED -> DECODED -> PARSED -> SIGNATURE_CHECKED -> TIME_CHECKED
	         -> DESTINATION_CHECKED -> STATUS_CHECKED -> ACCEPTED

with a transition to rejected possible at every step. The result is an
[Outcome]: an accepted typed message or a [Rejection] carrying the
failing stage and a [Reason]. Malformed or hostile input from a network
peer is an expected case, so inbound problems are values, never panics
or errors.

A non-success status inside a well-formed, well-signed response is not a
rejection: the message is accepted and the status surfaced to the
caller. Destination mismatches are governed by an explicit
[DestinationPolicy] rather than silent leniency.
*/
package verify
