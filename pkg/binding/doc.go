// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package binding encodes protocol messages into transport-ready form and
decodes inbound transport payloads back into raw message XML, for the
HTTP-POST, HTTP-Redirect, and SOAP bindings.

Encoding produces a [Payload] the transport collaborator can deliver
as-is: an auto-submitting HTML form (POST), a destination URL with the
deflated+base64+percent-encoded message in its query string (Redirect),
or a SOAP envelope (SOAP).

Decoding inverts the binding-specific steps. Any decode failure (bad
base64, inflate error, malformed envelope) is [ErrMalformedPayload]: a
soft rejection of that inbound message, not a crash. Round trips are
byte-exact for POST and Redirect; SOAP round-trips the inner body, the
envelope itself is transport dressing.
*/
package binding
