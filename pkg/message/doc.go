// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package message provides the typed SAML 2.0 protocol message model,
builders, and parsers.

# Message Types

Every message embeds the common [Envelope]: id, protocol version, issue
instant, issuer, optional destination, consent, extensions, and an
optional signature element. On top of the envelope the package defines
the request kinds

  - [AuthnRequest]: authentication request with an optional NameIDPolicy
  - [LogoutRequest]: session termination with subject NameID, reason,
    and expiry
  - [AttributeQuery]: attribute request for a subject

and [StatusResponse], which answers a request and carries the
in-response-to reference plus a [Status].

# Building Messages

Builders use functional options for the optional envelope and
kind-specific fields:

	req, err := message.NewLogoutRequest(id, message.NewIssuer(entityID),
	    message.WithNameID(&message.NameID{Value: "user123"}),
	    message.WithDestination("https://idp.example/slo"),
	)

[NewRequest] dispatches on [Kind] and rejects unknown kinds with
[ErrUnsupportedKind].

# Parsing

Parse functions ([ParseAuthnRequest], [ParseLogoutRequest],
[ParseResponse], ...) check the root element, mandatory envelope
attributes, and per-kind mandatory children, returning
[ErrSchemaViolation] otherwise. Parsed messages retain their source
element so signature validation runs over the received bytes.
*/
package message
