// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package entity assembles the protocol collaborators into one party of a
SAML exchange.

An [Entity] owns an identity, the metadata of its peers, and the
verification pipeline for inbound traffic. It is the single entry point
for the message lifecycle.

# Outbound

Build, select a binding, and encode:

	req, err := e.BuildRequest(message.KindAuthnRequest, true,
		message.WithDestination(dst))
	b, dst, err := e.PickBinding(metadata.RoleSingleSignOn, peerID)
	payload, err := e.ApplyBinding(req, b, dst, relayState)

Answers are addressed via [Entity.ResponseArgs], which reads the
requester off the request's issuer and selects the receiving service
from its metadata.

# Inbound

Inbound payloads are judged, never trusted:

	outcome := e.ParseRequest(message.KindLogoutRequest, payload, bind)
	if !outcome.Accepted() {
		// outcome.Rejection names the failing stage and reason
	}

A payload for a service this entity does not operate is rejected, and
message ids seen within the configured replay window are dropped.
*/
package entity
