// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package gosaml2 implements the SAML 2.0 protocol message lifecycle:
building, binding, signing, and verifying the request and response
messages exchanged between SAML entities.

# Overview

go-saml2 is the protocol core shared by a Service Provider and an
Identity Provider: the message builders, the binding codecs, the
metadata-driven binding selection, and the deterministic verification
pipeline for inbound traffic. It deliberately stops below assertion
processing and session management; those belong to the role built on
top of it.

# Specifications Implemented

  - SAML 2.0 Core: https://docs.oasis-open.org/security/saml/v2.0/saml-core-2.0-os.pdf
  - SAML 2.0 Bindings (HTTP-POST, HTTP-Redirect, SOAP): https://docs.oasis-open.org/security/saml/v2.0/saml-bindings-2.0-os.pdf
  - XML Signature Syntax and Processing: https://www.w3.org/TR/xmldsig-core1/

# Package Structure

	github.com/sirosfoundation/go-saml2/pkg/entity   - Entity assembly and lifecycle API
	github.com/sirosfoundation/go-saml2/pkg/message  - Protocol message types, builders, parsers
	github.com/sirosfoundation/go-saml2/pkg/binding  - HTTP-POST, HTTP-Redirect, SOAP codecs
	github.com/sirosfoundation/go-saml2/pkg/metadata - Peer capability lookup and binding selection
	github.com/sirosfoundation/go-saml2/pkg/security - Enveloped XML signatures
	github.com/sirosfoundation/go-saml2/pkg/verify   - Inbound verification pipeline
	github.com/sirosfoundation/go-saml2/pkg/replay   - Duplicate message-id detection
	github.com/sirosfoundation/go-saml2/pkg/identity - Entity identity and message-id generation
	github.com/sirosfoundation/go-saml2/pkg/saml     - Protocol constants

# Quick Start

To build and send a logout request:

	import (
	    "github.com/sirosfoundation/go-saml2/pkg/entity"
	    "github.com/sirosfoundation/go-saml2/pkg/message"
	    "github.com/sirosfoundation/go-saml2/pkg/metadata"
	)

	e, _ := entity.New(entity.Config{Identity: id, Peers: peers})

	bind, dst, _ := e.PickBinding(metadata.RoleSingleLogout, peerID)
	req, _ := e.CreateLogoutRequest(dst, subject, true)
	payload, _ := e.ApplyBinding(req, bind, dst, relayState)

And to judge the answer:

	outcome := e.ParseLogoutRequestResponse(wire, bind)
	if outcome.Accepted() && !outcome.Status.Success() {
	    // peer refused; outcome.Status carries the codes
	}

# Security Model

Inbound payloads are hostile until proven otherwise. Every inbound
message passes a fixed pipeline (decode, parse, signature, freshness,
destination) whose result is a value, never a panic: see
[github.com/sirosfoundation/go-saml2/pkg/verify]. Signatures are
enveloped XML signatures with exclusive canonicalization, validated
against the configured peer certificates.

# License

BSD-2-Clause License
*/
package gosaml2
