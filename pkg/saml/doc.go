// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package saml defines the wire-level constants of the SAML 2.0 protocol:
XML namespaces, binding identifier URNs, the protocol version string,
the SAMLRequest/SAMLResponse/RelayState parameter names, status codes,
and name-id format URIs.

These constants are shared by every other package in the module and carry
no behavior of their own.
*/
package saml
