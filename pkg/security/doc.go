// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package security implements message signing and signature verification
using goxmldsig.

[Signer] produces enveloped XML-DSig signatures (RSA-SHA256, exclusive
canonicalization) bound to the message's ID attribute, with the
signature element positioned after the Issuer as the protocol schema
requires. [Verifier] validates inbound signatures against the peer
certificates known from metadata.

Key and certificate loading from PEM files lives in internal/keystore;
this package only consumes crypto.Signer and x509.Certificate values.
*/
package security
