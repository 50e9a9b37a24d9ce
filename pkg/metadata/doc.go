// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package metadata holds what this entity knows about its peers: which
endpoints each peer advertises per service role and binding, and how to
pick a delivery target from that capability set.

[Select] implements binding selection: the caller's binding list is a
preference order, and the first binding the peer advertises for the role
wins. When no candidate matches, [ErrNoEndpoint] is returned and the
exchange cannot proceed.

[ResponseRole] maps a request kind to the peer service role its response
is delivered to (AuthnRequest to the assertion consumer service,
LogoutRequest to the single logout service, AttributeQuery to the
attribute consuming service).
*/
package metadata
