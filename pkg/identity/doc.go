// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package identity models one protocol entity: its entity id, signing key
material, accepted clock-skew window, and the message-id generator that
backs every envelope the entity produces.

# Message Ids

Ids come from a per-identity [IDGenerator]: a cryptographically random
seed fixed at construction time, concatenated with an atomically
incremented counter. Two identities can never collide (random seed), and
two concurrent calls on one identity can never collide (counter). The
uniqueness contract holds for the life of the process.

	id, _ := identity.New("https://sp.example.org/metadata",
	    identity.WithAcceptedSkew(5*time.Minute))
	msgID := id.NewMessageID()
*/
package identity
