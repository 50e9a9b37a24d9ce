package identity

import (
	"crypto"
	"crypto/x509"
	"errors"
	"time"
)

// ErrMissingEntityID is returned when an identity is constructed without
// an entity id.
var ErrMissingEntityID = errors.New("missing entity id")

// Identity holds the immutable identity of one protocol entity: its
// entity id, signing key material, and the clock-skew window it accepts
// on inbound messages. All fields are read-only after construction; the
// embedded id generator is safe for concurrent use.
type Identity struct {
	EntityID     string
	Key          crypto.Signer
	Certificate  *x509.Certificate
	AcceptedSkew time.Duration

	idgen *IDGenerator
}

// Option configures an Identity
type Option func(*Identity)

// WithKeyPair sets the signing key and certificate
func WithKeyPair(key crypto.Signer, cert *x509.Certificate) Option {
	return func(id *Identity) {
		id.Key = key
		id.Certificate = cert
	}
}

// WithAcceptedSkew sets the tolerated clock difference for freshness
// checks. Zero (the default) means strict.
func WithAcceptedSkew(skew time.Duration) Option {
	return func(id *Identity) {
		id.AcceptedSkew = skew
	}
}

// New creates an Identity for the given entity id
func New(entityID string, opts ...Option) (*Identity, error) {
	if entityID == "" {
		return nil, ErrMissingEntityID
	}

	id := &Identity{
		EntityID: entityID,
		idgen:    NewIDGenerator(),
	}

	for _, opt := range opts {
		opt(id)
	}

	return id, nil
}

// CanSign reports whether the identity carries signing key material
func (id *Identity) CanSign() bool {
	return id.Key != nil && id.Certificate != nil
}

// NewMessageID returns a message id unique across all messages produced
// by this identity for the life of the process, including under
// concurrent calls.
func (id *Identity) NewMessageID() string {
	return id.idgen.Next()
}
