package message

import (
	"errors"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

var (
	// ErrUnsupportedKind is returned when a message kind this entity
	// cannot produce is requested.
	ErrUnsupportedKind = errors.New("unsupported message kind")
	// ErrMissingSubject is returned when a LogoutRequest is built
	// without subject identification.
	ErrMissingSubject = errors.New("missing subject identification")
)

// Option configures an envelope or kind-specific field during building
type Option func(*options)

type options struct {
	destination  string
	consent      string
	issueInstant time.Time
	extensions   *etree.Element
	issuer       *Issuer

	nameIDPolicy    *NameIDPolicy
	protocolBinding saml.Binding
	acsURL          string

	nameID         *NameID
	reason         string
	notOnOrAfter   *time.Time
	sessionIndexes []string

	subject    *NameID
	attributes []Attribute

	status *Status
}

// WithDestination sets the recipient endpoint URL
func WithDestination(destination string) Option {
	return func(o *options) { o.destination = destination }
}

// WithIssuer overrides the issuer the builder was handed. Useful when a
// message must be issued on behalf of a different entity id than the
// builder's default.
func WithIssuer(issuer *Issuer) Option {
	return func(o *options) { o.issuer = issuer }
}

// WithConsent records whether the principal consented to the operation
func WithConsent(consent string) Option {
	return func(o *options) { o.consent = consent }
}

// WithIssueInstant overrides the issue timestamp. Defaults to the wall
// clock at build time.
func WithIssueInstant(t time.Time) Option {
	return func(o *options) { o.issueInstant = t }
}

// WithExtensions attaches an opaque extensions payload
func WithExtensions(el *etree.Element) Option {
	return func(o *options) { o.extensions = el }
}

// WithNameIDPolicy sets the name-id policy on an AuthnRequest
func WithNameIDPolicy(policy *NameIDPolicy) Option {
	return func(o *options) { o.nameIDPolicy = policy }
}

// WithProtocolBinding sets the requested response binding on an
// AuthnRequest.
func WithProtocolBinding(b saml.Binding) Option {
	return func(o *options) { o.protocolBinding = b }
}

// WithAssertionConsumerServiceURL sets the response endpoint on an
// AuthnRequest.
func WithAssertionConsumerServiceURL(url string) Option {
	return func(o *options) { o.acsURL = url }
}

// WithNameID sets the subject of a LogoutRequest
func WithNameID(nameID *NameID) Option {
	return func(o *options) { o.nameID = nameID }
}

// WithReason sets the logout reason URI
func WithReason(reason string) Option {
	return func(o *options) { o.reason = reason }
}

// WithNotOnOrAfter sets the instant after which the recipient may
// discard a LogoutRequest.
func WithNotOnOrAfter(t time.Time) Option {
	return func(o *options) { o.notOnOrAfter = &t }
}

// WithSessionIndexes names the sessions a LogoutRequest terminates
func WithSessionIndexes(indexes ...string) Option {
	return func(o *options) { o.sessionIndexes = indexes }
}

// WithSubject sets the queried subject on an AttributeQuery
func WithSubject(subject *NameID) Option {
	return func(o *options) { o.subject = subject }
}

// WithAttributes names the requested attributes on an AttributeQuery
func WithAttributes(attrs ...Attribute) Option {
	return func(o *options) { o.attributes = attrs }
}

// WithStatus sets the status of a response. Defaults to success.
func WithStatus(status *Status) Option {
	return func(o *options) { o.status = status }
}

func (o *options) envelope(id string, issuer *Issuer) Envelope {
	instant := o.issueInstant
	if instant.IsZero() {
		instant = time.Now().UTC()
	}
	if o.issuer != nil {
		issuer = o.issuer
	}
	return Envelope{
		ID:           id,
		Version:      saml.Version,
		IssueInstant: instant.UTC(),
		Issuer:       issuer,
		Destination:  o.destination,
		Consent:      o.consent,
		Extensions:   o.extensions,
	}
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewRequest builds a request of the given kind with the common
// envelope. The id must be unique for the life of the issuing entity;
// callers normally obtain it from the entity's id generator.
func NewRequest(kind Kind, id string, issuer *Issuer, opts ...Option) (Request, error) {
	switch kind {
	case KindAuthnRequest:
		return NewAuthnRequest(id, issuer, opts...), nil
	case KindLogoutRequest:
		return NewLogoutRequest(id, issuer, opts...)
	case KindAttributeQuery:
		return NewAttributeQuery(id, issuer, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// NewAuthnRequest builds an AuthnRequest
func NewAuthnRequest(id string, issuer *Issuer, opts ...Option) *AuthnRequest {
	o := collect(opts)
	return &AuthnRequest{
		env:                         o.envelope(id, issuer),
		NameIDPolicy:                o.nameIDPolicy,
		ProtocolBinding:             o.protocolBinding,
		AssertionConsumerServiceURL: o.acsURL,
	}
}

// NewLogoutRequest builds a LogoutRequest. A subject NameID is
// mandatory.
func NewLogoutRequest(id string, issuer *Issuer, opts ...Option) (*LogoutRequest, error) {
	o := collect(opts)
	if o.nameID == nil || o.nameID.Value == "" {
		return nil, ErrMissingSubject
	}
	return &LogoutRequest{
		env:            o.envelope(id, issuer),
		NameID:         o.nameID,
		Reason:         o.reason,
		NotOnOrAfter:   o.notOnOrAfter,
		SessionIndexes: o.sessionIndexes,
	}, nil
}

// NewAttributeQuery builds an AttributeQuery
func NewAttributeQuery(id string, issuer *Issuer, opts ...Option) *AttributeQuery {
	o := collect(opts)
	return &AttributeQuery{
		env:        o.envelope(id, issuer),
		Subject:    o.subject,
		Attributes: o.attributes,
	}
}

// NewStatusResponse builds a response of the given kind answering the
// request identified by inResponseTo. The status defaults to success.
func NewStatusResponse(kind Kind, id string, issuer *Issuer, inResponseTo string, opts ...Option) (*StatusResponse, error) {
	if kind != KindResponse && kind != KindLogoutResponse {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	o := collect(opts)
	status := o.status
	if status == nil {
		status = SuccessStatus()
	}
	return &StatusResponse{
		env:          o.envelope(id, issuer),
		kind:         kind,
		InResponseTo: inResponseTo,
		Status:       status,
	}, nil
}
