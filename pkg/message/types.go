package message

import (
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// TimeFormat is the canonical UTC timestamp layout used on the wire
const TimeFormat = "2006-01-02T15:04:05Z"

// Kind identifies a protocol message type
type Kind string

const (
	KindAuthnRequest   Kind = "AuthnRequest"
	KindLogoutRequest  Kind = "LogoutRequest"
	KindAttributeQuery Kind = "AttributeQuery"
	KindResponse       Kind = "Response"
	KindLogoutResponse Kind = "LogoutResponse"
)

// Issuer identifies the entity asserting authorship of a message
type Issuer struct {
	Value  string
	Format string
}

// NewIssuer returns an Issuer for an entity id, using the entity name-id
// format.
func NewIssuer(entityID string) *Issuer {
	return &Issuer{Value: entityID, Format: saml.NameIDFormatEntity}
}

// NameID identifies a subject
type NameID struct {
	Value           string
	Format          string
	NameQualifier   string
	SPNameQualifier string
}

// Status is the success/failure verdict embedded in a response message.
// It is orthogonal to transport and signature validity.
type Status struct {
	Code    string
	SubCode string
	Message string
}

// SuccessStatus returns the generic success status
func SuccessStatus() *Status {
	return &Status{Code: saml.StatusSuccess}
}

// Success reports whether the status carries the success code
func (s *Status) Success() bool {
	return s != nil && s.Code == saml.StatusSuccess
}

// NameIDPolicy constrains the name identifier an IdP may return
type NameIDPolicy struct {
	Format          string
	SPNameQualifier string
	AllowCreate     bool
}

// Attribute names one requested attribute in an AttributeQuery
type Attribute struct {
	Name         string
	NameFormat   string
	FriendlyName string
}

// Envelope carries the fields common to every request and response kind.
// An Envelope is created once by a builder or parser and is never mutated
// after the message has been encoded or verified.
type Envelope struct {
	ID           string
	Version      string
	IssueInstant time.Time
	Issuer       *Issuer
	Destination  string
	Consent      string
	Extensions   *etree.Element
	Signature    *etree.Element

	// root holds the exact parsed element for inbound messages, so that
	// signature validation runs against the received bytes rather than a
	// re-serialization.
	root *etree.Element
}

// Root returns the parsed source element for inbound messages, or nil
// for messages built locally.
func (e *Envelope) Root() *etree.Element {
	return e.root
}

// Message is any protocol message carrying the common envelope
type Message interface {
	Envelope() *Envelope
	Kind() Kind
	Element() *etree.Element
}

// Request is a protocol request message
type Request interface {
	Message
	isRequest()
}

// AuthnRequest asks an IdP to authenticate a principal
type AuthnRequest struct {
	env Envelope

	NameIDPolicy                *NameIDPolicy
	ProtocolBinding             saml.Binding
	AssertionConsumerServiceURL string
}

func (r *AuthnRequest) Envelope() *Envelope { return &r.env }
func (r *AuthnRequest) Kind() Kind          { return KindAuthnRequest }
func (r *AuthnRequest) isRequest()          {}

// LogoutRequest asks a peer to terminate a principal's session
type LogoutRequest struct {
	env Envelope

	NameID         *NameID
	Reason         string
	NotOnOrAfter   *time.Time
	SessionIndexes []string
}

func (r *LogoutRequest) Envelope() *Envelope { return &r.env }
func (r *LogoutRequest) Kind() Kind          { return KindLogoutRequest }
func (r *LogoutRequest) isRequest()          {}

// AttributeQuery asks an attribute authority for subject attributes
type AttributeQuery struct {
	env Envelope

	Subject    *NameID
	Attributes []Attribute
}

func (r *AttributeQuery) Envelope() *Envelope { return &r.env }
func (r *AttributeQuery) Kind() Kind          { return KindAttributeQuery }
func (r *AttributeQuery) isRequest()          {}

// StatusResponse answers a request. The kind selects the root element
// name (Response or LogoutResponse); the embedded status is data for the
// caller, not a verdict on the message itself.
type StatusResponse struct {
	env  Envelope
	kind Kind

	InResponseTo string
	Status       *Status
}

func (r *StatusResponse) Envelope() *Envelope { return &r.env }
func (r *StatusResponse) Kind() Kind          { return r.kind }

// StatusOf exposes the embedded status to the verification pipeline
func (r *StatusResponse) StatusOf() *Status { return r.Status }
