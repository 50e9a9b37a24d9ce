package entity

import (
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sirosfoundation/go-saml2/pkg/binding"
	"github.com/sirosfoundation/go-saml2/pkg/identity"
	"github.com/sirosfoundation/go-saml2/pkg/message"
	"github.com/sirosfoundation/go-saml2/pkg/metadata"
	"github.com/sirosfoundation/go-saml2/pkg/replay"
	"github.com/sirosfoundation/go-saml2/pkg/saml"
	"github.com/sirosfoundation/go-saml2/pkg/security"
	"github.com/sirosfoundation/go-saml2/pkg/verify"
)

var (
	// ErrNoIdentity is returned when an entity is constructed without
	// an identity.
	ErrNoIdentity = errors.New("missing identity")
	// ErrNoIssuer is returned when response arguments are derived from
	// a request that carries no issuer.
	ErrNoIssuer = errors.New("request carries no issuer")
	// ErrUnknownKind is returned for a message kind the entity has no
	// parser for.
	ErrUnknownKind = errors.New("unknown message kind")
)

// defaultBindingOrder is the preference used when the caller states
// none. Front-channel bindings first, SOAP as the back-channel
// fallback.
var defaultBindingOrder = []saml.Binding{
	saml.BindingHTTPRedirect,
	saml.BindingHTTPPost,
	saml.BindingSOAP,
}

// requestRoles maps an inbound request kind to the service role of this
// entity that receives it.
var requestRoles = map[message.Kind]metadata.ServiceRole{
	message.KindAuthnRequest:   metadata.RoleSingleSignOn,
	message.KindLogoutRequest:  metadata.RoleSingleLogout,
	message.KindAttributeQuery: metadata.RoleAttributeService,
}

// responseReceiveRoles maps an inbound response kind to the service
// role of this entity that receives it.
var responseReceiveRoles = map[message.Kind]metadata.ServiceRole{
	message.KindResponse:       metadata.RoleAssertionConsumer,
	message.KindLogoutResponse: metadata.RoleSingleLogout,
}

// parseFuncs maps a message kind to its parser
var parseFuncs = map[message.Kind]message.ParseFunc{
	message.KindAuthnRequest:   message.ParseAuthnRequest,
	message.KindLogoutRequest:  message.ParseLogoutRequest,
	message.KindAttributeQuery: message.ParseAttributeQuery,
	message.KindResponse:       message.ParseResponse,
	message.KindLogoutResponse: message.ParseLogoutResponse,
}

// Config assembles the collaborators of one protocol entity. Identity
// is mandatory; everything else degrades gracefully when absent.
type Config struct {
	// Identity is this entity's own identity and key material.
	Identity *identity.Identity

	// Peers answers endpoint lookups against peer metadata. Required
	// for outbound binding selection; an entity that only verifies
	// inbound traffic may leave it nil.
	Peers metadata.EndpointStore

	// PeerCertificates are the signing certificates of all known
	// peers. Inbound signatures are checked against the full set.
	PeerCertificates []*x509.Certificate

	// OwnEndpoints describes this entity's own receiving endpoints,
	// keyed by its own entity id. When set, inbound messages are
	// checked against it: a message for a service this entity does not
	// operate is rejected, and declared destinations are matched
	// against the registered URLs. When nil both checks are skipped.
	OwnEndpoints metadata.EndpointStore

	// RequireSignature rejects unsigned inbound messages
	RequireSignature bool

	// DestinationPolicy selects lenient or strict handling of declared
	// destination mismatches. The zero value is lenient.
	DestinationPolicy verify.DestinationPolicy

	// ReplayWindow enables duplicate message-id detection over the
	// given sliding window. Zero disables the guard.
	ReplayWindow time.Duration

	// Clock supplies message timestamps and verification time.
	// Defaults to the wall clock.
	Clock clockwork.Clock

	// Logger defaults to slog.Default
	Logger *slog.Logger
}

// Entity is one party in the protocol: it builds and signs outbound
// messages, selects bindings against peer metadata, encodes and decodes
// wire payloads, and judges inbound traffic through the verification
// pipeline. An Entity is read-only after construction and safe for
// concurrent use.
type Entity struct {
	id       *identity.Identity
	peers    metadata.EndpointStore
	own      metadata.EndpointStore
	signer   *security.Signer
	pipeline *verify.Pipeline
	guard    *replay.Guard
	clock    clockwork.Clock
	logger   *slog.Logger
}

// New assembles an entity from its configuration
func New(cfg Config) (*Entity, error) {
	if cfg.Identity == nil {
		return nil, ErrNoIdentity
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Entity{
		id:     cfg.Identity,
		peers:  cfg.Peers,
		own:    cfg.OwnEndpoints,
		clock:  clock,
		logger: logger,
	}

	if cfg.Identity.CanSign() {
		signer, err := security.NewSigner(cfg.Identity.Key, cfg.Identity.Certificate)
		if err != nil {
			return nil, fmt.Errorf("building signer: %w", err)
		}
		e.signer = signer
	}

	var verifier verify.SignatureVerifier
	if len(cfg.PeerCertificates) > 0 {
		v, err := security.NewVerifier(cfg.PeerCertificates...)
		if err != nil {
			return nil, fmt.Errorf("building verifier: %w", err)
		}
		verifier = v
	}

	e.pipeline = &verify.Pipeline{
		Verifier:          verifier,
		RequireSignature:  cfg.RequireSignature,
		AcceptedSkew:      cfg.Identity.AcceptedSkew,
		DestinationPolicy: cfg.DestinationPolicy,
		Clock:             clock,
		Logger:            logger,
	}

	if cfg.ReplayWindow > 0 {
		e.guard = replay.NewGuard(cfg.ReplayWindow, clock)
	}

	return e, nil
}

// EntityID returns this entity's id
func (e *Entity) EntityID() string { return e.id.EntityID }

// BuildRequest assembles a request of the given kind with a fresh
// message id, this entity as issuer (message.WithIssuer overrides),
// and the current time as issue instant. When sign is true the message
// is signed before return and the signed form is what Marshal will
// emit.
func (e *Entity) BuildRequest(kind message.Kind, sign bool, opts ...message.Option) (message.Request, error) {
	opts = append([]message.Option{message.WithIssueInstant(e.clock.Now().UTC())}, opts...)
	req, err := message.NewRequest(kind, e.id.NewMessageID(), message.NewIssuer(e.id.EntityID), opts...)
	if err != nil {
		return nil, err
	}
	if sign {
		if err := e.Sign(req); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("built request", "kind", kind, "id", req.Envelope().ID, "signed", sign)
	return req, nil
}

// BuildResponse assembles a response of the given kind answering the
// request with id inResponseTo. The status defaults to success; pass
// message.WithStatus for an error response.
func (e *Entity) BuildResponse(kind message.Kind, inResponseTo string, sign bool, opts ...message.Option) (*message.StatusResponse, error) {
	opts = append([]message.Option{message.WithIssueInstant(e.clock.Now().UTC())}, opts...)
	resp, err := message.NewStatusResponse(kind, e.id.NewMessageID(), message.NewIssuer(e.id.EntityID), inResponseTo, opts...)
	if err != nil {
		return nil, err
	}
	if sign {
		if err := e.Sign(resp); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("built response", "kind", kind, "id", resp.Envelope().ID,
		"in_response_to", inResponseTo, "signed", sign)
	return resp, nil
}

// Sign signs a built message with this entity's key. extraRefs name
// identified descendant elements (by their ID attribute) that get their
// own enveloped signatures before the message signature is computed
// over the whole.
func (e *Entity) Sign(m message.Message, extraRefs ...string) error {
	if e.signer == nil {
		return security.ErrNoSigner
	}
	return message.Sign(m, e.signer, extraRefs...)
}

// PickBinding returns the first (binding, destination) the peer
// advertises for the role, walking the caller's preference order, or
// the default order when none is given.
func (e *Entity) PickBinding(role metadata.ServiceRole, peerEntityID string, preferred ...saml.Binding) (saml.Binding, string, error) {
	if e.peers == nil {
		return "", "", fmt.Errorf("%w: entity %s, role %s", metadata.ErrNoEndpoint, peerEntityID, role)
	}
	if len(preferred) == 0 {
		preferred = defaultBindingOrder
	}
	return metadata.Select(e.peers, preferred, role, peerEntityID)
}

// ResponseArgs derives where the answer to a request must go: the
// requester is read off the request's issuer, the service role follows
// from the request kind, and the binding and destination are selected
// from the requester's metadata.
func (e *Entity) ResponseArgs(req message.Request, preferred ...saml.Binding) (saml.Binding, string, error) {
	issuer := req.Envelope().Issuer
	if issuer == nil || issuer.Value == "" {
		return "", "", ErrNoIssuer
	}
	role, err := metadata.ResponseRole(req.Kind())
	if err != nil {
		return "", "", err
	}
	return e.PickBinding(role, issuer.Value, preferred...)
}

// ApplyBinding serializes a message and encodes it for transport. The
// wire parameter is chosen from the message kind: responses travel as
// SAMLResponse, everything else as SAMLRequest.
func (e *Entity) ApplyBinding(m message.Message, b saml.Binding, destination, relayState string) (*binding.Payload, error) {
	xml, err := message.Marshal(m)
	if err != nil {
		return nil, err
	}

	param := saml.ParamRequest
	switch m.Kind() {
	case message.KindResponse, message.KindLogoutResponse:
		param = saml.ParamResponse
	}
	return binding.Encode(b, xml, destination, relayState, param)
}

// ParseRequest judges an inbound request payload of the given kind.
// The outcome is either an accepted typed request or a rejection with
// a stage and reason; inbound problems never surface as errors.
func (e *Entity) ParseRequest(kind message.Kind, payload string, bind saml.Binding) verify.Outcome {
	role, ok := requestRoles[kind]
	if !ok {
		return verify.Reject(verify.StageReceived, verify.ReasonNotMyService,
			fmt.Errorf("%w: %s", ErrUnknownKind, kind))
	}
	return e.parseInbound(kind, role, payload, bind)
}

// ParseResponse judges an inbound response payload of the given kind.
// A well-formed response reporting failure is accepted with its status
// surfaced on the outcome; only transport, signature, freshness, and
// schema problems reject.
func (e *Entity) ParseResponse(kind message.Kind, payload string, bind saml.Binding) verify.Outcome {
	role, ok := responseReceiveRoles[kind]
	if !ok {
		return verify.Reject(verify.StageReceived, verify.ReasonNotMyService,
			fmt.Errorf("%w: %s", ErrUnknownKind, kind))
	}
	return e.parseInbound(kind, role, payload, bind)
}

func (e *Entity) parseInbound(kind message.Kind, role metadata.ServiceRole, payload string, bind saml.Binding) verify.Outcome {
	var returnAddrs []string
	if e.own != nil {
		returnAddrs = e.own.Lookup(e.id.EntityID, role, bind)
		if len(returnAddrs) == 0 {
			return verify.Reject(verify.StageReceived, verify.ReasonNotMyService,
				fmt.Errorf("no %s endpoint for binding %s", role, bind))
		}
	}

	outcome := e.pipeline.Run(payload, bind, parseFuncs[kind], returnAddrs...)
	if !outcome.Accepted() {
		return outcome
	}

	if e.guard != nil {
		id := outcome.Message.Envelope().ID
		if !e.guard.Observe(id) {
			e.logger.Info("dropping replayed message", "kind", kind, "id", id)
			return verify.Reject(verify.StageTimeChecked, verify.ReasonReplay,
				fmt.Errorf("message id %s seen before", id))
		}
	}

	return outcome
}

// CreateLogoutRequest builds a logout request for the given subject,
// addressed to destination. The subject is mandatory.
func (e *Entity) CreateLogoutRequest(destination string, subject *message.NameID, sign bool, opts ...message.Option) (*message.LogoutRequest, error) {
	opts = append([]message.Option{
		message.WithDestination(destination),
		message.WithNameID(subject),
	}, opts...)

	req, err := e.BuildRequest(message.KindLogoutRequest, sign, opts...)
	if err != nil {
		return nil, err
	}
	return req.(*message.LogoutRequest), nil
}

// CreateLogoutResponse answers a logout request. The status defaults to
// success.
func (e *Entity) CreateLogoutResponse(inResponseTo string, sign bool, opts ...message.Option) (*message.StatusResponse, error) {
	return e.BuildResponse(message.KindLogoutResponse, inResponseTo, sign, opts...)
}

// ParseLogoutRequest judges an inbound logout request
func (e *Entity) ParseLogoutRequest(payload string, bind saml.Binding) verify.Outcome {
	return e.ParseRequest(message.KindLogoutRequest, payload, bind)
}

// ParseLogoutRequestResponse judges the answer to a logout request this
// entity sent.
func (e *Entity) ParseLogoutRequestResponse(payload string, bind saml.Binding) verify.Outcome {
	return e.ParseResponse(message.KindLogoutResponse, payload, bind)
}
