package verify

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/etree"
	"github.com/jonboulle/clockwork"
	xrv "github.com/mattermost/xml-roundtrip-validator"

	"github.com/sirosfoundation/go-saml2/pkg/binding"
	"github.com/sirosfoundation/go-saml2/pkg/message"
	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// DestinationPolicy controls how a mismatch between a message's declared
// destination and this entity's own receiving endpoint is handled.
type DestinationPolicy int

const (
	// DestinationLenient logs a mismatch on POST and Redirect bindings
	// and accepts the message. This matches common deployments, where
	// proxies and rewrites make the declared destination unreliable.
	DestinationLenient DestinationPolicy = iota
	// DestinationStrict rejects a message whose declared destination
	// matches none of the expected return addresses.
	DestinationStrict
)

// SignatureVerifier validates the enveloped signature on a parsed
// message element. Implemented by security.Verifier.
type SignatureVerifier interface {
	Verify(el *etree.Element) error
}

// Pipeline applies the inbound verification sequence to one payload at
// a time: decode, parse, signature, freshness, destination, status.
// A Pipeline is read-only after construction and safe for concurrent
// use; each Run call owns its outcome exclusively.
type Pipeline struct {
	// Verifier checks message signatures against the peer's known
	// certificates. When nil, any signed message is rejected because
	// nothing can vouch for it.
	Verifier SignatureVerifier

	// RequireSignature rejects unsigned messages. When false, absence
	// of a signature is accepted.
	RequireSignature bool

	// AcceptedSkew is the tolerated clock difference for the freshness
	// window [now-skew, now+skew]. Zero means strict.
	AcceptedSkew time.Duration

	// DestinationPolicy selects lenient or strict handling of
	// destination mismatches. The zero value is lenient.
	DestinationPolicy DestinationPolicy

	// Clock supplies the verification time. Defaults to the wall
	// clock.
	Clock clockwork.Clock

	// Logger records soft rejections and tolerated mismatches.
	// Defaults to slog.Default.
	Logger *slog.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Clock != nil {
		return p.Clock.Now()
	}
	return time.Now()
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Run judges one inbound payload. The payload is decoded for the given
// binding, parsed with the expected message constructor, and checked
// for signature validity, freshness, and declared destination. The
// returned outcome is either an accepted typed message or a rejection
// with a reason; inbound problems never surface as errors.
//
// expectedReturnAddrs are this entity's own receiving endpoints for the
// service the payload arrived on; pass none to skip the destination
// check.
func (p *Pipeline) Run(payload string, bind saml.Binding, parse message.ParseFunc, expectedReturnAddrs ...string) Outcome {
	log := p.logger()

	// RECEIVED -> DECODED
	raw, err := binding.Decode(bind, payload)
	if err != nil {
		log.Debug("inbound payload rejected", "stage", StageDecoded, "err", err)
		return Reject(StageDecoded, ReasonMalformedPayload, err)
	}

	// DECODED -> PARSED
	if err := xrv.Validate(bytes.NewReader(raw)); err != nil {
		log.Debug("inbound payload rejected", "stage", StageParsed, "err", err)
		return Reject(StageParsed, ReasonSchemaViolation, err)
	}
	msg, err := parse(raw)
	if err != nil {
		log.Debug("inbound payload rejected", "stage", StageParsed, "err", err)
		return Reject(StageParsed, ReasonSchemaViolation, err)
	}
	env := msg.Envelope()

	// PARSED -> SIGNATURE_CHECKED
	if env.Signature == nil {
		if p.RequireSignature {
			return Reject(StageSignatureChecked, ReasonMissingSignature, nil)
		}
	} else {
		if p.Verifier == nil {
			return Reject(StageSignatureChecked, ReasonInvalidSignature,
				fmt.Errorf("signed message but no peer certificate known"))
		}
		if err := p.Verifier.Verify(env.Root()); err != nil {
			log.Info("signature verification failed", "kind", msg.Kind(), "id", env.ID, "err", err)
			return Reject(StageSignatureChecked, ReasonInvalidSignature, err)
		}
	}

	// SIGNATURE_CHECKED -> TIME_CHECKED
	now := p.now()
	if env.IssueInstant.Before(now.Add(-p.AcceptedSkew)) || env.IssueInstant.After(now.Add(p.AcceptedSkew)) {
		return Reject(StageTimeChecked, ReasonStaleMessage,
			fmt.Errorf("issue instant %s outside window around %s (skew %s)",
				env.IssueInstant.Format(time.RFC3339), now.Format(time.RFC3339), p.AcceptedSkew))
	}

	// TIME_CHECKED -> DESTINATION_CHECKED
	if len(expectedReturnAddrs) > 0 && env.Destination != "" {
		if !contains(expectedReturnAddrs, env.Destination) {
			mismatch := fmt.Errorf("declared destination %q not among expected return addresses", env.Destination)
			if p.DestinationPolicy == DestinationStrict {
				return Reject(StageDestinationChecked, ReasonBadDestination, mismatch)
			}
			log.Warn("tolerating destination mismatch", "kind", msg.Kind(), "id", env.ID,
				"declared", env.Destination, "binding", string(bind))
		}
	}

	// DESTINATION_CHECKED -> STATUS_CHECKED -> ACCEPTED. A non-success
	// status is surfaced on
	// the accepted outcome; transport validity and embedded status are
	// orthogonal.
	var status *message.Status
	if sr, ok := msg.(interface{ StatusOf() *message.Status }); ok {
		status = sr.StatusOf()
	}

	return Accept(msg, status)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
