package verify

import (
	"fmt"

	"github.com/sirosfoundation/go-saml2/pkg/message"
)

// Stage names a step of the verification state machine
type Stage int

const (
	StageReceived Stage = iota
	StageDecoded
	StageParsed
	StageSignatureChecked
	StageTimeChecked
	StageDestinationChecked
	StageStatusChecked
	StageAccepted
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageDecoded:
		return "decoded"
	case StageParsed:
		return "parsed"
	case StageSignatureChecked:
		return "signature_checked"
	case StageTimeChecked:
		return "time_checked"
	case StageDestinationChecked:
		return "destination_checked"
	case StageStatusChecked:
		return "status_checked"
	case StageAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Reason classifies why an inbound message was rejected
type Reason string

const (
	ReasonMalformedPayload Reason = "malformed payload"
	ReasonSchemaViolation  Reason = "schema violation"
	ReasonMissingSignature Reason = "missing required signature"
	ReasonInvalidSignature Reason = "invalid signature"
	ReasonStaleMessage     Reason = "stale or future message"
	ReasonBadDestination   Reason = "destination mismatch"
	ReasonReplay           Reason = "replayed message id"
	ReasonNotMyService     Reason = "no receiving endpoint for service"
)

// Rejection records the stage a message failed at and why
type Rejection struct {
	Stage  Stage
	Reason Reason
	Err    error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s at %s: %v", r.Reason, r.Stage, r.Err)
	}
	return fmt.Sprintf("%s at %s", r.Reason, r.Stage)
}

func (r *Rejection) Unwrap() error { return r.Err }

// Outcome is the single verdict on one inbound payload: either an
// accepted typed message (possibly carrying a non-success status, which
// is data for the caller, not a rejection) or a rejection with a
// reason. Never a bare nil.
type Outcome struct {
	// Message is the validated message. Non-nil exactly when the
	// outcome is accepted.
	Message message.Message
	// Status is the embedded status of an accepted response, surfaced
	// even when it reports failure. Nil for requests.
	Status *message.Status
	// Rejection is non-nil exactly when the outcome is rejected.
	Rejection *Rejection
}

// Accepted reports whether the payload passed verification
func (o Outcome) Accepted() bool { return o.Rejection == nil }

func Accept(msg message.Message, status *message.Status) Outcome {
	return Outcome{Message: msg, Status: status}
}

func Reject(stage Stage, reason Reason, err error) Outcome {
	return Outcome{Rejection: &Rejection{Stage: stage, Reason: reason, Err: err}}
}
