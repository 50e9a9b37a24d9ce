package binding

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

var (
	// ErrUnknownBinding is returned for a binding this codec does not
	// implement. A caller bug, not an inbound-message problem.
	ErrUnknownBinding = errors.New("unknown binding")
	// ErrMalformedPayload is returned when an inbound payload fails a
	// decode step. Soft rejection of the message, never a crash.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Payload is a transport-ready rendering of one protocol message. The
// transport collaborator delivers it without further interpretation.
type Payload struct {
	Binding     saml.Binding
	URL         string
	Method      string
	Body        []byte
	ContentType string
}

// Encode renders message XML for the given binding, addressed to
// destination. param selects the wire parameter (SAMLRequest or
// SAMLResponse); relayState is round-tripped when non-empty.
func Encode(b saml.Binding, messageXML []byte, destination, relayState, param string) (*Payload, error) {
	switch b {
	case saml.BindingHTTPRedirect:
		return encodeRedirect(messageXML, destination, relayState, param)
	case saml.BindingHTTPPost:
		return encodePost(messageXML, destination, relayState, param)
	case saml.BindingSOAP:
		return encodeSOAP(messageXML, destination)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBinding, b)
	}
}

// Decode recovers raw message XML from a transport payload for the
// given binding. For SOAP the envelope is assumed already stripped by
// the transport collaborator and the payload passes through unchanged;
// use StripSOAPEnvelope for transports that hand over the full
// envelope.
func Decode(b saml.Binding, payload string) ([]byte, error) {
	switch b {
	case saml.BindingHTTPRedirect:
		return decodeRedirect(payload)
	case saml.BindingHTTPPost:
		return decodePost(payload)
	case saml.BindingSOAP:
		return []byte(payload), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBinding, b)
	}
}

func httpMethod(b saml.Binding) string {
	if b == saml.BindingHTTPRedirect {
		return http.MethodGet
	}
	return http.MethodPost
}
