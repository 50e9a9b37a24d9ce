package binding

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// encodeRedirect builds the redirect URL: the message is deflated (raw,
// no zlib header), base64-encoded, and percent-encoded into the query
// string of the destination.
func encodeRedirect(messageXML []byte, destination, relayState, param string) (*Payload, error) {
	var buf bytes.Buffer
	b64 := base64.NewEncoder(base64.StdEncoding, &buf)
	deflate, err := flate.NewWriter(b64, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := deflate.Write(messageXML); err != nil {
		return nil, err
	}
	if err := deflate.Close(); err != nil {
		return nil, err
	}
	if err := b64.Close(); err != nil {
		return nil, err
	}

	dest, err := url.Parse(destination)
	if err != nil {
		return nil, fmt.Errorf("bad destination URL %q: %w", destination, err)
	}
	query := dest.Query()
	query.Set(param, buf.String())
	if relayState != "" {
		query.Set(saml.ParamRelayState, relayState)
	}
	dest.RawQuery = query.Encode()

	return &Payload{
		Binding: saml.BindingHTTPRedirect,
		URL:     dest.String(),
		Method:  httpMethod(saml.BindingHTTPRedirect),
	}, nil
}

// decodeRedirect inverts encodeRedirect: base64 decode, then raw
// inflate. The caller passes the already query-unescaped parameter
// value.
func decodeRedirect(payload string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrMalformedPayload, err)
	}
	inflated, err := io.ReadAll(flate.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		return nil, fmt.Errorf("%w: inflate: %v", ErrMalformedPayload, err)
	}
	return inflated, nil
}
