package binding

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

var messageXML = []byte(`<samlp:LogoutRequest xmlns:samlp="urn:oasis:names:tc:SAML:2.0:protocol" ID="id-1" Version="2.0" IssueInstant="2026-08-01T12:00:00Z"/>`)

func TestRedirect_RoundTrip(t *testing.T) {
	payload, err := Encode(saml.BindingHTTPRedirect, messageXML,
		"https://idp.example.com/slo", "relay-1", saml.ParamRequest)
	require.NoError(t, err)

	assert.Equal(t, saml.BindingHTTPRedirect, payload.Binding)
	assert.Equal(t, http.MethodGet, payload.Method)
	assert.Empty(t, payload.Body)

	u, err := url.Parse(payload.URL)
	require.NoError(t, err)
	assert.Equal(t, "idp.example.com", u.Host)
	assert.Equal(t, "relay-1", u.Query().Get(saml.ParamRelayState))

	wire := u.Query().Get(saml.ParamRequest)
	require.NotEmpty(t, wire)

	decoded, err := Decode(saml.BindingHTTPRedirect, wire)
	require.NoError(t, err)
	assert.Equal(t, messageXML, decoded)
}

func TestRedirect_PreservesExistingQuery(t *testing.T) {
	payload, err := Encode(saml.BindingHTTPRedirect, messageXML,
		"https://idp.example.com/slo?tenant=a", "", saml.ParamRequest)
	require.NoError(t, err)

	u, err := url.Parse(payload.URL)
	require.NoError(t, err)
	assert.Equal(t, "a", u.Query().Get("tenant"))
	assert.Empty(t, u.Query().Get(saml.ParamRelayState))
}

func TestRedirect_DecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(saml.BindingHTTPRedirect, "%%% not base64 %%%")
	assert.ErrorIs(t, err, ErrMalformedPayload)

	// valid base64 but not deflate
	_, err = Decode(saml.BindingHTTPRedirect, "aGVsbG8gd29ybGQgd2l0aG91dCBkZWZsYXRl")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestPost_RoundTrip(t *testing.T) {
	payload, err := Encode(saml.BindingHTTPPost, messageXML,
		"https://idp.example.com/slo", "relay-2", saml.ParamResponse)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, payload.Method)
	assert.Equal(t, "text/html; charset=utf-8", payload.ContentType)

	form := string(payload.Body)
	assert.Contains(t, form, `action="https://idp.example.com/slo"`)
	assert.Contains(t, form, `name="SAMLResponse"`)
	assert.Contains(t, form, `name="RelayState" value="relay-2"`)

	wire := extractFormValue(t, form, saml.ParamResponse)
	decoded, err := Decode(saml.BindingHTTPPost, wire)
	require.NoError(t, err)
	assert.Equal(t, messageXML, decoded)
}

func TestPost_OmitsEmptyRelayState(t *testing.T) {
	payload, err := Encode(saml.BindingHTTPPost, messageXML,
		"https://idp.example.com/slo", "", saml.ParamRequest)
	require.NoError(t, err)
	assert.NotContains(t, string(payload.Body), "RelayState")
}

func TestSOAP_RoundTrip(t *testing.T) {
	payload, err := Encode(saml.BindingSOAP, messageXML,
		"https://idp.example.com/soap", "", saml.ParamRequest)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, payload.Method)
	assert.Equal(t, "text/xml; charset=utf-8", payload.ContentType)
	assert.Contains(t, string(payload.Body), "soapenv:Envelope")
	assert.Contains(t, string(payload.Body), "soapenv:Body")

	inner, err := StripSOAPEnvelope(payload.Body)
	require.NoError(t, err)
	assert.Contains(t, string(inner), `ID="id-1"`)

	// SOAP decode passes a pre-stripped body through unchanged
	decoded, err := Decode(saml.BindingSOAP, string(inner))
	require.NoError(t, err)
	assert.Equal(t, inner, decoded)
}

func TestStripSOAPEnvelope_Rejects(t *testing.T) {
	_, err := StripSOAPEnvelope([]byte("not xml"))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = StripSOAPEnvelope([]byte(`<other xmlns="urn:x"/>`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	empty := `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body/></soapenv:Envelope>`
	_, err = StripSOAPEnvelope([]byte(empty))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestUnknownBinding(t *testing.T) {
	_, err := Encode("urn:example:binding", messageXML, "https://x", "", saml.ParamRequest)
	assert.ErrorIs(t, err, ErrUnknownBinding)

	_, err = Decode("urn:example:binding", "payload")
	assert.ErrorIs(t, err, ErrUnknownBinding)
}

// extractFormValue pulls a hidden input value out of the POST form
func extractFormValue(t *testing.T, form, name string) string {
	t.Helper()
	marker := `name="` + name + `" value="`
	idx := strings.Index(form, marker)
	require.GreaterOrEqual(t, idx, 0, "form lacks input %s", name)
	rest := form[idx+len(marker):]
	end := strings.Index(rest, `"`)
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}
