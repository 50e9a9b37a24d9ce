package binding

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// postForm is the auto-submitting HTML form carrying a POST-bound
// message to its destination.
var postForm = template.Must(template.New("postForm").Parse(`<!DOCTYPE html>
<html>
<body onload="document.forms[0].submit()">
<form method="post" action="{{.Destination}}">
<input type="hidden" name="{{.Param}}" value="{{.Value}}" />
{{- if .RelayState }}
<input type="hidden" name="RelayState" value="{{.RelayState}}" />
{{- end }}
<noscript><input type="submit" value="Continue" /></noscript>
</form>
</body>
</html>
`))

type postFormData struct {
	Destination string
	Param       string
	Value       string
	RelayState  string
}

func encodePost(messageXML []byte, destination, relayState, param string) (*Payload, error) {
	var body bytes.Buffer
	err := postForm.Execute(&body, postFormData{
		Destination: destination,
		Param:       param,
		Value:       base64.StdEncoding.EncodeToString(messageXML),
		RelayState:  relayState,
	})
	if err != nil {
		return nil, err
	}

	return &Payload{
		Binding:     saml.BindingHTTPPost,
		URL:         destination,
		Method:      httpMethod(saml.BindingHTTPPost),
		Body:        body.Bytes(),
		ContentType: "text/html; charset=utf-8",
	}, nil
}

// decodePost inverts the POST form parameter value: plain base64
func decodePost(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrMalformedPayload, err)
	}
	return raw, nil
}
