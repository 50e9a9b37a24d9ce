package binding

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// encodeSOAP wraps the message in a SOAP 1.1 envelope body addressed to
// destination.
func encodeSOAP(messageXML []byte, destination string) (*Payload, error) {
	inner := etree.NewDocument()
	if err := inner.ReadFromBytes(messageXML); err != nil {
		return nil, fmt.Errorf("message is not well-formed XML: %w", err)
	}
	if inner.Root() == nil {
		return nil, fmt.Errorf("message has no root element")
	}

	doc := etree.NewDocument()
	envelope := doc.CreateElement("soapenv:Envelope")
	envelope.CreateAttr("xmlns:soapenv", saml.NsSOAPEnv)
	envelope.CreateElement("soapenv:Header")
	body := envelope.CreateElement("soapenv:Body")
	body.AddChild(inner.Root())

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, err
	}

	return &Payload{
		Binding:     saml.BindingSOAP,
		URL:         destination,
		Method:      httpMethod(saml.BindingSOAP),
		Body:        out,
		ContentType: "text/xml; charset=utf-8",
	}, nil
}

// StripSOAPEnvelope extracts the first element of the SOAP body. For
// transports that hand over the full envelope rather than a pre-stripped
// body.
func StripSOAPEnvelope(data []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "Envelope" || root.NamespaceURI() != saml.NsSOAPEnv {
		return nil, fmt.Errorf("%w: not a SOAP envelope", ErrMalformedPayload)
	}

	var body *etree.Element
	for _, child := range root.ChildElements() {
		if child.Tag == "Body" && child.NamespaceURI() == saml.NsSOAPEnv {
			body = child
			break
		}
	}
	if body == nil || len(body.ChildElements()) == 0 {
		return nil, fmt.Errorf("%w: empty SOAP body", ErrMalformedPayload)
	}

	out := etree.NewDocument()
	out.SetRoot(body.ChildElements()[0].Copy())
	return out.WriteToBytes()
}
