package message

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// newProtocolElement creates a samlp-namespaced root element with both
// protocol and assertion namespaces declared.
func newProtocolElement(tag string) *etree.Element {
	el := etree.NewElement("samlp:" + tag)
	el.CreateAttr("xmlns:samlp", saml.NsProtocol)
	el.CreateAttr("xmlns:saml", saml.NsAssertion)
	return el
}

// applyTo writes the envelope attributes and leading children onto a
// root element. Child order follows the protocol schema: Issuer,
// Signature, Extensions, then kind-specific content appended by the
// caller.
func (e *Envelope) applyTo(el *etree.Element) {
	el.CreateAttr("ID", e.ID)
	el.CreateAttr("Version", e.Version)
	el.CreateAttr("IssueInstant", e.IssueInstant.UTC().Format(TimeFormat))
	if e.Destination != "" {
		el.CreateAttr("Destination", e.Destination)
	}
	if e.Consent != "" {
		el.CreateAttr("Consent", e.Consent)
	}

	if e.Issuer != nil {
		issuer := el.CreateElement("saml:Issuer")
		if e.Issuer.Format != "" {
			issuer.CreateAttr("Format", e.Issuer.Format)
		}
		issuer.SetText(e.Issuer.Value)
	}

	if e.Signature != nil {
		el.AddChild(e.Signature.Copy())
	}

	if e.Extensions != nil {
		ext := el.CreateElement("samlp:Extensions")
		ext.AddChild(e.Extensions.Copy())
	}
}

func (n *NameID) element(tag string) *etree.Element {
	el := etree.NewElement(tag)
	if n.Format != "" {
		el.CreateAttr("Format", n.Format)
	}
	if n.NameQualifier != "" {
		el.CreateAttr("NameQualifier", n.NameQualifier)
	}
	if n.SPNameQualifier != "" {
		el.CreateAttr("SPNameQualifier", n.SPNameQualifier)
	}
	el.SetText(n.Value)
	return el
}

func (s *Status) element() *etree.Element {
	el := etree.NewElement("samlp:Status")
	code := el.CreateElement("samlp:StatusCode")
	code.CreateAttr("Value", s.Code)
	if s.SubCode != "" {
		sub := code.CreateElement("samlp:StatusCode")
		sub.CreateAttr("Value", s.SubCode)
	}
	if s.Message != "" {
		msg := el.CreateElement("samlp:StatusMessage")
		msg.SetText(s.Message)
	}
	return el
}

// Element serializes the request to its protocol XML form
func (r *AuthnRequest) Element() *etree.Element {
	el := newProtocolElement("AuthnRequest")
	if r.ProtocolBinding != "" {
		el.CreateAttr("ProtocolBinding", string(r.ProtocolBinding))
	}
	if r.AssertionConsumerServiceURL != "" {
		el.CreateAttr("AssertionConsumerServiceURL", r.AssertionConsumerServiceURL)
	}
	r.env.applyTo(el)

	if r.NameIDPolicy != nil {
		policy := el.CreateElement("samlp:NameIDPolicy")
		if r.NameIDPolicy.Format != "" {
			policy.CreateAttr("Format", r.NameIDPolicy.Format)
		}
		if r.NameIDPolicy.SPNameQualifier != "" {
			policy.CreateAttr("SPNameQualifier", r.NameIDPolicy.SPNameQualifier)
		}
		policy.CreateAttr("AllowCreate", strconv.FormatBool(r.NameIDPolicy.AllowCreate))
	}

	return el
}

// Element serializes the request to its protocol XML form
func (r *LogoutRequest) Element() *etree.Element {
	el := newProtocolElement("LogoutRequest")
	if r.Reason != "" {
		el.CreateAttr("Reason", r.Reason)
	}
	if r.NotOnOrAfter != nil {
		el.CreateAttr("NotOnOrAfter", r.NotOnOrAfter.UTC().Format(TimeFormat))
	}
	r.env.applyTo(el)

	if r.NameID != nil {
		el.AddChild(r.NameID.element("saml:NameID"))
	}
	for _, idx := range r.SessionIndexes {
		si := el.CreateElement("samlp:SessionIndex")
		si.SetText(idx)
	}

	return el
}

// Element serializes the query to its protocol XML form
func (r *AttributeQuery) Element() *etree.Element {
	el := newProtocolElement("AttributeQuery")
	r.env.applyTo(el)

	if r.Subject != nil {
		subject := el.CreateElement("saml:Subject")
		subject.AddChild(r.Subject.element("saml:NameID"))
	}
	for _, attr := range r.Attributes {
		a := el.CreateElement("saml:Attribute")
		a.CreateAttr("Name", attr.Name)
		if attr.NameFormat != "" {
			a.CreateAttr("NameFormat", attr.NameFormat)
		}
		if attr.FriendlyName != "" {
			a.CreateAttr("FriendlyName", attr.FriendlyName)
		}
	}

	return el
}

// Element serializes the response to its protocol XML form
func (r *StatusResponse) Element() *etree.Element {
	el := newProtocolElement(string(r.kind))
	if r.InResponseTo != "" {
		el.CreateAttr("InResponseTo", r.InResponseTo)
	}
	r.env.applyTo(el)

	if r.Status != nil {
		el.AddChild(r.Status.element())
	}

	return el
}

// Marshal serializes a message to compact XML bytes. Compact output
// matters: indentation introduces text nodes that change the canonical
// form a signature was computed over.
func Marshal(m Message) ([]byte, error) {
	doc := etree.NewDocument()
	if root := m.Envelope().Root(); root != nil {
		doc.SetRoot(root.Copy())
	} else {
		doc.SetRoot(m.Element())
	}
	return doc.WriteToBytes()
}
