package message

import (
	"errors"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// ErrSchemaViolation is returned when inbound XML is not a structurally
// valid message of the expected kind.
var ErrSchemaViolation = errors.New("schema violation")

// ParseFunc constructs a typed message from decoded XML bytes. The
// verification pipeline is handed the ParseFunc matching the message
// kind it expects.
type ParseFunc func(data []byte) (Message, error)

func parseRoot(data []byte, tag string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrSchemaViolation)
	}
	if root.Tag != tag || root.NamespaceURI() != saml.NsProtocol {
		return nil, fmt.Errorf("%w: expected %s root, got {%s}%s",
			ErrSchemaViolation, tag, root.NamespaceURI(), root.Tag)
	}
	return root, nil
}

func childElement(el *etree.Element, ns, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag && child.NamespaceURI() == ns {
			return child
		}
	}
	return nil
}

func parseEnvelope(el *etree.Element) (Envelope, error) {
	env := Envelope{root: el}

	env.ID = el.SelectAttrValue("ID", "")
	env.Version = el.SelectAttrValue("Version", "")
	instant := el.SelectAttrValue("IssueInstant", "")
	if env.ID == "" || env.Version == "" || instant == "" {
		return env, fmt.Errorf("%w: missing ID, Version, or IssueInstant", ErrSchemaViolation)
	}
	if env.Version != saml.Version {
		return env, fmt.Errorf("%w: unsupported protocol version %q", ErrSchemaViolation, env.Version)
	}

	t, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		return env, fmt.Errorf("%w: bad IssueInstant: %v", ErrSchemaViolation, err)
	}
	env.IssueInstant = t.UTC()

	env.Destination = el.SelectAttrValue("Destination", "")
	env.Consent = el.SelectAttrValue("Consent", "")

	if issuer := childElement(el, saml.NsAssertion, "Issuer"); issuer != nil {
		env.Issuer = &Issuer{
			Value:  issuer.Text(),
			Format: issuer.SelectAttrValue("Format", ""),
		}
	}
	env.Signature = childElement(el, saml.NsXMLDSig, "Signature")
	if ext := childElement(el, saml.NsProtocol, "Extensions"); ext != nil {
		env.Extensions = ext
	}

	return env, nil
}

func parseNameID(el *etree.Element) *NameID {
	return &NameID{
		Value:           el.Text(),
		Format:          el.SelectAttrValue("Format", ""),
		NameQualifier:   el.SelectAttrValue("NameQualifier", ""),
		SPNameQualifier: el.SelectAttrValue("SPNameQualifier", ""),
	}
}

func parseStatus(el *etree.Element) (*Status, error) {
	statusEl := childElement(el, saml.NsProtocol, "Status")
	if statusEl == nil {
		return nil, fmt.Errorf("%w: missing Status", ErrSchemaViolation)
	}
	codeEl := childElement(statusEl, saml.NsProtocol, "StatusCode")
	if codeEl == nil || codeEl.SelectAttrValue("Value", "") == "" {
		return nil, fmt.Errorf("%w: missing StatusCode", ErrSchemaViolation)
	}

	status := &Status{Code: codeEl.SelectAttrValue("Value", "")}
	if sub := childElement(codeEl, saml.NsProtocol, "StatusCode"); sub != nil {
		status.SubCode = sub.SelectAttrValue("Value", "")
	}
	if msg := childElement(statusEl, saml.NsProtocol, "StatusMessage"); msg != nil {
		status.Message = msg.Text()
	}
	return status, nil
}

// ParseAuthnRequest parses an AuthnRequest from decoded XML bytes
func ParseAuthnRequest(data []byte) (Message, error) {
	root, err := parseRoot(data, "AuthnRequest")
	if err != nil {
		return nil, err
	}
	env, err := parseEnvelope(root)
	if err != nil {
		return nil, err
	}

	req := &AuthnRequest{
		env:                         env,
		ProtocolBinding:             saml.Binding(root.SelectAttrValue("ProtocolBinding", "")),
		AssertionConsumerServiceURL: root.SelectAttrValue("AssertionConsumerServiceURL", ""),
	}
	if policy := childElement(root, saml.NsProtocol, "NameIDPolicy"); policy != nil {
		req.NameIDPolicy = &NameIDPolicy{
			Format:          policy.SelectAttrValue("Format", ""),
			SPNameQualifier: policy.SelectAttrValue("SPNameQualifier", ""),
			AllowCreate:     policy.SelectAttrValue("AllowCreate", "") == "true",
		}
	}
	return req, nil
}

// ParseLogoutRequest parses a LogoutRequest from decoded XML bytes
func ParseLogoutRequest(data []byte) (Message, error) {
	root, err := parseRoot(data, "LogoutRequest")
	if err != nil {
		return nil, err
	}
	env, err := parseEnvelope(root)
	if err != nil {
		return nil, err
	}

	nameIDEl := childElement(root, saml.NsAssertion, "NameID")
	if nameIDEl == nil {
		return nil, fmt.Errorf("%w: LogoutRequest without NameID", ErrSchemaViolation)
	}

	req := &LogoutRequest{
		env:    env,
		NameID: parseNameID(nameIDEl),
		Reason: root.SelectAttrValue("Reason", ""),
	}
	if v := root.SelectAttrValue("NotOnOrAfter", ""); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad NotOnOrAfter: %v", ErrSchemaViolation, err)
		}
		t = t.UTC()
		req.NotOnOrAfter = &t
	}
	for _, si := range root.ChildElements() {
		if si.Tag == "SessionIndex" && si.NamespaceURI() == saml.NsProtocol {
			req.SessionIndexes = append(req.SessionIndexes, si.Text())
		}
	}
	return req, nil
}

// ParseAttributeQuery parses an AttributeQuery from decoded XML bytes
func ParseAttributeQuery(data []byte) (Message, error) {
	root, err := parseRoot(data, "AttributeQuery")
	if err != nil {
		return nil, err
	}
	env, err := parseEnvelope(root)
	if err != nil {
		return nil, err
	}

	query := &AttributeQuery{env: env}
	if subject := childElement(root, saml.NsAssertion, "Subject"); subject != nil {
		if nameID := childElement(subject, saml.NsAssertion, "NameID"); nameID != nil {
			query.Subject = parseNameID(nameID)
		}
	}
	for _, attr := range root.ChildElements() {
		if attr.Tag == "Attribute" && attr.NamespaceURI() == saml.NsAssertion {
			query.Attributes = append(query.Attributes, Attribute{
				Name:         attr.SelectAttrValue("Name", ""),
				NameFormat:   attr.SelectAttrValue("NameFormat", ""),
				FriendlyName: attr.SelectAttrValue("FriendlyName", ""),
			})
		}
	}
	if query.Subject == nil {
		return nil, fmt.Errorf("%w: AttributeQuery without Subject", ErrSchemaViolation)
	}
	return query, nil
}

func parseStatusResponse(data []byte, kind Kind) (Message, error) {
	root, err := parseRoot(data, string(kind))
	if err != nil {
		return nil, err
	}
	env, err := parseEnvelope(root)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(root)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		env:          env,
		kind:         kind,
		InResponseTo: root.SelectAttrValue("InResponseTo", ""),
		Status:       status,
	}, nil
}

// ParseResponse parses a Response from decoded XML bytes
func ParseResponse(data []byte) (Message, error) {
	return parseStatusResponse(data, KindResponse)
}

// ParseLogoutResponse parses a LogoutResponse from decoded XML bytes
func ParseLogoutResponse(data []byte) (Message, error) {
	return parseStatusResponse(data, KindLogoutResponse)
}
