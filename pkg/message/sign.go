package message

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

// ElementSigner produces an enveloped signature over a protocol
// element. Implemented by security.Signer.
type ElementSigner interface {
	Sign(el *etree.Element) (*etree.Element, error)
}

// Sign signs the message in place. The signed element becomes the
// canonical serialization of the message, so the signature survives
// Marshal byte for byte, and the envelope records the signature child.
//
// extraRefs name identified descendant elements that receive their own
// enveloped signatures first; the message signature then covers them,
// signed content and all.
func Sign(m Message, s ElementSigner, extraRefs ...string) error {
	el := m.Element()

	for _, ref := range extraRefs {
		target := elementByID(el, ref)
		if target == nil {
			return fmt.Errorf("no element with ID %q to sign", ref)
		}
		if target == el {
			return fmt.Errorf("extra reference %q is the message itself", ref)
		}
		signedTarget, err := s.Sign(target)
		if err != nil {
			return err
		}
		parent := target.Parent()
		idx := target.Index()
		parent.RemoveChild(target)
		parent.InsertChildAt(idx, signedTarget)
	}

	signed, err := s.Sign(el)
	if err != nil {
		return err
	}

	env := m.Envelope()
	env.root = signed
	env.Signature = childElement(signed, saml.NsXMLDSig, "Signature")
	return nil
}

// elementByID finds the element carrying the given ID attribute,
// depth-first.
func elementByID(el *etree.Element, id string) *etree.Element {
	if el.SelectAttrValue("ID", "") == id {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := elementByID(child, id); found != nil {
			return found
		}
	}
	return nil
}
