package security

import (
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// ErrNoCertificate is returned when verification is attempted without
// any trusted peer certificate.
var ErrNoCertificate = errors.New("no peer certificate configured")

// Verifier checks enveloped signatures against a peer's known
// certificates.
type Verifier struct {
	certs []*x509.Certificate
}

// NewVerifier creates a Verifier trusting the given peer certificates
func NewVerifier(certs ...*x509.Certificate) (*Verifier, error) {
	if len(certs) == 0 {
		return nil, ErrNoCertificate
	}
	return &Verifier{certs: certs}, nil
}

// Verify validates the enveloped signature on el against the trusted
// certificates. The element must be the one parsed from the received
// bytes; a re-serialized copy may canonicalize differently.
func (v *Verifier) Verify(el *etree.Element) error {
	ctx := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{
		Roots: v.certs,
	})
	ctx.IdAttribute = dsig.DefaultIdAttr

	// A signature carrying a bare key value (no certificate) either
	// duplicates a key we already trust from metadata or references one
	// we cannot verify at all. Dropping the KeyInfo makes validation
	// fall back to the trusted certificate store.
	el = el.Copy()
	if el.FindElement("./Signature/KeyInfo/X509Data/X509Certificate") == nil {
		if sigEl := el.FindElement("./Signature"); sigEl != nil {
			if keyInfo := sigEl.FindElement("KeyInfo"); keyInfo != nil {
				sigEl.RemoveChild(keyInfo)
			}
		}
	}

	if _, err := ctx.Validate(el); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
