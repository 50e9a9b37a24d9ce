package security

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

var (
	// ErrNoSigner is returned when signing is requested but no signing
	// key material is configured.
	ErrNoSigner = errors.New("no signer configured")
	// ErrInvalidSignature is returned when signature verification fails
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signer produces enveloped XML signatures over protocol messages
type Signer struct {
	ctx  *dsig.SigningContext
	cert *x509.Certificate
}

// NewSigner creates a Signer from a private key and its certificate
func NewSigner(key crypto.Signer, cert *x509.Certificate) (*Signer, error) {
	if key == nil || cert == nil {
		return nil, ErrNoSigner
	}

	ctx := &dsig.SigningContext{
		IdAttribute: dsig.DefaultIdAttr,
		Prefix:      dsig.DefaultPrefix,
		KeyStore: dsig.TLSCertKeyStore(tls.Certificate{
			Certificate: [][]byte{cert.Raw},
			PrivateKey:  key,
		}),
		Canonicalizer: dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(""),
	}
	if err := ctx.SetSignatureMethod(dsig.RSASHA256SignatureMethod); err != nil {
		return nil, fmt.Errorf("setting signature method: %w", err)
	}

	return &Signer{ctx: ctx, cert: cert}, nil
}

// Certificate returns the signing certificate
func (s *Signer) Certificate() *x509.Certificate {
	return s.cert
}

// Sign computes an enveloped signature over the element, bound to its
// ID attribute, and returns the signed element. The ds:Signature child
// is left where SignEnveloped puts it, as the last child: moving it
// would require re-linking the token's parent and index, and validation
// does not care about its position. The input element is not modified.
func (s *Signer) Sign(el *etree.Element) (*etree.Element, error) {
	signed, err := s.ctx.SignEnveloped(el)
	if err != nil {
		return nil, fmt.Errorf("signing %s: %w", el.Tag, err)
	}
	if signed.FindElement("./"+dsig.DefaultPrefix+":Signature") == nil {
		return nil, fmt.Errorf("signed document has no signature element")
	}
	return signed, nil
}
