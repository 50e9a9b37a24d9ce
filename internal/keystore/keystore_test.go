package keystore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePEM(t *testing.T, name, blockType string, der []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func selfSigned(t *testing.T, key any, pub any) []byte {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, pub, key)
	require.NoError(t, err)
	return der
}

func TestLoadKeyPair_PKCS1(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyPath := writePEM(t, "rsa.key", "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key))
	certPath := writePEM(t, "rsa.crt", "CERTIFICATE", selfSigned(t, key, &key.PublicKey))

	signer, cert, err := LoadKeyPair(keyPath, certPath)
	require.NoError(t, err)
	assert.NotNil(t, signer)
	assert.Equal(t, "test", cert.Subject.CommonName)
}

func TestLoadKeyPair_EC(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	keyPath := writePEM(t, "ec.key", "EC PRIVATE KEY", keyDER)
	certPath := writePEM(t, "ec.crt", "CERTIFICATE", selfSigned(t, key, &key.PublicKey))

	signer, _, err := LoadKeyPair(keyPath, certPath)
	require.NoError(t, err)
	assert.NotNil(t, signer)
}

func TestParsePrivateKey_Rejects(t *testing.T) {
	_, err := ParsePrivateKey([]byte("no pem here"))
	assert.Error(t, err)

	_, err = ParsePrivateKey(pem.EncodeToMemory(&pem.Block{
		Type: "CERTIFICATE REQUEST", Bytes: []byte{1, 2, 3},
	}))
	assert.Error(t, err)
}

func TestLoadCertificates(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	certPath := writePEM(t, "a.crt", "CERTIFICATE", selfSigned(t, key, &key.PublicKey))

	certs, err := LoadCertificates([]string{certPath, certPath})
	require.NoError(t, err)
	assert.Len(t, certs, 2)

	_, err = LoadCertificates([]string{"/does/not/exist.crt"})
	assert.Error(t, err)
}
