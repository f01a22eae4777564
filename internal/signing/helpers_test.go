package signing

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"sync"
	"testing"
	"time"
)

type rsaFixture struct {
	key *rsa.PrivateKey

	privatePKCS1PEM []byte
	privatePKCS8PEM []byte
	privatePKCS1DER []byte
	privatePKCS8DER []byte

	publicPKIXPEM  []byte
	publicPKCS1PEM []byte
	publicPKIXDER  []byte
	publicPKCS1DER []byte

	certPEM []byte
	certDER []byte
}

var (
	fixtureOnce sync.Once
	fixture     *rsaFixture
	fixtureErr  error
)

// testRSA returns one 2048-bit key in every encoding the key parser accepts.
// Key generation is slow, so the fixture is shared across tests.
func testRSA(t testing.TB) *rsaFixture {
	t.Helper()
	fixtureOnce.Do(func() {
		fixture, fixtureErr = newRSAFixture()
	})
	if fixtureErr != nil {
		t.Fatalf("generate RSA fixture: %v", fixtureErr)
	}
	return fixture
}

func newRSAFixture() (*rsaFixture, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	certDER, err := selfSignedCert(key)
	if err != nil {
		return nil, err
	}

	pkcs1 := x509.MarshalPKCS1PrivateKey(key)
	pkcs1Pub := x509.MarshalPKCS1PublicKey(&key.PublicKey)

	return &rsaFixture{
		key:             key,
		privatePKCS1PEM: pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: pkcs1}),
		privatePKCS8PEM: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}),
		privatePKCS1DER: pkcs1,
		privatePKCS8DER: pkcs8,
		publicPKIXPEM:   pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix}),
		publicPKCS1PEM:  pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: pkcs1Pub}),
		publicPKIXDER:   pkix,
		publicPKCS1DER:  pkcs1Pub,
		certPEM:         pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER}),
		certDER:         certDER,
	}, nil
}

func selfSignedCert(key *rsa.PrivateKey) ([]byte, error) {
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "jwtcodec test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	return x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
}
