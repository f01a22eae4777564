package jwtcodec

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

	"github.com/cybergodev/jwtcodec/internal/base64url"
	"github.com/cybergodev/jwtcodec/internal/signing"
)

const testSecret = "s3cret"

// testNow is the pinned "current time" for every time-window test.
var testNow = time.Unix(1_700_000_000, 0).UTC()

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func newTestCodec(t testing.TB, cfg ...Config) *Codec {
	t.Helper()
	c := DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if c.Clock == nil {
		c.Clock = fixedClock(testNow)
	}
	codec, err := New(c)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return codec
}

type rsaKeys struct {
	key        *rsa.PrivateKey
	privatePEM string
	privateDER string
	publicPEM  string
	publicDER  string
	certPEM    string
}

var (
	rsaOnce  sync.Once
	rsaTest  *rsaKeys
	rsaError error
)

// testRSAKeys returns a shared 2048-bit key pair in the encodings the codec
// accepts.
func testRSAKeys(t testing.TB) *rsaKeys {
	t.Helper()
	rsaOnce.Do(func() {
		rsaTest, rsaError = generateRSAKeys()
	})
	if rsaError != nil {
		t.Fatalf("generate RSA keys: %v", rsaError)
	}
	return rsaTest
}

func generateRSAKeys() (*rsaKeys, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "jwtcodec"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	cert, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	return &rsaKeys{
		key:        key,
		privatePEM: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})),
		privateDER: string(x509.MarshalPKCS1PrivateKey(key)),
		publicPEM:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub})),
		publicDER:  string(pub),
		certPEM:    string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert})),
	}, nil
}

// rawToken signs arbitrary header and payload JSON, bypassing the encoder's
// own header construction.
func rawToken(t testing.TB, headerJSON, payloadJSON string, alg, key string) string {
	t.Helper()
	method, err := signing.Lookup(alg)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", alg, err)
	}
	input := base64url.Encode([]byte(headerJSON)) + "." + base64url.Encode([]byte(payloadJSON))
	sig, err := method.Sign([]byte(input), []byte(key))
	if err != nil {
		t.Fatalf("sign raw token: %v", err)
	}
	return input + "." + base64url.Encode(sig)
}
