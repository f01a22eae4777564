package signing

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errPrivateKeyFormat = fmt.Errorf("%w: key must be a private key in PEM or DER format", ErrInvalidKey)
	errPublicKeyFormat  = fmt.Errorf("%w: key must be a public key or X.509 certificate in PEM or DER format", ErrInvalidKey)

	errNotRSA = errors.New("not an RSA key")
)

type parseAttempt[K any] struct {
	name  string
	parse func([]byte) (K, error)
}

// privateKeyAttempts run in order; the first success wins.
var privateKeyAttempts = []parseAttempt[*rsa.PrivateKey]{
	{"pem", jwt.ParseRSAPrivateKeyFromPEM},
	{"der-pkcs1", x509.ParsePKCS1PrivateKey},
	{"der-pkcs8", parsePKCS8RSA},
}

// publicKeyAttempts try bare public keys before falling back to certificates.
var publicKeyAttempts = []parseAttempt[*rsa.PublicKey]{
	{"pem", jwt.ParseRSAPublicKeyFromPEM},
	{"der-pkix", parsePKIXRSA},
	{"der-pkcs1", x509.ParsePKCS1PublicKey},
	{"pem-certificate", parsePEMCertificateRSA},
	{"der-certificate", parseCertificateRSA},
}

// ParsePrivateKey extracts an RSA private key from PEM or DER (PKCS#1 or
// PKCS#8) key material.
func ParsePrivateKey(key []byte) (*rsa.PrivateKey, error) {
	if k, ok := firstParse(key, privateKeyAttempts); ok {
		return k, nil
	}
	return nil, errPrivateKeyFormat
}

// ParsePublicKey extracts an RSA public key from a PEM or DER public key, or
// from the subject key of a PEM or DER X.509 certificate.
func ParsePublicKey(key []byte) (*rsa.PublicKey, error) {
	if k, ok := firstParse(key, publicKeyAttempts); ok {
		return k, nil
	}
	return nil, errPublicKeyFormat
}

func firstParse[K any](key []byte, attempts []parseAttempt[K]) (K, bool) {
	for _, attempt := range attempts {
		if k, err := attempt.parse(key); err == nil {
			return k, true
		}
	}
	var zero K
	return zero, false
}

func parsePKCS8RSA(der []byte) (*rsa.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errNotRSA
	}
	return rsaKey, nil
}

func parsePKIXRSA(der []byte) (*rsa.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errNotRSA
	}
	return rsaKey, nil
}

func parsePEMCertificateRSA(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return parseCertificateRSA(block.Bytes)
}

func parseCertificateRSA(der []byte) (*rsa.PublicKey, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errNotRSA
	}
	return rsaKey, nil
}
