package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// rsaSigningMethod implements RSASSA-PKCS1-v1_5 over a SHA-2 digest.
type rsaSigningMethod struct {
	name     string
	hashFunc crypto.Hash
}

var (
	rsaRS256 = &rsaSigningMethod{"RS256", crypto.SHA256}
	rsaRS384 = &rsaSigningMethod{"RS384", crypto.SHA384}
	rsaRS512 = &rsaSigningMethod{"RS512", crypto.SHA512}
)

func (r *rsaSigningMethod) Alg() string {
	return r.name
}

func (r *rsaSigningMethod) Hash() crypto.Hash {
	return r.hashFunc
}

func (r *rsaSigningMethod) Family() Family {
	return FamilyRSA
}

func (r *rsaSigningMethod) Sign(data, key []byte) ([]byte, error) {
	privateKey, err := ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}

	sig, err := rsa.SignPKCS1v15(rand.Reader, privateKey, r.hashFunc, r.digest(data))
	if err != nil {
		return nil, fmt.Errorf("%s sign: %w", r.name, err)
	}
	return sig, nil
}

func (r *rsaSigningMethod) Verify(data, sig, key []byte) (bool, error) {
	publicKey, err := ParsePublicKey(key)
	if err != nil {
		return false, err
	}

	if err := rsa.VerifyPKCS1v15(publicKey, r.hashFunc, r.digest(data), sig); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *rsaSigningMethod) digest(data []byte) []byte {
	h := r.hashFunc.New()
	h.Write(data)
	return h.Sum(nil)
}
