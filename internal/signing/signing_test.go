package signing

import (
	"bytes"
	"crypto"
	"crypto/hmac"
	"errors"
	"slices"
	"testing"
)

const signingInput = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ0ZXN0In0"

func TestLookup(t *testing.T) {
	tests := []struct {
		alg        string
		wantErr    bool
		wantHash   crypto.Hash
		wantFamily Family
	}{
		{"HS256", false, crypto.SHA256, FamilyHMAC},
		{"HS384", false, crypto.SHA384, FamilyHMAC},
		{"HS512", false, crypto.SHA512, FamilyHMAC},
		{"RS256", false, crypto.SHA256, FamilyRSA},
		{"RS384", false, crypto.SHA384, FamilyRSA},
		{"RS512", false, crypto.SHA512, FamilyRSA},
		{"hs256", true, 0, ""},
		{"none", true, 0, ""},
		{"ES256", true, 0, ""},
		{"XX999", true, 0, ""},
		{"", true, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.alg, func(t *testing.T) {
			method, err := Lookup(tt.alg)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedAlgorithm) {
					t.Fatalf("Lookup(%q) error = %v, want ErrUnsupportedAlgorithm", tt.alg, err)
				}
				if method != nil {
					t.Error("Expected nil method for error case")
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.alg, err)
			}
			if method.Alg() != tt.alg {
				t.Errorf("Alg() = %q, want %q", method.Alg(), tt.alg)
			}
			if method.Hash() != tt.wantHash {
				t.Errorf("Hash() = %v, want %v", method.Hash(), tt.wantHash)
			}
			if method.Family() != tt.wantFamily {
				t.Errorf("Family() = %v, want %v", method.Family(), tt.wantFamily)
			}
		})
	}
}

func TestAlgorithms(t *testing.T) {
	want := []string{"HS256", "HS384", "HS512", "RS256", "RS384", "RS512"}
	if got := Algorithms(); !slices.Equal(got, want) {
		t.Errorf("Algorithms() = %v, want %v", got, want)
	}
}

func TestHMACSignAndVerify(t *testing.T) {
	key := []byte("s3cret")
	data := []byte(signingInput)

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			method, err := Lookup(alg)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}

			sig, err := method.Sign(data, key)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}

			mac := hmac.New(method.Hash().New, key)
			mac.Write(data)
			if !bytes.Equal(sig, mac.Sum(nil)) {
				t.Error("signature does not match a direct HMAC computation")
			}
			if len(sig) != method.Hash().Size() {
				t.Errorf("signature length = %d, want %d", len(sig), method.Hash().Size())
			}

			ok, err := method.Verify(data, sig, key)
			if err != nil || !ok {
				t.Errorf("Verify(valid) = %v, %v; want true, nil", ok, err)
			}

			ok, err = method.Verify(data, sig, []byte("wrong"))
			if err != nil || ok {
				t.Errorf("Verify(wrong key) = %v, %v; want false, nil", ok, err)
			}

			ok, _ = method.Verify(data, sig[:len(sig)-1], key)
			if ok {
				t.Error("Verify accepted a truncated signature")
			}

			tampered := bytes.Clone(sig)
			tampered[0] ^= 0x01
			ok, _ = method.Verify(data, tampered, key)
			if ok {
				t.Error("Verify accepted a tampered signature")
			}

			ok, _ = method.Verify([]byte(signingInput+"x"), sig, key)
			if ok {
				t.Error("Verify accepted a signature over different data")
			}

			if string(key) != "s3cret" {
				t.Error("Sign/Verify must not modify the caller's key")
			}
		})
	}
}

func TestHMACEmptyKey(t *testing.T) {
	method, _ := Lookup("HS256")

	if _, err := method.Sign([]byte("data"), nil); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Sign(empty key) error = %v, want ErrInvalidKey", err)
	}
	if _, err := method.Verify([]byte("data"), []byte("sig"), []byte{}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Verify(empty key) error = %v, want ErrInvalidKey", err)
	}
}

func TestRSASignAndVerify(t *testing.T) {
	fx := testRSA(t)
	data := []byte(signingInput)

	for _, alg := range []string{"RS256", "RS384", "RS512"} {
		t.Run(alg, func(t *testing.T) {
			method, err := Lookup(alg)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}

			sig, err := method.Sign(data, fx.privatePKCS1PEM)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			if len(sig) != fx.key.Size() {
				t.Errorf("signature length = %d, want %d", len(sig), fx.key.Size())
			}

			ok, err := method.Verify(data, sig, fx.publicPKIXPEM)
			if err != nil || !ok {
				t.Fatalf("Verify(valid) = %v, %v; want true, nil", ok, err)
			}

			tampered := bytes.Clone(sig)
			tampered[len(tampered)-1] ^= 0x80
			ok, err = method.Verify(data, tampered, fx.publicPKIXPEM)
			if err != nil || ok {
				t.Errorf("Verify(tampered) = %v, %v; want false, nil", ok, err)
			}

			ok, err = method.Verify(data, []byte("short"), fx.publicPKIXPEM)
			if err != nil || ok {
				t.Errorf("Verify(short sig) = %v, %v; want false, nil", ok, err)
			}
		})
	}
}

func TestRSAHashMismatch(t *testing.T) {
	fx := testRSA(t)
	data := []byte(signingInput)

	rs256, _ := Lookup("RS256")
	rs512, _ := Lookup("RS512")

	sig, err := rs256.Sign(data, fx.privatePKCS8PEM)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if ok, _ := rs512.Verify(data, sig, fx.publicPKIXPEM); ok {
		t.Error("RS512 must not accept an RS256 signature")
	}
}

func TestRSAKeyErrors(t *testing.T) {
	fx := testRSA(t)
	method, _ := Lookup("RS256")

	_, err := method.Sign([]byte("data"), []byte("s3cret"))
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Sign(secret) error = %v, want ErrInvalidKey", err)
	}
	if err.Error() != "invalid key: key must be a private key in PEM or DER format" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	_, err = method.Sign([]byte("data"), fx.publicPKIXPEM)
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Sign(public key) error = %v, want ErrInvalidKey", err)
	}

	_, err = method.Verify([]byte("data"), []byte("sig"), []byte("s3cret"))
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Verify(secret) error = %v, want ErrInvalidKey", err)
	}
	if err.Error() != "invalid key: key must be a public key or X.509 certificate in PEM or DER format" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
