// Copyright The Wechat Pay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sign

import (
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

func mustGenerateKeyAndCert(t *testing.T) (privatePEM, certPEM []byte) {
	t.Helper()

	privateKey := mustGenerateKey(t)
	pkcs8, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		t.Fatalf("marshal private key: %v", err)
	}
	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "sign-test"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).AddDate(10, 0, 0),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	return privatePEM, certPEM
}

func TestParsePrivateKeyAndCertificate(t *testing.T) {
	privatePEM, certPEM := mustGenerateKeyAndCert(t)

	privateKey, err := ParsePrivateKey(privatePEM)
	if err != nil {
		t.Fatalf("parse private key: %v", err)
	}
	if privateKey == nil {
		t.Fatal("expected a non-nil private key")
	}

	cert, err := ParseCertificate(certPEM)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	publicKey, err := PublicKeyOf(cert)
	if err != nil {
		t.Fatalf("public key of: %v", err)
	}
	if publicKey.N.Cmp(privateKey.PublicKey.N) != 0 {
		t.Fatal("expected the certificate's public key to match the private key")
	}
}

func TestParsePrivateKeyRejectsCertificate(t *testing.T) {
	_, certPEM := mustGenerateKeyAndCert(t)
	if _, err := ParsePrivateKey(certPEM); err == nil {
		t.Fatal("expected an error parsing a certificate as a private key")
	}
}

func TestParseCertificateRejectsPrivateKey(t *testing.T) {
	privatePEM, _ := mustGenerateKeyAndCert(t)
	if _, err := ParseCertificate(privatePEM); err == nil {
		t.Fatal("expected an error parsing a private key as a certificate")
	}
}

func TestParsePEMRejectsGarbage(t *testing.T) {
	if _, _, err := ParsePEM([]byte("not a pem block")); err == nil {
		t.Fatal("expected an error for non-PEM input")
	}
}
