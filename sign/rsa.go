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
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
)

// ParsePEM decodes a single PEM block and returns whichever of a
// private key or a certificate it encodes. On multi-block input the
// first block wins; the rest is ignored.
//
// It recognizes PKCS#8 private keys ("PRIVATE KEY") and X.509
// certificates ("CERTIFICATE"); any other block type is a CryptoError.
func ParsePEM(buffer []byte) (*rsa.PrivateKey, *x509.Certificate, error) {
	block, _ := pem.Decode(buffer)
	if block == nil {
		return nil, nil, &CryptoError{Op: "parse_pem", Reason: "no PEM block found"}
	}

	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, nil, &CryptoError{Op: "parse_pem", Reason: "invalid certificate", Err: err}
		}
		return nil, cert, nil
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, nil, &CryptoError{Op: "parse_pem", Reason: "invalid private key", Err: err}
		}
		privateKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, nil, &CryptoError{Op: "parse_pem", Reason: "not an RSA private key"}
		}
		return privateKey, nil, nil
	default:
		return nil, nil, &CryptoError{Op: "parse_pem", Reason: "unsupported PEM block type " + block.Type}
	}
}

// ParsePrivateKey is a convenience wrapper over ParsePEM for buffers
// known to hold a private key.
func ParsePrivateKey(buffer []byte) (*rsa.PrivateKey, error) {
	key, cert, err := ParsePEM(buffer)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, &CryptoError{Op: "parse_private_key", Reason: "PEM block is a certificate, not a private key"}
	}
	_ = cert
	return key, nil
}

// ParseCertificate is a convenience wrapper over ParsePEM for buffers
// known to hold a certificate.
func ParseCertificate(buffer []byte) (*x509.Certificate, error) {
	key, cert, err := ParsePEM(buffer)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		_ = key
		return nil, &CryptoError{Op: "parse_certificate", Reason: "PEM block is a private key, not a certificate"}
	}
	return cert, nil
}

// PublicKeyOf extracts the RSA public key from a certificate.
func PublicKeyOf(cert *x509.Certificate) (*rsa.PublicKey, error) {
	publicKey, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, &CryptoError{Op: "public_key_of", Reason: "certificate does not carry an RSA public key"}
	}
	return publicKey, nil
}
