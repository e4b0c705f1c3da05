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
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
)

// Sign computes the RSA-PKCS#1v15/SHA-256 signature of message. The
// returned bytes are the raw signature; callers base64-encode it
// themselves (see GenerateSignature).
func Sign(privateKey *rsa.PrivateKey, message []byte) ([]byte, error) {
	hashed := sha256.Sum256(message)
	signature, err := rsa.SignPKCS1v15(rand.Reader, privateKey, crypto.SHA256, hashed[:])
	if err != nil {
		return nil, &CryptoError{Op: "sign", Reason: "rsa signing failed", Err: err}
	}
	return signature, nil
}

// Verify reports whether signature is a valid RSA-PKCS#1v15/SHA-256
// signature of message under publicKey. It never returns an error for
// a mismatch, only false.
func Verify(publicKey *rsa.PublicKey, message, signature []byte) bool {
	hashed := sha256.Sum256(message)
	return rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, hashed[:], signature) == nil
}
