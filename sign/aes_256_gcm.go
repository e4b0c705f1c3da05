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
	"crypto/aes"
	"crypto/cipher"
)

// AEADKeySize is the required key length for OpenAEAD/SealAEAD: AES-256.
const AEADKeySize = 32

// AEADTagSize is the GCM authentication tag length WeChat Pay uses.
const AEADTagSize = 16

// OpenAEAD opens an AES-256-GCM sealed message. ciphertext must be the
// ciphertext with its 16-byte authentication tag appended (this is
// also the layout cipher.AEAD.Open expects, so no manual split is
// needed). Returns a CryptoError on a bad key length, an invalid
// nonce, or an authentication failure.
func OpenAEAD(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, &CryptoError{Op: "open_aead", Reason: "invalid nonce length"}
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, &CryptoError{Op: "open_aead", Reason: "authentication failed", Err: err}
	}
	return plaintext, nil
}

// SealAEAD seals plaintext with AES-256-GCM, returning ciphertext with
// its 16-byte tag appended.
func SealAEAD(key, nonce, aad, plaintext []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, aad), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AEADKeySize {
		return nil, &CryptoError{Op: "aead_key", Reason: "key must be exactly 32 bytes"}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &CryptoError{Op: "aead_key", Reason: "invalid AES key", Err: err}
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &CryptoError{Op: "aead_key", Reason: "GCM construction failed", Err: err}
	}

	return aesgcm, nil
}
