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

package wechatpay

import (
	"encoding/base64"

	"github.com/lnq-mch/wechatpay-go/sign"
)

// EncryptedResource is the AEAD-sealed payload WeChat Pay embeds in
// responses and webhook notifications.
type EncryptedResource struct {
	Algorithm      string `json:"algorithm"`
	Ciphertext     string `json:"ciphertext"`
	Nonce          string `json:"nonce"`
	AssociatedData string `json:"associated_data"`
}

// decryptResource requires AEAD_AES_256_GCM, base64-decodes the
// ciphertext (which already carries the trailing 16-byte tag), and
// opens it with apiv3Key.
func decryptResource(apiv3Key []byte, res EncryptedResource) ([]byte, error) {
	if res.Algorithm != "AEAD_AES_256_GCM" {
		return nil, &DecryptFailError{Reason: "unsupported algorithm " + res.Algorithm}
	}

	ciphertext, err := base64.StdEncoding.DecodeString(res.Ciphertext)
	if err != nil {
		return nil, &DecryptFailError{Reason: "invalid base64 ciphertext", Err: err}
	}

	plaintext, err := sign.OpenAEAD(apiv3Key, []byte(res.Nonce), []byte(res.AssociatedData), ciphertext)
	if err != nil {
		return nil, &DecryptFailError{Reason: "AEAD open failed", Err: err}
	}
	return plaintext, nil
}

// Decrypt opens an AEAD-encrypted resource using the Client's current
// apiv3_key, for callers handling an encrypted resource they received
// outside the normal response or notification pipeline.
func (c *Client) Decrypt(res EncryptedResource) ([]byte, error) {
	cfg := c.store.Load()
	apiv3Key, err := cfg.requireApiv3Key()
	if err != nil {
		return nil, err
	}
	return decryptResource(apiv3Key, res)
}
