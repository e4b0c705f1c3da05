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

import "github.com/lnq-mch/wechatpay-go/sign"

// Validate enforces the rules a Config must satisfy before it can be
// installed into the Store: every identity field present, and the
// merchant private key usable for signing. platform_certs and
// apiv3_key are allowed to be empty — the former is populated lazily
// by the refresher, the latter is only required the first time AEAD
// is actually invoked (see requireApiv3Key).
func Validate(c Config) error {
	switch {
	case c.AppID == "":
		return &ConfigInvalidError{Reason: "app_id is required"}
	case c.MchID == "":
		return &ConfigInvalidError{Reason: "mch_id is required"}
	case c.NotifyURL == "":
		return &ConfigInvalidError{Reason: "notify_url is required"}
	case c.MerchantSerial == "":
		return &ConfigInvalidError{Reason: "merchant_serial is required"}
	case c.MerchantPrivateKey == nil:
		return &ConfigInvalidError{Reason: "merchant_private_key is required"}
	case c.MerchantCertificate == nil:
		return &ConfigInvalidError{Reason: "merchant_certificate is required"}
	}

	if _, err := sign.Sign(c.MerchantPrivateKey, []byte("wechatpay-config-probe")); err != nil {
		return &ConfigInvalidError{Reason: "merchant_private_key cannot sign: " + err.Error()}
	}

	return nil
}

// requireApiv3Key asserts the 32-byte length invariant on apiv3_key at
// the point of first use: the key is allowed to be absent until an
// AEAD operation actually needs it.
func (c Config) requireApiv3Key() ([]byte, error) {
	if len(c.Apiv3Key) != sign.AEADKeySize {
		return nil, &ConfigInvalidError{Reason: "apiv3_key must be exactly 32 bytes"}
	}
	return []byte(c.Apiv3Key), nil
}
