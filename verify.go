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
	"net/http"
	"strconv"

	"github.com/lnq-mch/wechatpay-go/certstore"
	"github.com/lnq-mch/wechatpay-go/sign"
)

// verifyMessage reads the four WeChat Pay signature headers, looks the
// serial up in certs, and checks the signature against the raw body. A
// missing header or an unknown serial is an ordinary false, not an
// error — the caller may retry after a certificate refresh.
func verifyMessage(certs certstore.Store, headers http.Header, body []byte) bool {
	serial := headers.Get("Wechatpay-Serial")
	timestamp := headers.Get("Wechatpay-Timestamp")
	nonce := headers.Get("Wechatpay-Nonce")
	signature := headers.Get("Wechatpay-Signature")
	if serial == "" || timestamp == "" || nonce == "" || signature == "" {
		return false
	}

	publicKey, ok := certs.Lookup(serial)
	if !ok {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	respSign := &sign.ResponseSignature{
		Body:      body,
		Timestamp: ts,
		Nonce:     nonce,
	}
	return sign.VerifySignature(publicKey, respSign, signature)
}

// Verify checks an inbound response or webhook signature directly, for
// callers authenticating a notification they've received outside the
// normal response pipeline (e.g. one whose envelope they've already
// decoded some other way).
func (c *Client) Verify(headers http.Header, body []byte) bool {
	cfg := c.store.Load()
	return verifyMessage(cfg.PlatformCerts, headers, body)
}
