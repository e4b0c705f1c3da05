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
	"context"
	"net/http"
	"net/url"
)

// closeRequestBody is exactly {"mchid":"…"} — close-transaction takes
// no other field.
type closeRequestBody struct {
	MchID string `json:"mchid"`
}

// CloseTransaction closes an unpaid order. Success is any 2xx
// response, typically 204 with an empty body; there is no result to
// return.
func (c *Client) CloseTransaction(ctx context.Context, outTradeNo string) error {
	cfg := c.store.Load()
	body := &closeRequestBody{MchID: cfg.MchID}

	path := "/v3/pay/transactions/out-trade-no/" + url.PathEscape(outTradeNo) + "/close"
	return c.doJSON(ctx, cfg, http.MethodPost, path, body, nil)
}
