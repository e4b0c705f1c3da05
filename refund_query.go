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
	"errors"
	"net/http"
	"net/url"
)

// QueryRefund looks up a refund by the merchant's own refund number.
func (c *Client) QueryRefund(ctx context.Context, outRefundNo string) (*RefundResult, error) {
	if outRefundNo == "" {
		return nil, errors.New("wechatpay: out_refund_no is required")
	}

	cfg := c.store.Load()
	path := "/v3/refund/domestic/refunds/" + url.PathEscape(outRefundNo)

	resp := &RefundResult{}
	if err := c.doJSON(ctx, cfg, http.MethodGet, path, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
