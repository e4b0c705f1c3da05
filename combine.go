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

// Combine-transaction support: one QR/prepay id shared across several
// sub-merchants under one combine_out_trade_no, for orders that split a
// single payer checkout across multiple receiving merchants. It reuses
// the same pipeline and body pre-fill rule as the plain transaction
// endpoints; there's no signature-layer subtlety here, so it stays thin.
package wechatpay

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SubOrder is one sub-merchant's order inside a combined payment.
type SubOrder struct {
	MchID       string `json:"mchid"`
	Attach      string `json:"attach,omitempty"`
	Amount      Amount `json:"amount"`
	OutTradeNo  string `json:"out_trade_no"`
	Description string `json:"description"`
}

// CombineTransactionRequest is the request body shared by combined
// Native/JSAPI/H5 payment.
type CombineTransactionRequest struct {
	AppID      string     `json:"combine_appid,omitempty"`
	MchID      string     `json:"combine_mchid,omitempty"`
	OutTradeNo string     `json:"combine_out_trade_no"`
	TimeStart  time.Time  `json:"time_start,omitempty"`
	TimeExpire time.Time  `json:"time_expire,omitempty"`
	NotifyURL  string     `json:"notify_url,omitempty"`
	SceneInfo  *SceneInfo `json:"scene_info,omitempty"`
	Payer      *Payer     `json:"combine_payer_info,omitempty"`
	Orders     []SubOrder `json:"sub_orders,omitempty"`
}

// CombineTransactionResult is the combined-payment result; exactly one
// field is populated depending on the trade type requested.
type CombineTransactionResult struct {
	CodeURL  string `json:"code_url"`
	PrepayID string `json:"prepay_id"`
	H5URL    string `json:"h5_url"`
}

func (c *Client) fillCombineDefaults(cfg Config, req *CombineTransactionRequest) {
	if req.AppID == "" {
		req.AppID = cfg.AppID
	}
	if req.MchID == "" {
		req.MchID = cfg.MchID
	}
	if req.NotifyURL == "" {
		req.NotifyURL = cfg.NotifyURL
	}
}

// CombinePay creates a combined-payment order for tradeType.
func (c *Client) CombinePay(ctx context.Context, tradeType TradeType, req *CombineTransactionRequest) (*CombineTransactionResult, error) {
	if len(req.Orders) == 0 {
		return nil, errors.New("wechatpay: orders is required")
	}
	if tradeType == JSAPI && (req.Payer == nil || req.Payer.OpenID == "") {
		return nil, errors.New("wechatpay: combine_payer_info is required for JSAPI")
	}
	cfg := c.store.Load()
	c.fillCombineDefaults(cfg, req)

	path := "/v3/combine-transactions/" + strings.ToLower(string(tradeType))
	resp := &CombineTransactionResult{}
	if err := c.doJSON(ctx, cfg, http.MethodPost, path, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CombineQuery queries a combined-payment order by its
// combine_out_trade_no.
func (c *Client) CombineQuery(ctx context.Context, combineOutTradeNo string) (*CombineTransactionQueryResult, error) {
	cfg := c.store.Load()
	path := "/v3/combine-transactions/out-trade-no/" + url.PathEscape(combineOutTradeNo)

	resp := &CombineTransactionQueryResult{}
	if err := c.doJSON(ctx, cfg, http.MethodGet, path, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CombineTransactionQueryResult is CombineQuery's result.
type CombineTransactionQueryResult struct {
	CombineAppID      string                  `json:"combine_appid"`
	CombineMchID      string                  `json:"combine_mchid"`
	CombineOutTradeNo string                  `json:"combine_out_trade_no"`
	SceneInfo         *TransactionSceneInfo   `json:"scene_info,omitempty"`
	SubOrders         []CombineSubOrderResult `json:"sub_orders,omitempty"`
	CombinePayerInfo  *Payer                  `json:"combine_payer_info,omitempty"`
}

// CombineSubOrderResult is one sub-merchant order's status within a
// combined-payment query result.
type CombineSubOrderResult struct {
	MchID         string    `json:"mchid"`
	TradeType     TradeType `json:"trade_type,omitempty"`
	TradeState    string    `json:"trade_state"`
	BankType      string    `json:"bank_type,omitempty"`
	Attach        string    `json:"attach,omitempty"`
	SuccessTime   time.Time `json:"success_time,omitempty"`
	OutTradeNo    string    `json:"out_trade_no"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Amount        Amount    `json:"amount,omitempty"`
}

// CloseSubOrder names one sub-merchant order to close within a
// combined payment.
type CloseSubOrder struct {
	MchID      string `json:"mchid"`
	OutTradeNo string `json:"out_trade_no"`
}

// CombineClose closes every sub-order of a combined payment.
func (c *Client) CombineClose(ctx context.Context, combineOutTradeNo string, orders []CloseSubOrder) error {
	if len(orders) == 0 {
		return errors.New("wechatpay: orders is required")
	}

	cfg := c.store.Load()
	body := struct {
		AppID      string          `json:"combine_appid"`
		OutTradeNo string          `json:"combine_out_trade_no"`
		Orders     []CloseSubOrder `json:"sub_orders"`
	}{
		AppID:      cfg.AppID,
		OutTradeNo: combineOutTradeNo,
		Orders:     orders,
	}

	path := "/v3/combine-transactions/out-trade-no/" + url.PathEscape(combineOutTradeNo) + "/close"
	return c.doJSON(ctx, cfg, http.MethodPost, path, &body, nil)
}
