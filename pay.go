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
	"time"
)

// TradeType names the three payer-side channels order creation can
// target.
type TradeType string

const (
	Native TradeType = "NATIVE"
	JSAPI  TradeType = "JSAPI"
	H5     TradeType = "H5"
)

// Payer identifies the end user paying a JSAPI transaction.
type Payer struct {
	OpenID string `json:"openid"`
}

// Amount is the total amount of a transaction.
type Amount struct {
	Total    int    `json:"total"`
	Currency string `json:"currency,omitempty"`
}

// GoodDetail is one line item in a transaction's promotion detail.
type GoodDetail struct {
	MerchantGoodsID  string `json:"merchant_goods_id"`
	WechatpayGoodsID string `json:"wechatpay_goods_id,omitempty"`
	GoodsName        string `json:"goods_name,omitempty"`
	Quantity         int    `json:"quantity"`
	UnitPrice        int    `json:"unit_price"`
}

// Detail is the promotion information attached to a transaction.
type Detail struct {
	CostPrice   int          `json:"cost_price,omitempty"`
	InvoiceID   string       `json:"invoice_id,omitempty"`
	GoodsDetail []GoodDetail `json:"goods_detail,omitempty"`
}

// StoreInfo names the physical store a transaction was placed at.
type StoreInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	AreaCode string `json:"area_code,omitempty"`
	Address  string `json:"address,omitempty"`
}

// SceneInfo is the payer environment a transaction was placed from.
type SceneInfo struct {
	PayerClientIP string     `json:"payer_client_ip"`
	DeviceID      string     `json:"device_id,omitempty"`
	StoreInfo     *StoreInfo `json:"store_info,omitempty"`
}

// TransactionRequest is the common shape of the three order-creation
// bodies (CreateNative/CreateJSAPI/CreateH5). AppID, MchID, and
// NotifyURL are filled from the Client's configuration when left empty.
type TransactionRequest struct {
	AppID       string     `json:"appid,omitempty"`
	MchID       string     `json:"mchid,omitempty"`
	Description string     `json:"description"`
	OutTradeNo  string     `json:"out_trade_no"`
	TimeExpire  time.Time  `json:"time_expire,omitempty"`
	Attach      string     `json:"attach,omitempty"`
	NotifyURL   string     `json:"notify_url,omitempty"`
	GoodsTag    string     `json:"goods_tag,omitempty"`
	Amount      Amount     `json:"amount"`
	Payer       *Payer     `json:"payer,omitempty"`
	Detail      *Detail    `json:"detail,omitempty"`
	SceneInfo   *SceneInfo `json:"scene_info,omitempty"`
}

// NativeResult is CreateNative's result: a QR-code-bearing URL.
type NativeResult struct {
	CodeURL string `json:"code_url"`
}

// JSAPIResult is CreateJSAPI's result: a short-lived token the
// payer-side JS bridge consumes.
type JSAPIResult struct {
	PrepayID string `json:"prepay_id"`
}

// H5Result is CreateH5's result: a URL the mobile browser redirects to.
type H5Result struct {
	H5URL string `json:"h5_url"`
}

// CreateNative creates a scannable-QR order.
func (c *Client) CreateNative(ctx context.Context, req *TransactionRequest) (*NativeResult, error) {
	cfg := c.store.Load()
	c.fillTransactionDefaults(cfg, req)

	resp := &NativeResult{}
	if err := c.doJSON(ctx, cfg, http.MethodPost, "/v3/pay/transactions/native", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateJSAPI creates an in-app/mini-program order. Payer.OpenID is
// required — JSAPI pay needs the payer's open id up front, unlike
// Native and H5.
func (c *Client) CreateJSAPI(ctx context.Context, req *TransactionRequest) (*JSAPIResult, error) {
	if req.Payer == nil || req.Payer.OpenID == "" {
		return nil, errors.New("wechatpay: payer.openid is required for JSAPI")
	}
	cfg := c.store.Load()
	c.fillTransactionDefaults(cfg, req)

	resp := &JSAPIResult{}
	if err := c.doJSON(ctx, cfg, http.MethodPost, "/v3/pay/transactions/jsapi", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateH5 creates a mobile-web order.
func (c *Client) CreateH5(ctx context.Context, req *TransactionRequest) (*H5Result, error) {
	cfg := c.store.Load()
	c.fillTransactionDefaults(cfg, req)

	resp := &H5Result{}
	if err := c.doJSON(ctx, cfg, http.MethodPost, "/v3/pay/transactions/h5", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) fillTransactionDefaults(cfg Config, req *TransactionRequest) {
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
