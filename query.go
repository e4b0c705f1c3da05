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
	"time"
)

// Trade states reported by QueryByOutTradeNo/QueryByTransactionID.
const (
	TradeStateSuccess    = "SUCCESS"
	TradeStateRefund     = "REFUND"
	TradeStateNotPay     = "NOTPAY"
	TradeStateClosed     = "CLOSED"
	TradeStateRevoked    = "REVOKED"
	TradeStateUserPaying = "USERPAYING"
	TradeStatePayError   = "PAYERROR"
	TradeStateAccept     = "ACCEPT"
)

// TransactionResult is the shared result shape for both order-query
// operations.
type TransactionResult struct {
	AppID          string    `json:"appid"`
	MchID          string    `json:"mchid"`
	OutTradeNo     string    `json:"out_trade_no"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	TradeType      TradeType `json:"trade_type,omitempty"`
	TradeState     string    `json:"trade_state"`
	TradeStateDesc string    `json:"trade_state_desc"`
	BankType       string    `json:"bank_type,omitempty"`
	Attach         string    `json:"attach,omitempty"`
	SuccessTime    time.Time `json:"success_time,omitempty"`
	Payer          Payer     `json:"payer"`

	Amount    TransactionAmount     `json:"amount,omitempty"`
	SceneInfo *TransactionSceneInfo `json:"scene_info,omitempty"`
	Promotion []*PromotionDetail    `json:"promotion_detail,omitempty"`
}

// IsSuccess reports whether the queried transaction finished paid.
func (r TransactionResult) IsSuccess() bool {
	return r.TradeState == TradeStateSuccess
}

// TransactionAmount is the total/payer amount of a queried transaction.
type TransactionAmount struct {
	Total         int    `json:"total,omitempty"`
	PayerTotal    int    `json:"payer_total,omitempty"`
	Currency      string `json:"currency,omitempty"`
	PayerCurrency string `json:"payer_currency,omitempty"`
}

// TransactionSceneInfo is the payer environment of a queried transaction.
type TransactionSceneInfo struct {
	DeviceID string `json:"device_id,omitempty"`
}

// PromotionDetail is one coupon/promotion applied to a transaction.
type PromotionDetail struct {
	CouponID            string `json:"coupon_id"`
	Name                string `json:"name,omitempty"`
	Scope               string `json:"scope,omitempty"`
	Type                string `json:"type,omitempty"`
	Amount              int    `json:"amount"`
	StockID             string `json:"stock_id,omitempty"`
	WechatpayContribute int    `json:"wechatpay_contribute,omitempty"`
	MerchantContribute  int    `json:"merchant_contribute,omitempty"`
	OtherContribute     int    `json:"other_contribute,omitempty"`
	Currency            string `json:"currency,omitempty"`

	GoodsDetail []TransactionGoodDetail `json:"goods_detail,omitempty"`
}

// TransactionGoodDetail is one line item a promotion applied to.
type TransactionGoodDetail struct {
	GoodsID        string `json:"goods_id"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int    `json:"unit_price"`
	DiscountAmount int    `json:"discount_amount"`
	GoodsRemark    string `json:"goods_remark,omitempty"`
}

// QueryByOutTradeNo queries a transaction by the merchant's own order
// number. mchid travels as a URL query parameter, which the Signer
// folds into the signed canonical URL.
func (c *Client) QueryByOutTradeNo(ctx context.Context, outTradeNo string) (*TransactionResult, error) {
	cfg := c.store.Load()
	path := "/v3/pay/transactions/out-trade-no/" + url.PathEscape(outTradeNo) + "?" + buildQuery([2]string{"mchid", cfg.MchID})

	resp := &TransactionResult{}
	if err := c.doJSON(ctx, cfg, http.MethodGet, path, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// QueryByTransactionID queries a transaction by WeChat's own
// transaction id.
func (c *Client) QueryByTransactionID(ctx context.Context, transactionID string) (*TransactionResult, error) {
	cfg := c.store.Load()
	path := "/v3/pay/transactions/id/" + url.PathEscape(transactionID) + "?" + buildQuery([2]string{"mchid", cfg.MchID})

	resp := &TransactionResult{}
	if err := c.doJSON(ctx, cfg, http.MethodGet, path, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
