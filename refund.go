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
	"time"
)

// RefundGoodDetail is one line item of a refund request.
type RefundGoodDetail struct {
	MerchantGoodsID  string `json:"merchant_goods_id"`
	WechatpayGoodsID string `json:"wechatpay_goods_id,omitempty"`
	GoodsName        string `json:"goods_name,omitempty"`
	UnitPrice        int    `json:"unit_price"`
	RefundAmount     int    `json:"refund_amount"`
	RefundQuantity   int    `json:"refund_quantity"`
}

// RefundAmount is the amount requested to be refunded.
type RefundAmount struct {
	Refund   int    `json:"refund"`
	Total    int    `json:"total"`
	Currency string `json:"currency"`
}

// RefundRequest is CreateRefund's request body. NotifyURL is filled
// from the Client's configuration when left empty, per the pipeline's
// body pre-fill rule.
type RefundRequest struct {
	TransactionID string `json:"transaction_id,omitempty"`
	OutTradeNo    string `json:"out_trade_no,omitempty"`
	OutRefundNo   string `json:"out_refund_no"`
	Reason        string `json:"reason,omitempty"`
	NotifyURL     string `json:"notify_url,omitempty"`
	FundsAccount  string `json:"funds_account,omitempty"`

	Amount      RefundAmount       `json:"amount"`
	GoodsDetail []RefundGoodDetail `json:"goods_detail,omitempty"`
}

// RefundAmountDetail is the settled amount breakdown on a refund result.
type RefundAmountDetail struct {
	Total            int    `json:"total"`
	Refund           int    `json:"refund"`
	PayerTotal       int    `json:"payer_total"`
	PayerRefund      int    `json:"payer_refund"`
	SettlementTotal  int    `json:"settlement_total"`
	SettlementRefund int    `json:"settlement_refund"`
	DiscountRefund   int    `json:"discount_refund"`
	Currency         string `json:"currency"`
}

// RefundPromotionDetail is one coupon/promotion applied to a refund.
type RefundPromotionDetail struct {
	PromotionID  int    `json:"promotion_id"`
	Scope        string `json:"scope"`
	Type         string `json:"type"`
	Amount       int    `json:"amount"`
	RefundAmount int    `json:"refund_amount"`

	GoodsDetail []RefundGoodDetail `json:"goods_detail,omitempty"`
}

// RefundResult is the common result shape for CreateRefund and
// QueryRefund.
type RefundResult struct {
	RefundID            string    `json:"refund_id"`
	OutRefundNo         string    `json:"out_refund_no"`
	TransactionID       string    `json:"transaction_id"`
	OutTradeNo          string    `json:"out_trade_no"`
	Channel             string    `json:"channel"`
	UserReceivedAccount string    `json:"user_received_account"`
	SuccessTime         time.Time `json:"success_time,omitempty"`
	CreateTime          time.Time `json:"create_time"`
	Status              string    `json:"status"`
	FundsAccount        string    `json:"funds_account,omitempty"`

	Amount    RefundAmountDetail     `json:"amount"`
	Promotion *RefundPromotionDetail `json:"promotion_detail,omitempty"`
}

// CreateRefund requests a refund against a transaction identified by
// either TransactionID or OutTradeNo (exactly one is expected; WeChat
// Pay's API enforces that).
func (c *Client) CreateRefund(ctx context.Context, req *RefundRequest) (*RefundResult, error) {
	cfg := c.store.Load()
	if req.NotifyURL == "" {
		req.NotifyURL = cfg.NotifyURL
	}

	resp := &RefundResult{}
	if err := c.doJSON(ctx, cfg, http.MethodPost, "/v3/refund/domestic/refunds", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
