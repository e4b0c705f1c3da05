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

import "net/http"

// Event is an asynchronous result notification delivered by WeChat Pay
// (refund result and similar). When ResourceType is
// "encrypt-resource", Resource has already been opened by
// HandleRefundNotification and holds the plaintext JSON object;
// decode it with DecodeRefundTransaction or the Client's JSONCodec
// directly.
type Event struct {
	ID           string `json:"id"`
	CreateTime   string `json:"create_time"`
	EventType    string `json:"event_type"`
	ResourceType string `json:"resource_type"`
	Summary      string `json:"summary"`
	Resource     []byte `json:"-"`
}

// eventEnvelope is the shape an Event arrives in on the wire, before
// its resource is opened.
type eventEnvelope struct {
	ID           string            `json:"id"`
	CreateTime   string            `json:"create_time"`
	EventType    string            `json:"event_type"`
	ResourceType string            `json:"resource_type"`
	Summary      string            `json:"summary"`
	Resource     EncryptedResource `json:"resource"`
}

// RefundNotifyAmount is the amount breakdown carried in a refund
// notification's decrypted resource.
type RefundNotifyAmount struct {
	Total       int `json:"total"`
	Refund      int `json:"refund"`
	PayerTotal  int `json:"payer_total"`
	PayerRefund int `json:"payer_refund"`
}

// RefundNotifyTransaction is the decrypted payload of a refund result
// notification.
type RefundNotifyTransaction struct {
	MchID               string             `json:"mchid"`
	OutTradeNo          string             `json:"out_trade_no"`
	TransactionID       string             `json:"transaction_id"`
	OutRefundNo         string             `json:"out_refund_no"`
	RefundID            string             `json:"refund_id"`
	RefundStatus        string             `json:"refund_status"`
	SuccessTime         string             `json:"success_time,omitempty"`
	UserReceivedAccount string             `json:"user_received_account"`
	Amount              RefundNotifyAmount `json:"amount"`
}

// HandleRefundNotification verifies, decrypts, and decodes an inbound
// refund notification: it checks the signature against the headers and
// raw body, then opens the embedded AEAD-encrypted resource. Any step
// failing yields a typed error; there is no partial result.
func (c *Client) HandleRefundNotification(headers http.Header, body []byte) (*Event, error) {
	cfg := c.store.Load()

	if !verifyMessage(cfg.PlatformCerts, headers, body) {
		return nil, &VerifyFailError{Reason: "refund notification signature did not verify"}
	}

	var envelope eventEnvelope
	if err := cfg.JSON.Unmarshal(body, &envelope); err != nil {
		return nil, &DecodeFailError{Err: err}
	}

	event := &Event{
		ID:           envelope.ID,
		CreateTime:   envelope.CreateTime,
		EventType:    envelope.EventType,
		ResourceType: envelope.ResourceType,
		Summary:      envelope.Summary,
	}

	if envelope.ResourceType != "encrypt-resource" {
		return event, nil
	}

	apiv3Key, err := cfg.requireApiv3Key()
	if err != nil {
		return nil, err
	}

	plaintext, err := decryptResource(apiv3Key, envelope.Resource)
	if err != nil {
		return nil, err
	}
	event.Resource = plaintext

	return event, nil
}

// DecodeRefundTransaction decodes an already-opened Event's Resource
// into a RefundNotifyTransaction, using the Client's JSONCodec.
func (c *Client) DecodeRefundTransaction(event *Event) (*RefundNotifyTransaction, error) {
	cfg := c.store.Load()

	var trans RefundNotifyTransaction
	if err := cfg.JSON.Unmarshal(event.Resource, &trans); err != nil {
		return nil, &DecodeFailError{Err: err}
	}
	return &trans, nil
}
