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
	"strings"
	"testing"
)

func TestCombinePayRequiresOrders(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")
	transport := &mockTransport{}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	_, err := client.CombinePay(context.Background(), Native, &CombineTransactionRequest{OutTradeNo: "c1"})
	if err == nil {
		t.Fatal("expected error for empty orders")
	}
}

func TestCombinePayNative(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")
	transport := &mockTransport{}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	respBody := []byte(`{"code_url":"weixin://combine"}`)
	transport.responses = []mockExchange{
		{status: http.StatusOK, headers: signPlatformResponse(t, platform, "platformserial01", respBody), body: respBody},
	}

	result, err := client.CombinePay(context.Background(), Native, &CombineTransactionRequest{
		OutTradeNo: "combine-1",
		Orders: []SubOrder{
			{MchID: "1900000001", OutTradeNo: "sub-1", Description: "item", Amount: Amount{Total: 100}},
		},
	})
	if err != nil {
		t.Fatalf("CombinePay: %v", err)
	}
	if result.CodeURL != "weixin://combine" {
		t.Fatalf("unexpected code url: %q", result.CodeURL)
	}
	if !strings.HasSuffix(transport.requests[0].url, "/v3/combine-transactions/native") {
		t.Fatalf("unexpected url: %s", transport.requests[0].url)
	}
}

func TestCombineCloseRequiresOrders(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")
	transport := &mockTransport{}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	if err := client.CombineClose(context.Background(), "combine-1", nil); err == nil {
		t.Fatal("expected error for empty orders")
	}
}
