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
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/lnq-mch/wechatpay-go/sign"
)

func TestClientDoJSONSignsAndVerifiesRoundtrip(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")

	respBody := []byte(`{"code_url":"weixin://wxpay/bizpayurl?pr=abc123"}`)
	transport := &mockTransport{}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	transport.responses = []mockExchange{
		{status: http.StatusOK, headers: signPlatformResponse(t, platform, "platformserial01", respBody), body: respBody},
	}

	result, err := client.CreateNative(context.Background(), &TransactionRequest{
		Description: "test order",
		OutTradeNo:  "out-trade-1",
		Amount:      Amount{Total: 100},
	})
	if err != nil {
		t.Fatalf("CreateNative: %v", err)
	}
	if result.CodeURL != "weixin://wxpay/bizpayurl?pr=abc123" {
		t.Fatalf("unexpected code url: %q", result.CodeURL)
	}

	if len(transport.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(transport.requests))
	}
	req := transport.requests[0]
	if req.method != http.MethodPost {
		t.Fatalf("expected POST, got %s", req.method)
	}

	auth := req.headers["Authorization"]
	if !strings.HasPrefix(auth, sign.Schema+" ") {
		t.Fatalf("authorization header missing schema: %q", auth)
	}
	if !strings.Contains(auth, `mchid="1900000109"`) {
		t.Fatalf("authorization header missing mchid: %q", auth)
	}

	merchantPub, err := sign.PublicKeyOf(merchant.cert)
	if err != nil {
		t.Fatalf("merchant public key: %v", err)
	}
	ts, nonce, sigB64 := parseAuthorizationHeader(t, auth)
	reqSign := &sign.RequestSignature{Method: http.MethodPost, URL: "/v3/pay/transactions/native", Timestamp: ts, Nonce: nonce, Body: req.body}
	rawSig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	if !sign.Verify(merchantPub, reqSign.Marshal(), rawSig) {
		t.Fatalf("request signature did not verify against merchant public key")
	}
}

func TestClientDoRejectsBadSignature(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")
	impostor := newTestKeyPair(t, "platformserial01")

	respBody := []byte(`{"code_url":"weixin://x"}`)
	transport := &mockTransport{}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	// Response signed by a key the store doesn't trust under that serial.
	transport.responses = []mockExchange{
		{status: http.StatusOK, headers: signPlatformResponse(t, impostor, "platformserial01", respBody), body: respBody},
	}

	_, err := client.CreateNative(context.Background(), &TransactionRequest{
		Description: "test order",
		OutTradeNo:  "out-trade-1",
		Amount:      Amount{Total: 100},
	})
	if err == nil {
		t.Fatal("expected verification failure, got nil error")
	}
	if _, ok := err.(*VerifyFailError); !ok {
		t.Fatalf("expected *VerifyFailError, got %T: %v", err, err)
	}
}

func TestClientDoReturnsBadResponseOn4xx(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")

	transport := &mockTransport{responses: []mockExchange{
		{status: http.StatusBadRequest, body: []byte(`{"code":"PARAM_ERROR","message":"bad out_trade_no"}`)},
	}}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	_, err := client.CreateNative(context.Background(), &TransactionRequest{
		Description: "test order",
		OutTradeNo:  "out-trade-1",
		Amount:      Amount{Total: 100},
	})
	badResp, ok := err.(*BadResponseError)
	if !ok {
		t.Fatalf("expected *BadResponseError, got %T: %v", err, err)
	}
	if badResp.Status != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", badResp.Status)
	}
}

func TestClientGETNeverSendsABody(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")

	respBody := []byte(`{"out_trade_no":"o1","trade_state":"SUCCESS"}`)
	transport := &mockTransport{}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)
	transport.responses = []mockExchange{
		{status: http.StatusOK, headers: signPlatformResponse(t, platform, "platformserial01", respBody), body: respBody},
	}

	result, err := client.QueryByOutTradeNo(context.Background(), "o1")
	if err != nil {
		t.Fatalf("QueryByOutTradeNo: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected SUCCESS trade state, got %q", result.TradeState)
	}

	req := transport.requests[0]
	if req.method != http.MethodGet {
		t.Fatalf("expected GET, got %s", req.method)
	}
	if req.body != nil {
		t.Fatalf("expected nil body on GET, got %q", req.body)
	}
	if !strings.Contains(req.url, "mchid=1900000109") {
		t.Fatalf("expected mchid in query string, got %s", req.url)
	}
}

func TestClientCloseTransactionAcceptsEmptyBody(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")

	transport := &mockTransport{responses: []mockExchange{
		{status: http.StatusNoContent},
	}}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	if err := client.CloseTransaction(context.Background(), "o1"); err != nil {
		t.Fatalf("CloseTransaction: %v", err)
	}
}

func TestClientTransportFailurePropagates(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")

	transport := &mockTransport{responses: []mockExchange{
		{err: &TransportFailError{Err: context.DeadlineExceeded}},
	}}
	client, _ := testClient(t, merchant, transport, "platformserial01", &platform)

	_, err := client.QueryByOutTradeNo(context.Background(), "o1")
	if _, ok := err.(*TransportFailError); !ok {
		t.Fatalf("expected *TransportFailError, got %T: %v", err, err)
	}
}

// parseAuthorizationHeader extracts the timestamp, nonce, and signature
// fields out of a "SCHEMA mchid=\"...\",nonce_str=\"...\",timestamp=\"...\",serial_no=\"...\",signature=\"...\""
// header value.
func parseAuthorizationHeader(t *testing.T, header string) (int64, string, string) {
	t.Helper()

	fields := map[string]string{}
	parts := header[strings.Index(header, " ")+1:]
	for _, kv := range strings.Split(parts, ",") {
		eq := strings.Index(kv, "=")
		if eq < 0 {
			continue
		}
		key := kv[:eq]
		val := strings.Trim(kv[eq+1:], `"`)
		fields[key] = val
	}

	ts, err := strconv.ParseInt(fields["timestamp"], 10, 64)
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	return ts, fields["nonce_str"], fields["signature"]
}

