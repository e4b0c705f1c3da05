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
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"math/big"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/lnq-mch/wechatpay-go/certstore"
	"github.com/lnq-mch/wechatpay-go/sign"
)

// testKeyPair is a self-signed RSA identity used to stand in for
// either the merchant or WeChat Pay's platform in tests.
type testKeyPair struct {
	key  *rsa.PrivateKey
	cert *x509.Certificate
}

func newTestKeyPair(t *testing.T, serial string) testKeyPair {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: serial},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	return testKeyPair{key: key, cert: cert}
}

// mockExchange is one canned response, returned in order by mockTransport.
type mockExchange struct {
	status  int
	headers http.Header
	body    []byte
	err     error
}

// recordedRequest captures what the pipeline actually sent, for
// assertions about signing and body coercion.
type recordedRequest struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

// mockTransport is a scripted, in-memory Transport: each call to
// Exchange pops the next queued response (or calls fn if set) and
// records the request it was given.
type mockTransport struct {
	responses []mockExchange
	fn        func(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error)

	requests []recordedRequest
}

func (m *mockTransport) Exchange(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	m.requests = append(m.requests, recordedRequest{method: method, url: url, headers: headers, body: body})

	if m.fn != nil {
		return m.fn(ctx, method, url, headers, body)
	}

	if len(m.responses) == 0 {
		return &Response{Status: http.StatusOK}, nil
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &Response{Status: next.status, Headers: next.headers, Body: next.body}, nil
}

// signPlatformResponse signs body the way WeChat Pay's platform would,
// and returns the four headers verifyMessage reads.
func signPlatformResponse(t *testing.T, platform testKeyPair, serial string, body []byte) http.Header {
	t.Helper()

	ts := time.Now().Unix()
	nonce := sign.NewNonce()
	respSign := &sign.ResponseSignature{Body: body, Timestamp: ts, Nonce: nonce}

	raw, err := sign.Sign(platform.key, respSign.Marshal())
	if err != nil {
		t.Fatalf("sign platform response: %v", err)
	}

	headers := http.Header{}
	headers.Set("Wechatpay-Serial", serial)
	headers.Set("Wechatpay-Timestamp", strconv.FormatInt(ts, 10))
	headers.Set("Wechatpay-Nonce", nonce)
	headers.Set("Wechatpay-Signature", base64.StdEncoding.EncodeToString(raw))
	return headers
}

// testClient builds a Client wired to transport, trusting platform's
// certificate under serial (an empty serial/platform means an empty,
// untrusted certificate store — the bootstrap scenario).
func testClient(t *testing.T, merchant testKeyPair, transport Transport, platformSerial string, platform *testKeyPair) (*Client, *Store) {
	t.Helper()

	cfg := Config{
		AppID:               "wxapp123",
		MchID:               "1900000109",
		NotifyURL:           "https://example.com/notify",
		Apiv3Key:            "0123456789abcdef0123456789abcdef",
		MerchantSerial:      "merchantserial01",
		MerchantPrivateKey:  merchant.key,
		MerchantCertificate: merchant.cert,
		Transport:           transport,
		JSON:                GoJSONCodec{},
	}
	if platform != nil {
		publicKey, err := sign.PublicKeyOf(platform.cert)
		if err != nil {
			t.Fatalf("platform public key: %v", err)
		}
		cfg.PlatformCerts = certstore.ReplaceAll(map[string]*rsa.PublicKey{platformSerial: publicKey})
	}

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return NewClient(store, nil), store
}
