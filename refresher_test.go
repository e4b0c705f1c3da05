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
	"testing"
	"time"
)

// TestRefreshCertificatesNowInstallsCertificates exercises a manual
// refresh end to end: an empty store bootstraps unverified, decrypts
// the payload, and installs the resulting public key.
func TestRefreshCertificatesNowInstallsCertificates(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")

	body := []byte(`{"data":[{"serial_no":"platformserial01","effective_time":"2024-01-01T00:00:00+08:00","expire_time":"2029-01-01T00:00:00+08:00","encrypt_certificate":` +
		mustMarshalEncryptedResource(t, encryptCertPEM(t, certPEM(t, &platform))) + `}]}`)

	transport := &mockTransport{responses: []mockExchange{
		{status: http.StatusOK, body: body},
	}}
	client, store := testClient(t, merchant, transport, "", nil)
	defer client.Close()

	if store.Load().PlatformCerts.Len() != 0 {
		t.Fatal("expected an empty platform certificate store before refresh")
	}

	if err := client.RefreshCertificatesNow(context.Background()); err != nil {
		t.Fatalf("RefreshCertificatesNow: %v", err)
	}

	if store.Load().PlatformCerts.Len() != 1 {
		t.Fatalf("expected 1 platform certificate after refresh, got %d", store.Load().PlatformCerts.Len())
	}
	if _, ok := store.Load().PlatformCerts.Lookup("platformserial01"); !ok {
		t.Fatal("expected platformserial01 to be installed")
	}
}

// TestRefreshCertificatesNowSerializesAgainstConcurrentTick confirms
// the guard channel keeps a manual refresh and a concurrent scheduled
// tick from running at the same time: both eventually succeed, but the
// transport never sees two in-flight requests.
func TestRefreshCertificatesNowSerializesAgainstConcurrentTick(t *testing.T) {
	merchant := newTestKeyPair(t, "merchantserial01")
	platform := newTestKeyPair(t, "platformserial01")

	body := []byte(`{"data":[{"serial_no":"platformserial01","effective_time":"2024-01-01T00:00:00+08:00","expire_time":"2029-01-01T00:00:00+08:00","encrypt_certificate":` +
		mustMarshalEncryptedResource(t, encryptCertPEM(t, certPEM(t, &platform))) + `}]}`)

	// Whichever refresh runs second finds the store already populated and
	// verifies the response, so the canned response carries the platform's
	// signature headers.
	headers := signPlatformResponse(t, platform, "platformserial01", body)

	transport := &mockTransport{}
	inflight := make(chan struct{}, 1)
	transport.fn = func(ctx context.Context, method, url string, headers map[string]string, b []byte) (*Response, error) {
		select {
		case inflight <- struct{}{}:
		default:
			t.Fatal("overlapping certificate refresh requests")
		}
		defer func() { <-inflight }()
		time.Sleep(5 * time.Millisecond)
		return &Response{Status: http.StatusOK, Headers: headers, Body: body}, nil
	}

	client, _ := testClient(t, merchant, transport, "", nil)
	defer client.Close()

	client.EnableCertificateRefresh(2 * time.Millisecond)
	time.Sleep(3 * time.Millisecond)

	if err := client.RefreshCertificatesNow(context.Background()); err != nil {
		t.Fatalf("RefreshCertificatesNow: %v", err)
	}

	client.DisableCertificateRefresh()
}
