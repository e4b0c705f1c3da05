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

// Package wechatpay implements the APIv3 endpoints for WeChat Pay. It
// signs outbound requests with the merchant's RSA private key,
// verifies and decrypts inbound responses and webhook notifications
// against WeChat's rotating platform certificates, and exposes one
// operation per API: order creation (native/JSAPI/H5), query, close,
// refund, refund query, and the derived mini-program pay parameters.
//
// As a quick start:
//
//	store, err := wechatpay.NewStore(cfg)
//	client := wechatpay.NewClient(store, nil)
//	resp, err := client.CreateNative(ctx, &wechatpay.TransactionRequest{...})
package wechatpay

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lnq-mch/wechatpay-go/sign"
)

// Client is the Endpoint Facade: one method per WeChat Pay APIv3
// operation, all routed through the single sign/transport/verify
// pipeline in do and doJSON. A Client owns a Store (so configuration,
// including rotating platform certificates, can change underneath it
// without disturbing in-flight requests) and a Refresher that keeps
// the platform certificate set current.
type Client struct {
	store     *Store
	refresher *Refresher
	logger    *zap.Logger
}

// NewClient builds a Client over an already-validated Store. If logger
// is nil, a stderr/info logger is used. The returned Client's
// certificate refresher is created in the Idle state; call
// EnableCertificateRefresh to start it.
func NewClient(store *Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = NewLogger(LogConfig{})
	}
	c := &Client{store: store, logger: logger}
	c.refresher = NewRefresher(c, logger)
	return c
}

// Config returns the Client's current configuration snapshot.
func (c *Client) Config() Config {
	return c.store.Load()
}

// EnableCertificateRefresh starts the background Certificate Refresher
// on interval (defaultRefreshEvery if interval <= 0).
func (c *Client) EnableCertificateRefresh(interval time.Duration) {
	c.refresher.Enable(interval)
}

// DisableCertificateRefresh stops the background refresher; the
// currently held platform certificates are unaffected.
func (c *Client) DisableCertificateRefresh() {
	c.refresher.Disable()
}

// RefreshCertificatesNow runs one certificate refresh on the caller's
// goroutine, serialized against the background schedule so at most
// one refresh is ever in flight.
func (c *Client) RefreshCertificatesNow(ctx context.Context) error {
	return c.refresher.Refresh(ctx)
}

// Close stops the background certificate refresher. It does not close
// the underlying Transport, which the caller may still own elsewhere.
func (c *Client) Close() {
	c.refresher.Stop()
}

// do signs the request, sends it through the Transport, and verifies
// the response. cfg is the single Config snapshot the caller
// took at the start of the operation — do never loads its own, so a
// Store.Replace/Update racing with this call cannot produce a request
// whose body was pre-filled from one snapshot while its Authorization
// header was signed from another. body is the already-encoded request
// payload; it is coerced to nil for any method other than POST so a
// GET request is never signed or sent with a body, no matter what the
// caller passed in. skipVerify is set only for the bootstrap
// GetCertificates call made while the platform certificate store is
// still empty.
func (c *Client) do(ctx context.Context, cfg Config, method, path string, body []byte, skipVerify bool) ([]byte, error) {
	effectiveBody := body
	if method != http.MethodPost {
		effectiveBody = nil
	}

	reqSign := &sign.RequestSignature{
		Method:    method,
		URL:       path,
		Timestamp: time.Now().Unix(),
		Nonce:     sign.NewNonce(),
		Body:      effectiveBody,
	}

	authHeader, err := sign.GenerateAuthorizationHeader(cfg.MerchantPrivateKey, reqSign, cfg.MchID, cfg.MerchantSerial)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": authHeader,
	}

	c.logger.Debug("wechatpay: sending request", zap.String("method", method), zap.String("path", path))

	resp, err := cfg.Transport.Exchange(ctx, method, cfg.baseURL()+path, headers, effectiveBody)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn("wechatpay: transport exchange failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	if resp.Status < 200 || resp.Status > 299 {
		c.logger.Debug("wechatpay: bad response", zap.String("path", path), zap.Int("status", resp.Status))
		return nil, &BadResponseError{Status: resp.Status, Body: resp.Body}
	}

	if skipVerify || len(resp.Body) == 0 {
		// A 2xx with an empty body (204 from close-transaction, most
		// notably) verifies vacuously: WeChat Pay does not always sign
		// an empty body, so missing signature headers here are not a
		// failure. A non-empty body always goes through the Verifier.
		return resp.Body, nil
	}

	if !verifyMessage(cfg.PlatformCerts, resp.Headers, resp.Body) {
		c.logger.Warn("wechatpay: response verification failed", zap.String("path", path))
		return nil, &VerifyFailError{Reason: "response signature did not verify"}
	}

	return resp.Body, nil
}

// doJSON wraps do with the JSON capability: it encodes reqBody for
// POST requests and decodes a verified response body into respBody.
// Either may be nil — a nil reqBody sends no body, a nil respBody
// discards a verified-but-uninteresting response (CloseTransaction and
// the like). cfg is the single Config snapshot the caller took at the
// start of the operation, reused for both the JSON codec and do.
func (c *Client) doJSON(ctx context.Context, cfg Config, method, path string, reqBody, respBody interface{}) error {
	var bodyBytes []byte
	if reqBody != nil && method == http.MethodPost {
		b, err := cfg.JSON.Marshal(reqBody)
		if err != nil {
			return err
		}
		bodyBytes = b
	}

	respBytes, err := c.do(ctx, cfg, method, path, bodyBytes, false)
	if err != nil {
		return err
	}

	if respBody == nil || len(respBytes) == 0 {
		return nil
	}

	if err := cfg.JSON.Unmarshal(respBytes, respBody); err != nil {
		return &DecodeFailError{Err: err}
	}
	return nil
}

// buildQuery joins name/value pairs into a query string in the exact
// order given, form-URL-encoding each piece — the canonical query
// form the Signer signs over.
func buildQuery(pairs ...[2]string) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}
