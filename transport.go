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

	"github.com/go-resty/resty/v2"
)

// Response is the subset of an HTTP response the pipeline needs:
// status, headers, and the raw body bytes. Headers uses http.Header so
// lookups are case-insensitive the same way they are on any other Go
// HTTP client or server.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Transport is the pluggable HTTPS exchange capability the pipeline
// depends on. It owns its own connection pooling and timeout policy;
// the pipeline calls it once per operation and treats it as safe for
// concurrent use from many goroutines.
type Transport interface {
	Exchange(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error)
}

// RestyTransport is the default Transport, backed by go-resty/resty/v2
// for connection-pooled, timeout-aware request execution.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport builds a RestyTransport with the given per-request
// timeout.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	return &RestyTransport{client: resty.New().SetTimeout(timeout)}
}

// Exchange implements Transport.
func (t *RestyTransport) Exchange(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	req := t.client.R().SetContext(ctx).SetHeaders(headers)
	if len(body) > 0 {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, &TransportFailError{Err: err}
	}

	return &Response{
		Status:  resp.StatusCode(),
		Headers: resp.Header(),
		Body:    resp.Body(),
	}, nil
}
