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
	"crypto/rsa"
	"crypto/x509"
	"time"

	"github.com/lnq-mch/wechatpay-go/certstore"
)

const (
	defaultSchema       = "WECHATPAY2-SHA256-RSA2048"
	defaultServiceHost  = "api.mch.weixin.qq.com"
	defaultTimeout      = 5000 * time.Millisecond
	defaultRefreshEvery = 24 * time.Hour
)

// Config is an immutable configuration snapshot. Every field is
// populated at construction; nothing on Config is mutated afterward —
// a new Config value is built and swapped in wholesale by Store.
type Config struct {
	AppID       string
	MchID       string
	ServiceHost string
	NotifyURL   string
	Apiv3Key    string

	MerchantSerial      string
	MerchantPrivateKey  *rsa.PrivateKey
	MerchantCertificate *x509.Certificate

	PlatformCerts certstore.Store

	Timeout  time.Duration
	LogLevel string

	Transport Transport
	JSON      JSONCodec
}

// withDefaults fills in the tuning knobs (service host, timeout,
// Transport, JSON codec) whenever the caller left them at the zero
// value.
func (c Config) withDefaults() Config {
	if c.ServiceHost == "" {
		c.ServiceHost = defaultServiceHost
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Transport == nil {
		c.Transport = NewRestyTransport(c.Timeout)
	}
	if c.JSON == nil {
		c.JSON = GoJSONCodec{}
	}
	return c
}

// baseURL is the https:// authority requests are sent to.
func (c Config) baseURL() string {
	return "https://" + c.ServiceHost
}
