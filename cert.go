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
	"crypto/rsa"
	"net/http"

	"github.com/lnq-mch/wechatpay-go/sign"
)

// CertificatesResponse is the response for /v3/certificates.
type CertificatesResponse struct {
	Certificates []Certificate `json:"data"`
}

// Certificate is one platform certificate record as delivered by
// WeChat Pay. Certificate is populated by GetCertificates after the
// encrypted payload is opened; it carries no JSON tag of its own since
// WeChat never sends it on the wire.
type Certificate struct {
	SerialNo      string            `json:"serial_no"`
	EffectiveTime string            `json:"effective_time"`
	ExpireTime    string            `json:"expire_time"`
	Encrypt       EncryptedResource `json:"encrypt_certificate"`
	Certificate   string            `json:"-"`
}

// GetCertificates fetches /v3/certificates and decrypts every entry's
// encrypt_certificate into its Certificate field.
//
// When verify is false — the only legitimate use is bootstrapping a
// Client whose platform certificate store is still empty — the
// Verifier step is skipped, but decryption still runs and the full
// list is still returned either way.
func (c *Client) GetCertificates(ctx context.Context, verify bool) (*CertificatesResponse, error) {
	cfg := c.store.Load()

	apiv3Key, err := cfg.requireApiv3Key()
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, cfg, http.MethodGet, "/v3/certificates", nil, !verify)
	if err != nil {
		return nil, err
	}

	resp := &CertificatesResponse{}
	if err := cfg.JSON.Unmarshal(body, resp); err != nil {
		return nil, &DecodeFailError{Err: err}
	}

	for i := range resp.Certificates {
		plaintext, err := decryptResource(apiv3Key, resp.Certificates[i].Encrypt)
		if err != nil {
			return nil, err
		}
		resp.Certificates[i].Certificate = string(plaintext)
	}

	return resp, nil
}

// PublicKeys parses every decrypted certificate PEM into its RSA
// public key, keyed by serial number — the shape Store.UpdateCertificates
// expects.
func (resp *CertificatesResponse) PublicKeys() (map[string]*rsa.PublicKey, error) {
	out := make(map[string]*rsa.PublicKey, len(resp.Certificates))
	for _, cert := range resp.Certificates {
		x509Cert, err := sign.ParseCertificate([]byte(cert.Certificate))
		if err != nil {
			return nil, err
		}
		publicKey, err := sign.PublicKeyOf(x509Cert)
		if err != nil {
			return nil, err
		}
		out[cert.SerialNo] = publicKey
	}
	return out, nil
}
