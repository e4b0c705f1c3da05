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
	"encoding/base64"
	"strconv"
	"time"

	"github.com/lnq-mch/wechatpay-go/sign"
)

// MiniappPayForm is the set of fields a mini-program hands to
// wx.requestPayment to actually collect payment, derived from a
// prepay id previously obtained from CreateJSAPI. The field is
// "appId" (camelCase), not "appid", matching WeChat's documented
// mini-program call.
type MiniappPayForm struct {
	AppID     string `json:"appId"`
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// MiniappPayForm builds the pay form for prepayID. It cannot fail for
// a Client built over a valid Config — the only failure mode is an
// unusable private key, which Validate already rejected at
// construction time.
func (c *Client) MiniappPayForm(prepayID string) (*MiniappPayForm, error) {
	cfg := c.store.Load()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	nonce := sign.NewNonce()
	pkg := "prepay_id=" + prepayID

	miniSign := &sign.MiniappSignature{
		AppID:     cfg.AppID,
		Timestamp: timestamp,
		Nonce:     nonce,
		Package:   pkg,
	}

	raw, err := sign.Sign(cfg.MerchantPrivateKey, miniSign.Marshal())
	if err != nil {
		return nil, err
	}

	return &MiniappPayForm{
		AppID:     cfg.AppID,
		TimeStamp: timestamp,
		NonceStr:  nonce,
		Package:   pkg,
		SignType:  "RSA",
		PaySign:   base64.StdEncoding.EncodeToString(raw),
	}, nil
}
