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
	"fmt"
)

// Canceled is returned when the caller's context is canceled before the
// pipeline observes a transport result. It is context.Canceled under
// errors.Is.
var Canceled = context.Canceled

// ConfigInvalidError reports that the current configuration snapshot
// cannot support the requested operation: a missing field, an
// apiv3_key of the wrong length when AEAD is invoked, or a merchant
// private key that fails a signing probe.
type ConfigInvalidError struct {
	Reason string
}

func (e *ConfigInvalidError) Error() string {
	return "wechatpay: invalid configuration: " + e.Reason
}

// VerifyFailError reports that an inbound response or webhook failed
// signature verification: missing headers, an unknown certificate
// serial, or a signature mismatch.
type VerifyFailError struct {
	Reason string
}

func (e *VerifyFailError) Error() string {
	return "wechatpay: verification failed: " + e.Reason
}

// DecryptFailError reports an AEAD decryption failure on an encrypted
// resource: an unsupported algorithm, bad base64, or an authentication
// mismatch.
type DecryptFailError struct {
	Reason string
	Err    error
}

func (e *DecryptFailError) Error() string {
	if e.Err != nil {
		return "wechatpay: decryption failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "wechatpay: decryption failed: " + e.Reason
}

func (e *DecryptFailError) Unwrap() error { return e.Err }

// BadResponseError reports a non-2xx HTTP response. Verification is
// never attempted on these; Body is the raw response body as received.
type BadResponseError struct {
	Status int
	Body   []byte
}

func (e *BadResponseError) Error() string {
	return fmt.Sprintf("wechatpay: bad response: status=%d body=%s", e.Status, e.Body)
}

// TransportFailError wraps a failure raised by the Transport capability
// itself (DNS, connection refused, timeout, and the like) as opposed to
// an HTTP-level error status.
type TransportFailError struct {
	Err error
}

func (e *TransportFailError) Error() string {
	return "wechatpay: transport failed: " + e.Err.Error()
}

func (e *TransportFailError) Unwrap() error { return e.Err }

// DecodeFailError reports that a verified, 2xx response body could not
// be JSON-decoded into the expected result shape.
type DecodeFailError struct {
	Err error
}

func (e *DecodeFailError) Error() string {
	return "wechatpay: decode failed: " + e.Err.Error()
}

func (e *DecodeFailError) Unwrap() error { return e.Err }

// Business error codes returned in WeChat Pay's own JSON error envelope
// (decoded from a BadResponseError's Body). Kept as named constants so
// callers can compare against them without hardcoding strings.
const (
	UserPaying           = "USERPAYING"
	TradeError           = "TRADE_ERROR"
	SystemError          = "SYSTEMERROR"
	SignError            = "SIGN_ERROR"
	RuleLimit            = "RULELIMIT"
	ParamError           = "PARAM_ERROR"
	OutTradeNoUsed       = "OUT_TRADE_NO_USED"
	OrderNotExist        = "ORDERNOTEXIST"
	OrderClosed          = "ORDER_CLOSED"
	OpenidMismatch       = "OPENID_MISMATCH"
	NotEnough            = "NOTENOUGH"
	NoAuth               = "NOAUTH"
	MchNotExists         = "MCH_NOT_EXISTS"
	InvalidTransactionid = "INVALID_TRANSACTIONID"
	InvalidRequest       = "INVALID_REQUEST"
	FrequencyLimited     = "FREQUENCY_LIMITED"
	BankError            = "BANKERROR"
	AppidMchidNotMatch   = "APPID_MCHID_NOT_MATCH"
	AccountError         = "ACCOUNTERROR"
)

// BusinessError is WeChat Pay's own error envelope, typically found
// JSON-decoded from a BadResponseError's Body.
type BusinessError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *BusinessError) Error() string {
	return "wechatpay: " + e.Code + ": " + e.Message
}
