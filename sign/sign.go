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

// Package sign implements the crypto primitives, and the canonical
// request/response signature layouts, used by WeChat Pay's APIv3:
// RSA-SHA256 sign/verify, AES-256-GCM AEAD open/seal, PEM/X.509
// parsing, and the string-to-sign builders for outbound requests,
// inbound responses, and the mini-program pay form.
package sign

import (
	"bytes"
	"crypto/rsa"
	"strconv"
)

// Schema is the authorization scheme name WeChat Pay APIv3 expects.
const Schema = "WECHATPAY2-SHA256-RSA2048"

// RequestSignature is the material signed for an outbound request.
// Marshal produces exactly:
//
//	METHOD "\n" URL "\n" TIMESTAMP "\n" NONCE "\n" BODY "\n"
//
// URL is the canonical path-plus-query, never the full https:// URL;
// BODY must already be coerced to empty for GET requests by the
// caller; Marshal writes Body as given, whatever Method is.
type RequestSignature struct {
	Method    string
	URL       string
	Timestamp int64
	Nonce     string
	Body      []byte
}

// Marshal returns the exact bytes that get signed.
func (r *RequestSignature) Marshal() []byte {
	var b bytes.Buffer
	b.WriteString(r.Method)
	b.WriteByte('\n')
	b.WriteString(r.URL)
	b.WriteByte('\n')
	b.WriteString(strconv.FormatInt(r.Timestamp, 10))
	b.WriteByte('\n')
	b.WriteString(r.Nonce)
	b.WriteByte('\n')
	b.Write(r.Body)
	b.WriteByte('\n')
	return b.Bytes()
}

// ResponseSignature is the material verified for an inbound response
// or webhook. Marshal produces exactly:
//
//	TIMESTAMP "\n" NONCE "\n" BODY "\n"
//
// Note the asymmetry with RequestSignature: no method, no URL. This is
// intentional — WeChat Pay does not echo request context back into the
// response signature.
type ResponseSignature struct {
	Body      []byte
	Timestamp int64
	Nonce     string
}

// Marshal returns the exact bytes that get verified.
func (r *ResponseSignature) Marshal() []byte {
	var b bytes.Buffer
	b.WriteString(strconv.FormatInt(r.Timestamp, 10))
	b.WriteByte('\n')
	b.WriteString(r.Nonce)
	b.WriteByte('\n')
	b.Write(r.Body)
	b.WriteByte('\n')
	return b.Bytes()
}

// MiniappSignature is the material signed for the mini-program pay
// form. Marshal produces exactly:
//
//	APPID "\n" TIMESTAMP "\n" NONCE "\n" PACKAGE "\n"
type MiniappSignature struct {
	AppID     string
	Timestamp string
	Nonce     string
	Package   string
}

// Marshal returns the exact bytes that get signed.
func (m *MiniappSignature) Marshal() []byte {
	var b bytes.Buffer
	b.WriteString(m.AppID)
	b.WriteByte('\n')
	b.WriteString(m.Timestamp)
	b.WriteByte('\n')
	b.WriteString(m.Nonce)
	b.WriteByte('\n')
	b.WriteString(m.Package)
	b.WriteByte('\n')
	return b.Bytes()
}

// GenerateSignature signs reqSign with privateKey and formats the
// Authorization header value (without the leading schema token),
// preserving the exact field order and quoting WeChat Pay requires:
//
//	mchid="…",nonce_str="…",timestamp="…",serial_no="…",signature="…"
func GenerateSignature(privateKey *rsa.PrivateKey, reqSign *RequestSignature, mchID, serialNo string) (string, error) {
	raw, err := Sign(privateKey, reqSign.Marshal())
	if err != nil {
		return "", err
	}
	signature := base64Encode(raw)

	var b bytes.Buffer
	b.WriteString(`mchid="`)
	b.WriteString(mchID)
	b.WriteString(`",nonce_str="`)
	b.WriteString(reqSign.Nonce)
	b.WriteString(`",timestamp="`)
	b.WriteString(strconv.FormatInt(reqSign.Timestamp, 10))
	b.WriteString(`",serial_no="`)
	b.WriteString(serialNo)
	b.WriteString(`",signature="`)
	b.WriteString(signature)
	b.WriteString(`"`)
	return b.String(), nil
}

// GenerateAuthorizationHeader builds the full Authorization header
// value, schema token included.
func GenerateAuthorizationHeader(privateKey *rsa.PrivateKey, reqSign *RequestSignature, mchID, serialNo string) (string, error) {
	fields, err := GenerateSignature(privateKey, reqSign, mchID, serialNo)
	if err != nil {
		return "", err
	}
	return Schema + " " + fields, nil
}

// VerifySignature reports whether signature (base64-encoded) is a
// valid RSA-SHA256 signature of respSign under publicKey.
func VerifySignature(publicKey *rsa.PublicKey, respSign *ResponseSignature, signature string) bool {
	raw, err := base64Decode(signature)
	if err != nil {
		return false
	}
	return Verify(publicKey, respSign.Marshal(), raw)
}
