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

package sign

// CryptoError reports a failure in a crypto primitive: a parse
// failure, an RSA signing failure, or an AEAD key, nonce or
// authentication failure. A signature mismatch is not a CryptoError;
// Verify reports it as false. These are
// fatal for the request or message that triggered them; the caller is
// not expected to retry.
type CryptoError struct {
	Op     string
	Reason string
	Err    error
}

func (e *CryptoError) Error() string {
	if e.Err != nil {
		return "sign: " + e.Op + ": " + e.Reason + ": " + e.Err.Error()
	}
	return "sign: " + e.Op + ": " + e.Reason
}

func (e *CryptoError) Unwrap() error { return e.Err }
