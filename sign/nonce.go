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

import (
	"crypto/rand"
	"encoding/base64"
)

// NonceLength is the length of the nonce string attached to every
// signed request.
const NonceLength = 12

// NewNonce draws 12 random bytes and returns the first 12 characters
// of their URL-safe base64 encoding.
func NewNonce() string {
	b := make([]byte, NonceLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// broken, which isn't a condition callers can recover from.
		panic("sign: failed to read random nonce: " + err.Error())
	}

	encoded := base64.RawURLEncoding.EncodeToString(b)
	if len(encoded) > NonceLength {
		encoded = encoded[:NonceLength]
	}
	return encoded
}
