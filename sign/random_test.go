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

import "testing"

func TestNewNonceLength(t *testing.T) {
	n := NewNonce()
	if len(n) != NonceLength {
		t.Fatalf("expect length %d, got %d (%q)", NonceLength, len(n), n)
	}
}

func TestNewNonceIsNotConstant(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		n := NewNonce()
		if _, ok := seen[n]; ok {
			t.Fatalf("got a duplicate nonce after %d draws: %q", i, n)
		}
		seen[n] = struct{}{}
	}
}
