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

package certstore

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func mustKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestZeroStoreLookupMisses(t *testing.T) {
	var s Store
	if _, ok := s.Lookup("S1"); ok {
		t.Fatal("expected a miss on the zero Store")
	}
}

func TestPutIsImmutable(t *testing.T) {
	key := &mustKey(t).PublicKey

	base := Store{}
	next := base.Put("S1", key)

	if _, ok := base.Lookup("S1"); ok {
		t.Fatal("expected the receiver to be unaffected by Put")
	}

	got, ok := next.Lookup("S1")
	if !ok || got != key {
		t.Fatal("expected the new Store to carry the put entry")
	}
}

func TestPutPreservesExistingEntries(t *testing.T) {
	key1, key2 := &mustKey(t).PublicKey, &mustKey(t).PublicKey

	s := Store{}.Put("S1", key1).Put("S2", key2)

	if got, ok := s.Lookup("S1"); !ok || got != key1 {
		t.Fatal("expected S1 to survive a later Put of S2")
	}
	if got, ok := s.Lookup("S2"); !ok || got != key2 {
		t.Fatal("expected S2 to be present")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
}

func TestReplaceAllDiscardsPriorEntries(t *testing.T) {
	key1, key2 := &mustKey(t).PublicKey, &mustKey(t).PublicKey

	s := Store{}.Put("S1", key1)
	s = ReplaceAll(map[string]*rsa.PublicKey{"S2": key2})

	if _, ok := s.Lookup("S1"); ok {
		t.Fatal("expected ReplaceAll to discard S1")
	}
	if got, ok := s.Lookup("S2"); !ok || got != key2 {
		t.Fatal("expected S2 to be present after ReplaceAll")
	}
}
