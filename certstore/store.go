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

// Package certstore holds the platform certificates WeChat Pay rotates
// through v3/certificates, keyed by serial number.
//
// Store is an immutable value: Put and ReplaceAll both return a new
// Store rather than mutating the receiver. A goroutine holding a Store
// value always sees a complete, self-consistent snapshot, so lookups
// never need a lock of their own — the only place a Store reference is
// ever replaced is the single atomic pointer swap in the package that
// owns the configuration snapshot.
package certstore

import "crypto/rsa"

// Store maps a platform certificate serial number to its RSA public
// key. The zero Store is a valid, empty store.
type Store struct {
	keys map[string]*rsa.PublicKey
}

// Lookup returns the public key registered for serial, and whether one
// was found. A miss is an ordinary, expected outcome: the caller may
// retry after the certificate refresher runs.
func (s Store) Lookup(serial string) (*rsa.PublicKey, bool) {
	if s.keys == nil {
		return nil, false
	}
	key, ok := s.keys[serial]
	return key, ok
}

// Len reports how many certificates the store currently holds.
func (s Store) Len() int {
	return len(s.keys)
}

// Put returns a new Store with serial mapped to key, leaving every
// other entry untouched and the receiver unmodified.
func (s Store) Put(serial string, key *rsa.PublicKey) Store {
	next := make(map[string]*rsa.PublicKey, len(s.keys)+1)
	for k, v := range s.keys {
		next[k] = v
	}
	next[serial] = key
	return Store{keys: next}
}

// ReplaceAll returns a new Store whose only entries are pairs; no entry
// of any earlier Store carries over. This is what the certificate
// refresher calls after a successful fetch-and-decrypt cycle.
func ReplaceAll(pairs map[string]*rsa.PublicKey) Store {
	next := make(map[string]*rsa.PublicKey, len(pairs))
	for k, v := range pairs {
		next[k] = v
	}
	return Store{keys: next}
}

// Serials returns the serial numbers currently held, in no particular
// order. Useful for logging and diagnostics.
func (s Store) Serials() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}
