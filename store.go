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
	"sync/atomic"

	"github.com/lnq-mch/wechatpay-go/certstore"
)

// Store is the single source of truth for a validated Config. Reads
// are a lock-free atomic pointer load; writes build a brand-new Config
// value and swap the pointer, so concurrent readers never observe a
// torn snapshot — they see either the old value or the new one.
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore validates cfg, applies defaults, and returns a Store seeded
// with it.
func NewStore(cfg Config) (*Store, error) {
	s := &Store{}
	if err := s.Replace(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns the current snapshot. The returned Config is safe to
// read from multiple goroutines and safe to hold onto for the
// lifetime of one logical operation.
func (s *Store) Load() Config {
	cfg := s.current.Load()
	if cfg == nil {
		return Config{}
	}
	return *cfg
}

// Replace validates new, and if it passes, installs it as the current
// snapshot in one atomic step. On validation failure the store is left
// untouched.
func (s *Store) Replace(next Config) error {
	next = next.withDefaults()
	if err := Validate(next); err != nil {
		return err
	}
	s.current.Store(&next)
	return nil
}

// Update copies every non-zero field of patch over the current snapshot
// and re-validates the result before installing it. Fields left at
// their zero value in patch do not override the current snapshot; to
// clear a field, callers replace the whole Config via Replace.
// PlatformCerts is never taken from patch; UpdateCertificates replaces
// the certificate set.
func (s *Store) Update(patch Config) error {
	cur := s.Load()
	merged := mergeConfig(cur, patch)
	return s.Replace(merged)
}

// UpdateCertificates installs pairs as the complete platform
// certificate set, discarding whatever the store held before. This is
// what the Certificate Refresher calls after a successful fetch.
func (s *Store) UpdateCertificates(pairs map[string]*rsa.PublicKey) error {
	cur := s.Load()
	cur.PlatformCerts = certstore.ReplaceAll(pairs)
	return s.Replace(cur)
}

func mergeConfig(base, patch Config) Config {
	if patch.AppID != "" {
		base.AppID = patch.AppID
	}
	if patch.MchID != "" {
		base.MchID = patch.MchID
	}
	if patch.ServiceHost != "" {
		base.ServiceHost = patch.ServiceHost
	}
	if patch.NotifyURL != "" {
		base.NotifyURL = patch.NotifyURL
	}
	if patch.Apiv3Key != "" {
		base.Apiv3Key = patch.Apiv3Key
	}
	if patch.MerchantSerial != "" {
		base.MerchantSerial = patch.MerchantSerial
	}
	if patch.MerchantPrivateKey != nil {
		base.MerchantPrivateKey = patch.MerchantPrivateKey
	}
	if patch.MerchantCertificate != nil {
		base.MerchantCertificate = patch.MerchantCertificate
	}
	if patch.Timeout > 0 {
		base.Timeout = patch.Timeout
	}
	if patch.LogLevel != "" {
		base.LogLevel = patch.LogLevel
	}
	if patch.Transport != nil {
		base.Transport = patch.Transport
	}
	if patch.JSON != nil {
		base.JSON = patch.JSON
	}
	return base
}
