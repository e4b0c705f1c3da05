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
	"time"

	"github.com/spf13/viper"

	"github.com/lnq-mch/wechatpay-go/sign"
)

// rawConfig is the on-disk/environment shape LoadConfig populates via
// viper before turning it into a validated Config: PEM material
// travels as text, not as parsed keys.
type rawConfig struct {
	AppID       string `mapstructure:"app_id"`
	MchID       string `mapstructure:"mch_id"`
	ServiceHost string `mapstructure:"service_host"`
	NotifyURL   string `mapstructure:"notify_url"`
	Apiv3Key    string `mapstructure:"apiv3_key"`

	MerchantSerial         string `mapstructure:"merchant_serial"`
	MerchantPrivateKeyPEM  string `mapstructure:"merchant_private_key_pem"`
	MerchantCertificatePEM string `mapstructure:"merchant_certificate_pem"`

	TimeoutMS int    `mapstructure:"timeout_ms"`
	LogLevel  string `mapstructure:"log_level"`
}

// LoadConfig reads merchant configuration from path (YAML, JSON, TOML —
// whatever viper's codec registry recognizes by extension) and from the
// environment, parses the embedded PEM material, and returns a Config
// ready for Validate/NewStore.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, &ConfigInvalidError{Reason: "reading config file: " + err.Error()}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, &ConfigInvalidError{Reason: "unmarshaling config: " + err.Error()}
	}

	privateKey, err := sign.ParsePrivateKey([]byte(raw.MerchantPrivateKeyPEM))
	if err != nil {
		return Config{}, &ConfigInvalidError{Reason: "merchant private key: " + err.Error()}
	}

	cert, err := sign.ParseCertificate([]byte(raw.MerchantCertificatePEM))
	if err != nil {
		return Config{}, &ConfigInvalidError{Reason: "merchant certificate: " + err.Error()}
	}

	cfg := Config{
		AppID:               raw.AppID,
		MchID:               raw.MchID,
		ServiceHost:         raw.ServiceHost,
		NotifyURL:           raw.NotifyURL,
		Apiv3Key:            raw.Apiv3Key,
		MerchantSerial:      raw.MerchantSerial,
		MerchantPrivateKey:  privateKey,
		MerchantCertificate: cert,
		LogLevel:            raw.LogLevel,
	}
	if raw.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}

	if err := Validate(cfg.withDefaults()); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
