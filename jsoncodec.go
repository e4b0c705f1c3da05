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

import gojson "github.com/goccy/go-json"

// JSONCodec is the pluggable encode/decode capability the pipeline
// depends on. Any encoding/json-compatible implementation works.
type JSONCodec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// GoJSONCodec is the default JSONCodec, backed by goccy/go-json — a
// drop-in, faster encoding/json replacement.
type GoJSONCodec struct{}

// Marshal implements JSONCodec.
func (GoJSONCodec) Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal implements JSONCodec.
func (GoJSONCodec) Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}
