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

// Bill downloads: WeChat Pay serves trade and fund-flow bills as a
// two-step fetch — an API call returns a short-lived download URL, and
// the actual file is fetched from that URL unsigned (it's
// pre-authorized by a token embedded in the URL itself). This file
// covers both steps plus the CSV summary line every bill ends with;
// the detailed per-transaction row columns (refund details, coupon
// breakdowns, settlement fields) aren't parsed into structured rows
// here, since callers that need them can read the raw CSV bytes
// directly off the returned data.
package wechatpay

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BillType selects which rows a trade bill contains.
type BillType string

const (
	AllBill     BillType = "ALL"
	SuccessBill BillType = "SUCCESS"
	RefundBill  BillType = "REFUND"
)

// FundFlowAccount selects which fund account a fund flow bill covers.
type FundFlowAccount string

const (
	BasicAccount     FundFlowAccount = "BASIC"
	OperationAccount FundFlowAccount = "OPERATION"
	FeesAccount      FundFlowAccount = "FEES"
)

// TarType selects whether a bill download is gzip-compressed.
type TarType string

const (
	DataStream TarType = ""
	GZIP       TarType = "GZIP"
)

// fileURLResponse is the shape of the intermediate "where do I
// download this" response both bill endpoints return.
type fileURLResponse struct {
	DownloadURL string `json:"download_url"`
	HashType    string `json:"hash_type,omitempty"`
	HashValue   string `json:"hash_value,omitempty"`
}

// BillSummary is the trailing summary row every bill (trade or fund
// flow) carries.
type BillSummary struct {
	TotalNumberOfTransactions int
	TotalFee                  float64
	Fields                    []string
}

func (c *Client) downloadFile(ctx context.Context, cfg Config, fileURL string) ([]byte, error) {
	resp, err := cfg.Transport.Exchange(ctx, http.MethodGet, fileURL, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status > 299 {
		return nil, &BadResponseError{Status: resp.Status, Body: resp.Body}
	}
	return resp.Body, nil
}

func maybeGunzip(data []byte, tarType TarType) ([]byte, error) {
	if tarType != GZIP {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// parseBillSummary reads the trailing summary line of a WeChat Pay
// bill CSV: the last non-empty line, preceded by its own one-line
// header. The bulk of the file (the per-transaction rows) is returned
// unparsed in DownloadTradeBill/DownloadFundFlowBill's raw data.
func parseBillSummary(data []byte) (*BillSummary, error) {
	lines := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, errors.New("wechatpay: bill data too short to contain a summary")
	}

	fields := splitBillRow(lines[len(lines)-1])
	summary := &BillSummary{Fields: fields}
	if len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			summary.TotalNumberOfTransactions = n
		}
	}
	if len(fields) > 1 {
		if f, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
			summary.TotalFee = f
		}
	}
	return summary, nil
}

func splitBillRow(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		parts[i] = strings.TrimPrefix(p, "`")
	}
	return parts
}

// DownloadTradeBill fetches a merchant's trade bill for billDate
// (format "2006-01-02") and returns the raw (decompressed) CSV bytes
// alongside its parsed summary row.
func (c *Client) DownloadTradeBill(ctx context.Context, billDate string, billType BillType, tarType TarType) ([]byte, *BillSummary, error) {
	if _, err := time.Parse("2006-01-02", billDate); err != nil {
		return nil, nil, errors.New("wechatpay: bill_date must be in YYYY-MM-DD format")
	}

	v := url.Values{}
	v.Set("bill_date", billDate)
	if billType != "" {
		v.Set("bill_type", string(billType))
	}
	if tarType != "" {
		v.Set("tar_type", string(tarType))
	}

	cfg := c.store.Load()
	resp := &fileURLResponse{}
	path := "/v3/bill/tradebill?" + v.Encode()
	if err := c.doJSON(ctx, cfg, http.MethodGet, path, nil, resp); err != nil {
		return nil, nil, err
	}

	raw, err := c.downloadFile(ctx, cfg, resp.DownloadURL)
	if err != nil {
		return nil, nil, err
	}
	data, err := maybeGunzip(raw, tarType)
	if err != nil {
		return nil, nil, err
	}
	summary, err := parseBillSummary(data)
	if err != nil {
		return nil, nil, err
	}
	return data, summary, nil
}

// DownloadFundFlowBill fetches the merchant's fund flow bill for
// billDate, the fund-flow analogue of DownloadTradeBill.
func (c *Client) DownloadFundFlowBill(ctx context.Context, billDate string, account FundFlowAccount, tarType TarType) ([]byte, *BillSummary, error) {
	if _, err := time.Parse("2006-01-02", billDate); err != nil {
		return nil, nil, errors.New("wechatpay: bill_date must be in YYYY-MM-DD format")
	}

	v := url.Values{}
	v.Set("bill_date", billDate)
	if account != "" {
		v.Set("account_type", string(account))
	}
	if tarType != "" {
		v.Set("tar_type", string(tarType))
	}

	cfg := c.store.Load()
	resp := &fileURLResponse{}
	path := "/v3/bill/fundflowbill?" + v.Encode()
	if err := c.doJSON(ctx, cfg, http.MethodGet, path, nil, resp); err != nil {
		return nil, nil, err
	}

	raw, err := c.downloadFile(ctx, cfg, resp.DownloadURL)
	if err != nil {
		return nil, nil, err
	}
	data, err := maybeGunzip(raw, tarType)
	if err != nil {
		return nil, nil, err
	}
	summary, err := parseBillSummary(data)
	if err != nil {
		return nil, nil, err
	}
	return data, summary, nil
}
