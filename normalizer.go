/*
Copyright 2025 Recon Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package recon

import (
	"strings"
	"time"

	"github.com/reconlabs/recon/model"
	"github.com/shopspring/decimal"
)

// fieldAliases maps each canonical field to the ordered list of source
// column names it is read from. The first alias present in a row with a
// non-empty value wins; later aliases are ignored even if also present.
var fieldAliases = map[string][]string{
	"transactionId":   {"transactionId", "transaction_id", "TransactionID", "Transaction ID", "txnId", "txn"},
	"amount":          {"amount", "Amount", "AMT", "Value"},
	"referenceNumber": {"referenceNumber", "ref", "Reference", "Reference Number"},
	"date":            {"date", "Date"},
}

// dateLayouts are tried in order when parsing a date field. Unparseable
// dates normalize to nil rather than failing the row.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// normalizeRow builds a SubmittedRecord from one raw source row. The raw
// row is carried along unmodified; every canonical field that cannot be
// resolved or parsed is left nil. Normalization never errors, a fully
// unresolvable row simply yields a record with all canonical fields nil.
func normalizeRow(jobID string, row map[string]string) *model.SubmittedRecord {
	record := &model.SubmittedRecord{
		JobID:   jobID,
		RawData: row,
	}
	if v := resolveField(row, "transactionId"); v != "" {
		record.TransactionID = &v
	}
	record.Amount = safeParseNumber(resolveField(row, "amount"))
	if v := resolveField(row, "referenceNumber"); v != "" {
		record.ReferenceNumber = &v
	}
	if v := resolveField(row, "date"); v != "" {
		record.Date = parseDate(v)
	}
	return record
}

// resolveField returns the trimmed value of the first matching alias for
// the given canonical field, or the empty string when no alias resolves.
func resolveField(row map[string]string, canonical string) string {
	for _, alias := range fieldAliases[canonical] {
		if v, ok := row[alias]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// safeParseNumber parses amounts that arrive with currency symbols,
// thousand separators or surrounding noise. Everything except digits,
// the decimal point and the minus sign is stripped before parsing.
// Values that still do not form a valid number yield nil.
func safeParseNumber(value string) *decimal.Decimal {
	if value == "" {
		return nil
	}
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &d
}

func parseDate(value string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
