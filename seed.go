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
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/reconlabs/recon/model"
	"github.com/shopspring/decimal"
)

// SeedReferenceRecords loads count synthetic records into the reference
// ledger for demos and local development. Transaction ids and reference
// numbers follow the SYS1001/REF2001 numbering so seeded upload fixtures
// can target them deterministically; amounts and dates are randomized.
// Each seeded record gets an audit entry so the trail explains where the
// data came from.
func (s *Recon) SeedReferenceRecords(ctx context.Context, count int) ([]*model.ReferenceRecord, error) {
	records := make([]*model.ReferenceRecord, 0, count)
	audits := make([]*model.AuditEntry, 0, count)
	for i := 1; i <= count; i++ {
		record := &model.ReferenceRecord{
			ReferenceID:     model.GenerateUUIDWithSuffix("ref"),
			TransactionID:   fmt.Sprintf("SYS%d", 1000+i),
			Amount:          decimal.NewFromFloat(gofakeit.Price(1, 10000)).Round(2),
			ReferenceNumber: fmt.Sprintf("REF%d", 2000+i),
			Date:            gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}
		records = append(records, record)
		audits = append(audits, &model.AuditEntry{
			AuditID:  model.GenerateUUIDWithSuffix("aud"),
			NewValue: mustJSON(record),
			Source:   model.SourceSeed,
		})
	}
	if err := s.datasource.BulkInsertReferenceRecords(ctx, records); err != nil {
		return nil, err
	}
	if err := s.datasource.BulkInsertAuditEntries(ctx, audits); err != nil {
		return nil, err
	}
	return records, nil
}

func mustJSON(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
