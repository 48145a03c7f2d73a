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
	"time"

	"github.com/reconlabs/recon/model"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

// RecordCorrection carries the fields a manual correction may change.
// Nil fields are left as they are on the record.
type RecordCorrection struct {
	TransactionID   *string
	Amount          *decimal.Decimal
	ReferenceNumber *string
	Date            *time.Time
}

func (c RecordCorrection) apply(record *model.SubmittedRecord) {
	if c.TransactionID != nil {
		record.TransactionID = c.TransactionID
	}
	if c.Amount != nil {
		record.Amount = c.Amount
	}
	if c.ReferenceNumber != nil {
		record.ReferenceNumber = c.ReferenceNumber
	}
	if c.Date != nil {
		record.Date = c.Date
	}
}

// CorrectRecord applies a manual correction to a submitted record, writes
// an audit entry capturing the before and after snapshots, and recomputes
// the record's verdict against the reference ledger. The updated record
// and its fresh verdict are returned.
func (s *Recon) CorrectRecord(ctx context.Context, recordID string, correction RecordCorrection, actorID *string) (*model.SubmittedRecord, *model.ReconciliationVerdict, error) {
	ctx, span := otel.Tracer("recon.correction").Start(ctx, "CorrectRecord")
	defer span.End()

	record, err := s.datasource.GetRecord(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}
	oldValue := record.Snapshot()

	correction.apply(record)
	if err := s.datasource.UpdateRecord(ctx, record); err != nil {
		return nil, nil, err
	}

	audit := &model.AuditEntry{
		AuditID:  model.GenerateUUIDWithSuffix("aud"),
		RecordID: &record.RecordID,
		ActorID:  actorID,
		OldValue: oldValue,
		NewValue: record.Snapshot(),
		Source:   model.SourceManualCorrection,
	}
	if err := s.datasource.BulkInsertAuditEntries(ctx, []*model.AuditEntry{audit}); err != nil {
		return nil, nil, err
	}

	engine := NewMatchEngine(s.datasource, s.matching)
	status, mismatch, err := engine.Classify(ctx, record)
	if err != nil {
		return nil, nil, err
	}
	verdict := &model.ReconciliationVerdict{
		VerdictID:      model.GenerateUUIDWithSuffix("vrd"),
		RecordID:       &record.RecordID,
		JobID:          record.JobID,
		Status:         status,
		MismatchFields: mismatch,
	}
	if err := s.datasource.BulkUpsertVerdicts(ctx, []*model.ReconciliationVerdict{verdict}); err != nil {
		return nil, nil, err
	}
	return record, verdict, nil
}
