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

	"github.com/reconlabs/recon/model"
	"github.com/sirupsen/logrus"
)

// dedupIndex tracks the dedup keys seen during one ingestion run. A key
// persists across batch flushes within the run, so a duplicate is caught
// even when its first occurrence landed in an earlier batch. The index
// never crosses job boundaries.
type dedupIndex map[string]struct{}

// observe records the key and reports whether it was already present.
func (d dedupIndex) observe(record *model.SubmittedRecord) bool {
	key := record.DedupKey()
	if _, ok := d[key]; ok {
		return true
	}
	d[key] = struct{}{}
	return false
}

// flushBatch drives one batch through the pipeline: duplicate detection,
// classification, record persistence, then verdicts, then audit entries.
// Write ordering is fixed so that verdicts and audits never precede the
// records they describe. Row-level insert failures are isolated: the row
// keeps its engine verdict with a nil record id and the batch continues.
// Verdict or audit write failures abort the run.
func (s *Recon) flushBatch(ctx context.Context, job *model.UploadJob, actor *string, engine *MatchEngine, seen dedupIndex, batch []*model.SubmittedRecord) error {
	if len(batch) == 0 {
		return nil
	}

	duplicate := make([]bool, len(batch))
	var inserts []*model.SubmittedRecord
	for i, record := range batch {
		if seen.observe(record) {
			duplicate[i] = true
			continue
		}
		record.RecordID = model.GenerateUUIDWithSuffix("rec")
		inserts = append(inserts, record)
	}

	insertErrs := s.datasource.BulkInsertRecords(ctx, inserts)
	failed := make(map[string]bool)
	for i, err := range insertErrs {
		if err != nil {
			failed[inserts[i].RecordID] = true
			logrus.WithFields(logrus.Fields{
				"job_id":    job.JobID,
				"record_id": inserts[i].RecordID,
			}).Warnf("record insert failed, continuing batch: %v", err)
		}
	}

	verdicts := make([]*model.ReconciliationVerdict, 0, len(batch))
	audits := make([]*model.AuditEntry, 0, len(batch))
	for i, record := range batch {
		status := model.VerdictDuplicate
		var mismatch []string
		if !duplicate[i] {
			var err error
			status, mismatch, err = engine.Classify(ctx, record)
			if err != nil {
				return err
			}
		}

		var recordID *string
		if !duplicate[i] && !failed[record.RecordID] {
			id := record.RecordID
			recordID = &id
		}
		verdicts = append(verdicts, &model.ReconciliationVerdict{
			VerdictID:      model.GenerateUUIDWithSuffix("vrd"),
			RecordID:       recordID,
			JobID:          job.JobID,
			Status:         status,
			MismatchFields: mismatch,
		})
		audits = append(audits, &model.AuditEntry{
			AuditID:  model.GenerateUUIDWithSuffix("aud"),
			RecordID: recordID,
			ActorID:  actor,
			OldValue: nil,
			NewValue: record.Snapshot(),
			Source:   model.SourceUpload,
		})
	}

	if err := s.datasource.BulkUpsertVerdicts(ctx, verdicts); err != nil {
		return err
	}
	return s.datasource.BulkInsertAuditEntries(ctx, audits)
}
