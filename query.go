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
)

// GetUploadJob returns a job by its id.
func (s *Recon) GetUploadJob(ctx context.Context, jobID string) (*model.UploadJob, error) {
	return s.datasource.GetUploadJob(ctx, jobID)
}

// GetRecord returns a submitted record by its id.
func (s *Recon) GetRecord(ctx context.Context, recordID string) (*model.SubmittedRecord, error) {
	return s.datasource.GetRecord(ctx, recordID)
}

// GetRecordsByJob pages through the records of one job in insertion order.
func (s *Recon) GetRecordsByJob(ctx context.Context, jobID string, limit int, offset int64) ([]*model.SubmittedRecord, error) {
	return s.datasource.GetRecordsByJob(ctx, jobID, limit, offset)
}

// GetVerdictByRecord returns the current verdict of a record.
func (s *Recon) GetVerdictByRecord(ctx context.Context, recordID string) (*model.ReconciliationVerdict, error) {
	return s.datasource.GetVerdictByRecord(ctx, recordID)
}

// GetAuditTrail returns the audit timeline of a record, newest first.
func (s *Recon) GetAuditTrail(ctx context.Context, recordID string) ([]*model.AuditEntry, error) {
	return s.datasource.GetAuditTrail(ctx, recordID)
}
