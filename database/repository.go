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

package database

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/reconlabs/recon/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	uploadJob // Interface for upload-job lifecycle operations
	record    // Interface for submitted-record operations
	verdict   // Interface for reconciliation-verdict operations
	audit     // Interface for audit-entry operations (insert-only)
	reference // Interface for reference-record lookups
}

// uploadJob defines methods for handling upload jobs.
type uploadJob interface {
	CreateUploadJob(ctx context.Context, job *model.UploadJob) (*model.UploadJob, bool, error) // Creates a job; returns the existing one (reused=true) on a file-hash collision
	GetUploadJob(ctx context.Context, jobID string) (*model.UploadJob, error)                  // Retrieves a job by ID
	UpdateUploadJobStatus(ctx context.Context, jobID, status string, totalRecords int) error   // Advances job status and row count
}

// record defines methods for handling submitted records.
type record interface {
	BulkInsertRecords(ctx context.Context, records []*model.SubmittedRecord) []error                          // Best-effort bulk insert; one error slot per input row, nil = inserted
	GetRecord(ctx context.Context, recordID string) (*model.SubmittedRecord, error)                           // Retrieves a record by ID
	UpdateRecord(ctx context.Context, record *model.SubmittedRecord) error                                    // Applies a manual correction to a record
	GetRecordsByJob(ctx context.Context, jobID string, limit int, offset int64) ([]*model.SubmittedRecord, error) // Lists records for a job, paginated
}

// verdict defines methods for handling reconciliation verdicts.
type verdict interface {
	BulkUpsertVerdicts(ctx context.Context, verdicts []*model.ReconciliationVerdict) error     // Upserts verdicts keyed by record id
	GetVerdictByRecord(ctx context.Context, recordID string) (*model.ReconciliationVerdict, error) // Retrieves the current verdict for a record
}

// audit defines methods for handling audit entries. Deliberately insert-only:
// no update or delete code path is exposed.
type audit interface {
	BulkInsertAuditEntries(ctx context.Context, entries []*model.AuditEntry) error
	GetAuditTrail(ctx context.Context, recordID string) ([]*model.AuditEntry, error) // Timeline for a record, newest first
}

// reference defines the read-only lookup capability against the system of
// record, plus the bulk load used by seeding.
type reference interface {
	FindByTransactionIDAndAmount(ctx context.Context, transactionID string, amount decimal.Decimal) (*model.ReferenceRecord, error)
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*model.ReferenceRecord, error)
	BulkInsertReferenceRecords(ctx context.Context, records []*model.ReferenceRecord) error
}
