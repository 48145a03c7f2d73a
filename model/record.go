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
package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// UploadJob identifies one file-ingestion run. Jobs are keyed by the SHA-256
// hash of the file content, so re-submitting a byte-identical file resolves
// to the existing job.
type UploadJob struct {
	ID           int64     `json:"-"`
	JobID        string    `json:"job_id"`
	FileName     string    `json:"file_name"`
	FileHash     string    `json:"file_hash"`
	Status       string    `json:"status"`
	TotalRecords int       `json:"total_records"`
	UploadedBy   *string   `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmittedRecord is one normalized row parsed from an uploaded file. All
// reconciliation fields are nullable; the raw row is kept verbatim for audit.
type SubmittedRecord struct {
	ID              int64             `json:"-"`
	RecordID        string            `json:"record_id"`
	JobID           string            `json:"job_id"`
	TransactionID   *string           `json:"transaction_id"`
	Amount          *decimal.Decimal  `json:"amount"`
	ReferenceNumber *string           `json:"reference_number"`
	Date            *time.Time        `json:"date"`
	RawData         map[string]string `json:"raw_data"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ReferenceRecord is an authoritative transaction from the system of record.
// The ingestion engine only ever reads these.
type ReferenceRecord struct {
	ID              int64           `json:"-"`
	ReferenceID     string          `json:"reference_id"`
	TransactionID   string          `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"reference_number"`
	Date            time.Time       `json:"date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReconciliationVerdict is the classification of one submitted record.
// RecordID is nil when the record insert failed or was skipped as a duplicate.
type ReconciliationVerdict struct {
	ID             int64     `json:"-"`
	VerdictID      string    `json:"verdict_id"`
	RecordID       *string   `json:"record_id"`
	JobID          string    `json:"job_id"`
	Status         string    `json:"status"`
	MismatchFields []string  `json:"mismatch_fields"`
	CreatedAt      time.Time `json:"created_at"`
}

// AuditEntry is an immutable before/after snapshot tied to a record. Entries
// are insert-only; the persistence layer rejects any mutation.
type AuditEntry struct {
	ID        int64           `json:"-"`
	AuditID   string          `json:"audit_id"`
	RecordID  *string         `json:"record_id"`
	ActorID   *string         `json:"actor_id"`
	OldValue  json.RawMessage `json:"old_value"`
	NewValue  json.RawMessage `json:"new_value"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

// DedupKey returns the key used for duplicate detection: the transaction
// identifier when present, otherwise a deterministic serialization of the raw
// payload (encoding/json sorts map keys).
func (r *SubmittedRecord) DedupKey() string {
	if r.TransactionID != nil && *r.TransactionID != "" {
		return *r.TransactionID
	}
	raw, err := json.Marshal(r.RawData)
	if err != nil {
		return ""
	}
	return string(raw)
}

// Snapshot serializes the record's current state for use as an audit value.
func (r *SubmittedRecord) Snapshot() json.RawMessage {
	raw, err := json.Marshal(r)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}
