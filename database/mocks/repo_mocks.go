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
package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/reconlabs/recon/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Upload job methods

func (m *MockDataSource) CreateUploadJob(ctx context.Context, job *model.UploadJob) (*model.UploadJob, bool, error) {
	args := m.Called(ctx, job)
	var created *model.UploadJob
	if args.Get(0) != nil {
		created = args.Get(0).(*model.UploadJob)
	}
	return created, args.Bool(1), args.Error(2)
}

func (m *MockDataSource) GetUploadJob(ctx context.Context, jobID string) (*model.UploadJob, error) {
	args := m.Called(ctx, jobID)
	var job *model.UploadJob
	if args.Get(0) != nil {
		job = args.Get(0).(*model.UploadJob)
	}
	return job, args.Error(1)
}

func (m *MockDataSource) UpdateUploadJobStatus(ctx context.Context, jobID, status string, totalRecords int) error {
	args := m.Called(ctx, jobID, status, totalRecords)
	return args.Error(0)
}

// Submitted record methods

func (m *MockDataSource) BulkInsertRecords(ctx context.Context, records []*model.SubmittedRecord) []error {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return make([]error, len(records))
	}
	return args.Get(0).([]error)
}

func (m *MockDataSource) GetRecord(ctx context.Context, recordID string) (*model.SubmittedRecord, error) {
	args := m.Called(ctx, recordID)
	var rec *model.SubmittedRecord
	if args.Get(0) != nil {
		rec = args.Get(0).(*model.SubmittedRecord)
	}
	return rec, args.Error(1)
}

func (m *MockDataSource) UpdateRecord(ctx context.Context, record *model.SubmittedRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDataSource) GetRecordsByJob(ctx context.Context, jobID string, limit int, offset int64) ([]*model.SubmittedRecord, error) {
	args := m.Called(ctx, jobID, limit, offset)
	var records []*model.SubmittedRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]*model.SubmittedRecord)
	}
	return records, args.Error(1)
}

// Verdict methods

func (m *MockDataSource) BulkUpsertVerdicts(ctx context.Context, verdicts []*model.ReconciliationVerdict) error {
	args := m.Called(ctx, verdicts)
	return args.Error(0)
}

func (m *MockDataSource) GetVerdictByRecord(ctx context.Context, recordID string) (*model.ReconciliationVerdict, error) {
	args := m.Called(ctx, recordID)
	var v *model.ReconciliationVerdict
	if args.Get(0) != nil {
		v = args.Get(0).(*model.ReconciliationVerdict)
	}
	return v, args.Error(1)
}

// Audit methods

func (m *MockDataSource) BulkInsertAuditEntries(ctx context.Context, entries []*model.AuditEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockDataSource) GetAuditTrail(ctx context.Context, recordID string) ([]*model.AuditEntry, error) {
	args := m.Called(ctx, recordID)
	var entries []*model.AuditEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]*model.AuditEntry)
	}
	return entries, args.Error(1)
}

// Reference methods

func (m *MockDataSource) FindByTransactionIDAndAmount(ctx context.Context, transactionID string, amount decimal.Decimal) (*model.ReferenceRecord, error) {
	args := m.Called(ctx, transactionID, amount)
	var rec *model.ReferenceRecord
	if args.Get(0) != nil {
		rec = args.Get(0).(*model.ReferenceRecord)
	}
	return rec, args.Error(1)
}

func (m *MockDataSource) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*model.ReferenceRecord, error) {
	args := m.Called(ctx, referenceNumber)
	var rec *model.ReferenceRecord
	if args.Get(0) != nil {
		rec = args.Get(0).(*model.ReferenceRecord)
	}
	return rec, args.Error(1)
}

func (m *MockDataSource) BulkInsertReferenceRecords(ctx context.Context, records []*model.ReferenceRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
