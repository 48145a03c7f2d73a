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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reconlabs/recon/database/mocks"
	"github.com/reconlabs/recon/model"
)

func TestSeedReferenceRecords(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	service := newTestRecon(mockDS)

	var seeded []*model.ReferenceRecord
	mockDS.On("BulkInsertReferenceRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seeded = args.Get(1).([]*model.ReferenceRecord)
		}).Return(nil)

	var audits []*model.AuditEntry
	mockDS.On("BulkInsertAuditEntries", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audits = args.Get(1).([]*model.AuditEntry)
		}).Return(nil)

	records, err := service.SeedReferenceRecords(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 10)
	require.Len(t, seeded, 10)

	assert.Equal(t, "SYS1001", seeded[0].TransactionID)
	assert.Equal(t, "REF2001", seeded[0].ReferenceNumber)
	assert.Equal(t, "SYS1010", seeded[9].TransactionID)
	for _, rec := range seeded {
		assert.True(t, rec.Amount.IsPositive())
		assert.NotEmpty(t, rec.ReferenceID)
	}

	require.Len(t, audits, 10)
	for _, entry := range audits {
		assert.Equal(t, model.SourceSeed, entry.Source)
		assert.NotEmpty(t, entry.NewValue)
		assert.Nil(t, entry.RecordID)
	}
}
