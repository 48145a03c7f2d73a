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
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconlabs/recon/internal/apierror"
	"github.com/reconlabs/recon/model"
)

func TestBulkInsertAuditEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	entries := []*model.AuditEntry{
		{
			AuditID:  "aud_1",
			RecordID: strPtr("rec_1"),
			NewValue: json.RawMessage(`{"transaction_id":"SYS1001"}`),
			Source:   model.SourceUpload,
		},
		{
			AuditID:  "aud_2",
			RecordID: strPtr("rec_1"),
			ActorID:  strPtr("usr_1"),
			OldValue: json.RawMessage(`{"amount":"100"}`),
			NewValue: json.RawMessage(`{"amount":"150"}`),
			Source:   model.SourceManualCorrection,
		},
	}

	mock.ExpectExec("INSERT INTO audit_entries").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = ds.BulkInsertAuditEntries(context.TODO(), entries)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsertAuditEntries_ImmutableViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	// The trigger's error message is classified onto the immutability code.
	mock.ExpectExec("INSERT INTO audit_entries").
		WillReturnError(&pq.Error{Message: "audit entries are immutable"})

	err = ds.BulkInsertAuditEntries(context.TODO(), []*model.AuditEntry{
		{AuditID: "aud_1", NewValue: json.RawMessage(`{}`), Source: model.SourceSeed},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.ErrImmutable))
}

func TestGetAuditTrail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	now := time.Now()

	mock.ExpectQuery("SELECT id, audit_id, record_id, actor_id, old_value, new_value, source, created_at FROM audit_entries").
		WithArgs("rec_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "audit_id", "record_id", "actor_id", "old_value", "new_value", "source", "created_at"}).
			AddRow(2, "aud_2", "rec_1", "usr_1", []byte(`{"amount":"100"}`), []byte(`{"amount":"150"}`), model.SourceManualCorrection, now).
			AddRow(1, "aud_1", "rec_1", nil, nil, []byte(`{"amount":"100"}`), model.SourceUpload, now.Add(-time.Hour)))

	entries, err := ds.GetAuditTrail(context.TODO(), "rec_1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, model.SourceManualCorrection, entries[0].Source)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, "usr_1", *entries[0].ActorID)

	assert.Equal(t, model.SourceUpload, entries[1].Source)
	assert.Nil(t, entries[1].ActorID)
	assert.Nil(t, entries[1].OldValue)
}
