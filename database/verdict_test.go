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
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconlabs/recon/internal/apierror"
	"github.com/reconlabs/recon/model"
)

func TestBulkUpsertVerdicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	verdicts := []*model.ReconciliationVerdict{
		{VerdictID: "vrd_1", RecordID: strPtr("rec_1"), JobID: "job_1", Status: model.VerdictMatched},
		{VerdictID: "vrd_2", RecordID: nil, JobID: "job_1", Status: model.VerdictDuplicate},
		{VerdictID: "vrd_3", RecordID: strPtr("rec_3"), JobID: "job_1", Status: model.VerdictPartiallyMatched, MismatchFields: []string{"amount"}},
	}

	mock.ExpectExec("INSERT INTO reconciliation_verdicts").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err = ds.BulkUpsertVerdicts(context.TODO(), verdicts)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertVerdicts_EmptyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	err = ds.BulkUpsertVerdicts(context.TODO(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVerdictByRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, verdict_id, record_id, job_id, status, mismatch_fields, created_at FROM reconciliation_verdicts").
		WithArgs("rec_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "verdict_id", "record_id", "job_id", "status", "mismatch_fields", "created_at"}).
			AddRow(1, "vrd_1", "rec_1", "job_1", model.VerdictPartiallyMatched, "{amount,transactionId}", time.Now()))

	v, err := ds.GetVerdictByRecord(context.TODO(), "rec_1")
	require.NoError(t, err)
	assert.Equal(t, model.VerdictPartiallyMatched, v.Status)
	assert.Equal(t, []string{"amount", "transactionId"}, v.MismatchFields)
}

func TestGetVerdictByRecord_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, verdict_id, record_id, job_id, status, mismatch_fields, created_at FROM reconciliation_verdicts").
		WithArgs("rec_missing").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetVerdictByRecord(context.TODO(), "rec_missing")
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))
}
