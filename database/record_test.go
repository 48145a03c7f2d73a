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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconlabs/recon/internal/apierror"
	"github.com/reconlabs/recon/model"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBulkInsertRecords_PartialFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()

	records := []*model.SubmittedRecord{
		{RecordID: "rec_1", JobID: "job_1", TransactionID: strPtr("SYS1001"), Amount: decPtr("100")},
		{RecordID: "rec_2", JobID: "job_1", TransactionID: strPtr("SYS1002"), Amount: decPtr("200")},
		{RecordID: "rec_3", JobID: "job_1", TransactionID: strPtr("SYS1003"), Amount: decPtr("300")},
	}

	mock.ExpectExec("INSERT INTO submitted_records").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO submitted_records").WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})
	mock.ExpectExec("INSERT INTO submitted_records").WillReturnResult(sqlmock.NewResult(3, 1))

	errs := ds.BulkInsertRecords(ctx, records)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	require.Error(t, errs[1])
	assert.True(t, apierror.IsCode(errs[1], apierror.ErrConflict))
	assert.NoError(t, errs[2], "a failed row must not stop the rest of the batch")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecord_NullableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, record_id, job_id, transaction_id, amount, reference_number, date, raw_data, created_at FROM submitted_records").
		WithArgs("rec_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "record_id", "job_id", "transaction_id", "amount", "reference_number", "date", "raw_data", "created_at"}).
			AddRow(1, "rec_1", "job_1", nil, nil, nil, nil, []byte(`{"amount":"oops"}`), time.Now()))

	rec, err := ds.GetRecord(context.TODO(), "rec_1")
	require.NoError(t, err)
	assert.Nil(t, rec.TransactionID)
	assert.Nil(t, rec.Amount)
	assert.Nil(t, rec.ReferenceNumber)
	assert.Nil(t, rec.Date)
	assert.Equal(t, map[string]string{"amount": "oops"}, rec.RawData)
}

func TestUpdateRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE submitted_records").
		WithArgs("rec_1", "SYS1001", sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.UpdateRecord(context.TODO(), &model.SubmittedRecord{
		RecordID:      "rec_1",
		TransactionID: strPtr("SYS1001"),
		Amount:        decPtr("150"),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecordsByJob_Pagination(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, record_id, job_id, transaction_id, amount, reference_number, date, raw_data, created_at FROM submitted_records WHERE job_id").
		WithArgs("job_1", 2, int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "record_id", "job_id", "transaction_id", "amount", "reference_number", "date", "raw_data", "created_at"}).
			AddRow(5, "rec_5", "job_1", "SYS1005", "100.5", "REF2005", time.Now(), []byte(`{}`), time.Now()).
			AddRow(6, "rec_6", "job_1", "SYS1006", "200", "REF2006", time.Now(), []byte(`{}`), time.Now()))

	records, err := ds.GetRecordsByJob(context.TODO(), "job_1", 2, 4)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec_5", records[0].RecordID)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("100.5")))
}
