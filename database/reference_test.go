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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconlabs/recon/internal/apierror"
	"github.com/reconlabs/recon/model"
)

func TestFindByTransactionIDAndAmount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, reference_id, transaction_id, amount, reference_number, date, created_at FROM reference_records WHERE transaction_id").
		WithArgs("SYS1001", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference_id", "transaction_id", "amount", "reference_number", "date", "created_at"}).
			AddRow(1, "ref_1", "SYS1001", "100.00", "REF2001", time.Now(), time.Now()))

	rec, err := ds.FindByTransactionIDAndAmount(context.TODO(), "SYS1001", decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	assert.Equal(t, "SYS1001", rec.TransactionID)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("100")))
}

func TestFindByReferenceNumber_Miss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, reference_id, transaction_id, amount, reference_number, date, created_at FROM reference_records WHERE reference_number").
		WithArgs("REF9999").
		WillReturnError(sql.ErrNoRows)

	_, err = ds.FindByReferenceNumber(context.TODO(), "REF9999")
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound), "a miss must be distinguishable from an outage")
}

func TestBulkInsertReferenceRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	records := []*model.ReferenceRecord{
		{ReferenceID: "ref_1", TransactionID: "SYS1001", Amount: decimal.RequireFromString("100"), ReferenceNumber: "REF2001", Date: time.Now()},
		{ReferenceID: "ref_2", TransactionID: "SYS1002", Amount: decimal.RequireFromString("200"), ReferenceNumber: "REF2002", Date: time.Now()},
	}

	mock.ExpectExec("INSERT INTO reference_records").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = ds.BulkInsertReferenceRecords(context.TODO(), records)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
