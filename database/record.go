package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/reconlabs/recon/model"
)

// BulkInsertRecords inserts submitted records best-effort: each row is
// attempted independently and a failure is reported in the corresponding slot
// of the returned slice without blocking the rest of the batch.
func (d Datasource) BulkInsertRecords(ctx context.Context, records []*model.SubmittedRecord) []error {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Bulk inserting submitted records")
	defer span.End()

	errs := make([]error, len(records))
	for i, rec := range records {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		rawData, err := json.Marshal(rec.RawData)
		if err != nil {
			errs[i] = classifyError(err, "")
			continue
		}
		_, err = d.Conn.ExecContext(ctx, `
			INSERT INTO submitted_records(record_id, job_id, transaction_id, amount, reference_number, date, raw_data, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, rec.RecordID, rec.JobID, rec.TransactionID, nullDecimal(rec.Amount), rec.ReferenceNumber, rec.Date, rawData, rec.CreatedAt)
		if err != nil {
			errs[i] = classifyError(err, "")
		}
	}
	return errs
}

// GetRecord retrieves a submitted record by its ID.
func (d Datasource) GetRecord(ctx context.Context, recordID string) (*model.SubmittedRecord, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Fetching submitted record from db")
	defer span.End()

	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, record_id, job_id, transaction_id, amount, reference_number, date, raw_data, created_at
		FROM submitted_records
		WHERE record_id = $1
	`, recordID)
	return scanSubmittedRecord(row.Scan)
}

// UpdateRecord persists a manual correction to a record's reconciliation
// fields. The raw payload is never rewritten.
func (d Datasource) UpdateRecord(ctx context.Context, rec *model.SubmittedRecord) error {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Updating submitted record")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		UPDATE submitted_records
		SET transaction_id = $2, amount = $3, reference_number = $4, date = $5
		WHERE record_id = $1
	`, rec.RecordID, rec.TransactionID, nullDecimal(rec.Amount), rec.ReferenceNumber, rec.Date)
	if err != nil {
		return classifyError(err, "submitted record not found")
	}
	return nil
}

// GetRecordsByJob lists the records of one upload job in insertion order.
func (d Datasource) GetRecordsByJob(ctx context.Context, jobID string, limit int, offset int64) ([]*model.SubmittedRecord, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Fetching submitted records by job ID")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, record_id, job_id, transaction_id, amount, reference_number, date, raw_data, created_at
		FROM submitted_records
		WHERE job_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, jobID, limit, offset)
	if err != nil {
		return nil, classifyError(err, "")
	}
	defer rows.Close()

	var records []*model.SubmittedRecord
	for rows.Next() {
		rec, err := scanSubmittedRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanSubmittedRecord(scan func(dest ...interface{}) error) (*model.SubmittedRecord, error) {
	rec := &model.SubmittedRecord{}
	var (
		txnID   sql.NullString
		amount  decimal.NullDecimal
		refNum  sql.NullString
		date    sql.NullTime
		rawData []byte
	)
	err := scan(&rec.ID, &rec.RecordID, &rec.JobID, &txnID, &amount, &refNum, &date, &rawData, &rec.CreatedAt)
	if err != nil {
		return nil, classifyError(err, "submitted record not found")
	}
	if txnID.Valid {
		rec.TransactionID = &txnID.String
	}
	if amount.Valid {
		rec.Amount = &amount.Decimal
	}
	if refNum.Valid {
		rec.ReferenceNumber = &refNum.String
	}
	if date.Valid {
		rec.Date = &date.Time
	}
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &rec.RawData); err != nil {
			return nil, classifyError(err, "")
		}
	}
	return rec, nil
}

// nullDecimal adapts a nullable decimal for use as a query argument.
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
