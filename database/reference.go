package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/reconlabs/recon/model"
)

// FindByTransactionIDAndAmount looks up a reference record matching both the
// transaction identifier and the exact amount. Used by the exact-match rule.
func (d Datasource) FindByTransactionIDAndAmount(ctx context.Context, transactionID string, amount decimal.Decimal) (*model.ReferenceRecord, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Fetching reference record by transaction ID and amount")
	defer span.End()

	return d.scanReferenceRecord(ctx, `
		SELECT id, reference_id, transaction_id, amount, reference_number, date, created_at
		FROM reference_records
		WHERE transaction_id = $1 AND amount = $2
		ORDER BY id
		LIMIT 1
	`, transactionID, amount)
}

// FindByReferenceNumber looks up a reference record by reference number.
// When several share a number the lowest id wins, keeping the result
// deterministic for the partial-match rule.
func (d Datasource) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*model.ReferenceRecord, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Fetching reference record by reference number")
	defer span.End()

	return d.scanReferenceRecord(ctx, `
		SELECT id, reference_id, transaction_id, amount, reference_number, date, created_at
		FROM reference_records
		WHERE reference_number = $1
		ORDER BY id
		LIMIT 1
	`, referenceNumber)
}

func (d Datasource) scanReferenceRecord(ctx context.Context, query string, args ...interface{}) (*model.ReferenceRecord, error) {
	rec := &model.ReferenceRecord{}
	err := d.Conn.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID, &rec.ReferenceID, &rec.TransactionID, &rec.Amount,
		&rec.ReferenceNumber, &rec.Date, &rec.CreatedAt,
	)
	if err != nil {
		return nil, classifyError(err, "reference record not found")
	}
	return rec, nil
}

// BulkInsertReferenceRecords loads reference records in one statement. Only
// the seeding path writes to this table; the ingestion engine never does.
func (d Datasource) BulkInsertReferenceRecords(ctx context.Context, records []*model.ReferenceRecord) error {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Bulk inserting reference records")
	defer span.End()

	if len(records) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*6)
	for i, rec := range records {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		base := i * 6
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, rec.ReferenceID, rec.TransactionID, rec.Amount, rec.ReferenceNumber, rec.Date, rec.CreatedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO reference_records(reference_id, transaction_id, amount, reference_number, date, created_at)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	_, err := d.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyError(err, "")
	}
	return nil
}
