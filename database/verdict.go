package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/reconlabs/recon/model"
)

// BulkUpsertVerdicts writes the verdicts for one flush batch in a single
// statement. Verdicts are keyed by record id, so a recomputed verdict for a
// corrected record replaces the previous one; verdicts with no record id
// (duplicates, failed inserts) are always appended.
func (d Datasource) BulkUpsertVerdicts(ctx context.Context, verdicts []*model.ReconciliationVerdict) error {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Bulk upserting verdicts")
	defer span.End()

	if len(verdicts) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(verdicts))
	args := make([]interface{}, 0, len(verdicts)*6)
	for i, v := range verdicts {
		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now()
		}
		base := i * 6
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, v.VerdictID, v.RecordID, v.JobID, v.Status, pq.Array(v.MismatchFields), v.CreatedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO reconciliation_verdicts(verdict_id, record_id, job_id, status, mismatch_fields, created_at)
		VALUES %s
		ON CONFLICT (record_id) WHERE record_id IS NOT NULL
		DO UPDATE SET status = EXCLUDED.status, mismatch_fields = EXCLUDED.mismatch_fields
	`, strings.Join(placeholders, ", "))

	_, err := d.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyError(err, "")
	}
	return nil
}

// GetVerdictByRecord retrieves the current verdict for a record.
func (d Datasource) GetVerdictByRecord(ctx context.Context, recordID string) (*model.ReconciliationVerdict, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Fetching verdict by record ID")
	defer span.End()

	v := &model.ReconciliationVerdict{}
	var mismatch pq.StringArray
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, verdict_id, record_id, job_id, status, mismatch_fields, created_at
		FROM reconciliation_verdicts
		WHERE record_id = $1
	`, recordID).Scan(&v.ID, &v.VerdictID, &v.RecordID, &v.JobID, &v.Status, &mismatch, &v.CreatedAt)
	if err != nil {
		return nil, classifyError(err, "verdict not found")
	}
	v.MismatchFields = []string(mismatch)
	return v, nil
}
