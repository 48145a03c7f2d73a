package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/reconlabs/recon/model"
)

// BulkInsertAuditEntries appends audit entries for one batch. The audit table
// is insert-only: this is the only write path the datasource exposes, and a
// database trigger rejects any UPDATE or DELETE that reaches the table.
func (d Datasource) BulkInsertAuditEntries(ctx context.Context, entries []*model.AuditEntry) error {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Bulk inserting audit entries")
	defer span.End()

	if len(entries) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries)*7)
	for i, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		base := i * 7
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, e.AuditID, e.RecordID, e.ActorID, nullJSON(e.OldValue), []byte(e.NewValue), e.Source, e.CreatedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO audit_entries(audit_id, record_id, actor_id, old_value, new_value, source, created_at)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	_, err := d.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyError(err, "")
	}
	return nil
}

// GetAuditTrail returns the audit timeline of a record, newest first.
func (d Datasource) GetAuditTrail(ctx context.Context, recordID string) ([]*model.AuditEntry, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Fetching audit trail by record ID")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, audit_id, record_id, actor_id, old_value, new_value, source, created_at
		FROM audit_entries
		WHERE record_id = $1
		ORDER BY created_at DESC, id DESC
	`, recordID)
	if err != nil {
		return nil, classifyError(err, "")
	}
	defer rows.Close()

	var entries []*model.AuditEntry
	for rows.Next() {
		e := &model.AuditEntry{}
		var oldValue, newValue []byte
		err = rows.Scan(&e.ID, &e.AuditID, &e.RecordID, &e.ActorID, &oldValue, &newValue, &e.Source, &e.CreatedAt)
		if err != nil {
			return nil, classifyError(err, "")
		}
		e.OldValue = oldValue
		e.NewValue = newValue
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
