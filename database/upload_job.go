package database

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/reconlabs/recon/model"
)

// CreateUploadJob inserts a new upload job. When a job with the same file
// hash already exists the insert is a no-op and the existing job is returned
// with reused=true, so two concurrent uploads of an identical file always
// resolve to one job.
func (d Datasource) CreateUploadJob(ctx context.Context, job *model.UploadJob) (*model.UploadJob, bool, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Saving upload job to db")
	defer span.End()

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO upload_jobs(job_id, file_name, file_hash, status, total_records, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (file_hash) DO NOTHING
		RETURNING id
	`, job.JobID, job.FileName, job.FileHash, job.Status, job.TotalRecords, job.UploadedBy, job.CreatedAt).Scan(&job.ID)

	if err == sql.ErrNoRows {
		// Hash collision with an earlier upload; surface that job instead.
		existing, lookupErr := d.getUploadJobByHash(ctx, job.FileHash)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		return existing, true, nil
	}
	if err != nil {
		return nil, false, classifyError(err, "upload job could not be created")
	}

	return job, false, nil
}

// GetUploadJob retrieves an upload job by its ID.
func (d Datasource) GetUploadJob(ctx context.Context, jobID string) (*model.UploadJob, error) {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Fetching upload job from db")
	defer span.End()

	return d.scanUploadJob(d.Conn.QueryRowContext(ctx, `
		SELECT id, job_id, file_name, file_hash, status, total_records, uploaded_by, created_at
		FROM upload_jobs
		WHERE job_id = $1
	`, jobID))
}

func (d Datasource) getUploadJobByHash(ctx context.Context, fileHash string) (*model.UploadJob, error) {
	return d.scanUploadJob(d.Conn.QueryRowContext(ctx, `
		SELECT id, job_id, file_name, file_hash, status, total_records, uploaded_by, created_at
		FROM upload_jobs
		WHERE file_hash = $1
	`, fileHash))
}

func (d Datasource) scanUploadJob(row *sql.Row) (*model.UploadJob, error) {
	job := &model.UploadJob{}
	var uploadedBy sql.NullString
	err := row.Scan(
		&job.ID, &job.JobID, &job.FileName, &job.FileHash,
		&job.Status, &job.TotalRecords, &uploadedBy, &job.CreatedAt,
	)
	if err != nil {
		return nil, classifyError(err, "upload job not found")
	}
	if uploadedBy.Valid {
		job.UploadedBy = &uploadedBy.String
	}
	return job, nil
}

// UpdateUploadJobStatus advances a job's lifecycle status and row count.
// Terminal states are never overwritten.
func (d Datasource) UpdateUploadJobStatus(ctx context.Context, jobID, status string, totalRecords int) error {
	ctx, span := otel.Tracer("recon.database").Start(ctx, "Updating upload job status")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		UPDATE upload_jobs
		SET status = $2, total_records = $3
		WHERE job_id = $1 AND status = 'processing'
	`, jobID, status, totalRecords)
	if err != nil {
		return classifyError(err, "upload job not found")
	}
	return nil
}
