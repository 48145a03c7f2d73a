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
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/reconlabs/recon/internal/notification"
	"github.com/reconlabs/recon/model"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
)

// ingestionRun holds the rolling state of one file's pass through the
// pipeline. Rows from all supported formats funnel through appendRow, so
// batching and duplicate tracking behave identically regardless of source
// format.
type ingestionRun struct {
	job    *model.UploadJob
	actor  *string
	engine *MatchEngine
	seen   dedupIndex
	batch  []*model.SubmittedRecord
	total  int
}

// ProcessUploadJob runs the ingestion pipeline for a previously accepted
// upload. The file format is picked by extension. On success the job
// moves to completed with the total row count; any pipeline failure moves
// it to failed on a best-effort basis and the original error is returned.
// A job already in a terminal state is left untouched.
func (s *Recon) ProcessUploadJob(ctx context.Context, jobID, filePath string, actor *string) error {
	ctx, span := otel.Tracer("recon.ingestion").Start(ctx, "ProcessUploadJob")
	defer span.End()

	job, err := s.datasource.GetUploadJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != model.JobStatusProcessing {
		logrus.WithFields(logrus.Fields{"job_id": jobID, "status": job.Status}).
			Info("job already finished, skipping ingestion")
		return nil
	}

	run := &ingestionRun{
		job:    job,
		actor:  actor,
		engine: NewMatchEngine(s.datasource, s.matching),
		seen:   make(dedupIndex),
	}

	if err := s.ingestFile(ctx, run, filePath); err != nil {
		s.failJob(ctx, job, err)
		return err
	}
	if err := s.flushBatch(ctx, job, actor, run.engine, run.seen, run.batch); err != nil {
		s.failJob(ctx, job, err)
		return err
	}
	return s.datasource.UpdateUploadJobStatus(ctx, jobID, model.JobStatusCompleted, run.total)
}

func (s *Recon) ingestFile(ctx context.Context, run *ingestionRun, filePath string) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv", ".txt":
		return s.ingestCSV(ctx, run, filePath)
	case ".xlsx", ".xls":
		return s.ingestXLSX(ctx, run, filePath)
	default:
		return errors.Errorf("unsupported file format %q", filepath.Ext(filePath))
	}
}

// ingestCSV streams the file row by row; only one batch of normalized
// records is held in memory at a time. Malformed rows are tolerated by
// disabling the per-record field count check.
func (s *Recon) ingestCSV(ctx context.Context, run *ingestionRun, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return errors.Wrap(err, "opening upload file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return errors.Wrap(err, "reading header row")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			logrus.WithField("job_id", run.job.JobID).Warnf("skipping malformed row: %v", err)
			continue
		}
		if err := s.appendRow(ctx, run, rowToMap(headers, row)); err != nil {
			return err
		}
	}
}

// ingestXLSX reads the first worksheet of the workbook in full. Cell
// values arrive as formatted strings and go through the same
// normalization as CSV fields.
func (s *Recon) ingestXLSX(ctx context.Context, run *ingestionRun, filePath string) error {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return errors.New("workbook has no worksheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return errors.Wrap(err, "reading worksheet")
	}
	if len(rows) == 0 {
		return nil
	}

	headers := rows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for _, row := range rows[1:] {
		if err := s.appendRow(ctx, run, rowToMap(headers, row)); err != nil {
			return err
		}
	}
	return nil
}

// appendRow normalizes one source row into the current batch and flushes
// when the batch is full. Cancellation is honored at flush boundaries.
func (s *Recon) appendRow(ctx context.Context, run *ingestionRun, row map[string]string) error {
	run.batch = append(run.batch, normalizeRow(run.job.JobID, row))
	run.total++
	if len(run.batch) < s.matching.BatchSize {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.flushBatch(ctx, run.job, run.actor, run.engine, run.seen, run.batch); err != nil {
		return err
	}
	run.batch = run.batch[:0]
	return nil
}

func rowToMap(headers, row []string) map[string]string {
	m := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(row) {
			m[h] = row[i]
		}
	}
	return m
}

// failJob moves the job to failed and reports the cause. The status
// update is best effort: a job that cannot be marked failed is logged,
// the original pipeline error still propagates to the caller.
func (s *Recon) failJob(ctx context.Context, job *model.UploadJob, cause error) {
	notification.NotifyError(errors.Wrapf(cause, "ingestion failed for job %s", job.JobID))
	if err := s.datasource.UpdateUploadJobStatus(ctx, job.JobID, model.JobStatusFailed, 0); err != nil {
		logrus.WithField("job_id", job.JobID).Errorf("failed to mark job failed: %v", err)
	}
}
