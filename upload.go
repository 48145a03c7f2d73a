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
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/reconlabs/recon/config"
	"github.com/reconlabs/recon/model"
	"github.com/sirupsen/logrus"
)

// AcceptUpload spools the uploaded content to the configured upload
// directory, hashing it on the way, and registers a processing job keyed
// by content hash. Re-uploading identical content never creates a second
// job: the existing job is returned with reused=true and the spooled copy
// is discarded. For a fresh job the returned path points at the spooled
// file that ingestion should read.
func (s *Recon) AcceptUpload(ctx context.Context, fileName string, content io.Reader, uploadedBy *string) (*model.UploadJob, string, bool, error) {
	conf, err := config.Fetch()
	if err != nil {
		return nil, "", false, err
	}
	if err := os.MkdirAll(conf.UploadDir, 0o755); err != nil {
		return nil, "", false, errors.Wrap(err, "creating upload directory")
	}

	tmp, err := os.CreateTemp(conf.UploadDir, "upload-*")
	if err != nil {
		return nil, "", false, errors.Wrap(err, "spooling upload")
	}
	hasher := sha256.New()
	_, copyErr := io.Copy(io.MultiWriter(tmp, hasher), content)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmp.Name())
		if copyErr != nil {
			return nil, "", false, errors.Wrap(copyErr, "spooling upload")
		}
		return nil, "", false, errors.Wrap(closeErr, "spooling upload")
	}

	job := &model.UploadJob{
		JobID:      model.GenerateUUIDWithSuffix("job"),
		FileName:   fileName,
		FileHash:   hex.EncodeToString(hasher.Sum(nil)),
		Status:     model.JobStatusProcessing,
		UploadedBy: uploadedBy,
	}
	created, reused, err := s.datasource.CreateUploadJob(ctx, job)
	if err != nil {
		os.Remove(tmp.Name())
		return nil, "", false, err
	}
	if reused {
		os.Remove(tmp.Name())
		logrus.WithFields(logrus.Fields{"job_id": created.JobID, "file_hash": created.FileHash}).
			Info("duplicate upload, returning existing job")
		return created, "", true, nil
	}

	// Stable, extension-preserving path so the worker can pick the parser.
	finalPath := filepath.Join(conf.UploadDir, created.JobID+filepath.Ext(fileName))
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		os.Remove(tmp.Name())
		return nil, "", false, errors.Wrap(err, "placing upload file")
	}
	return created, finalPath, false, nil
}

// QueueIngestion hands an accepted upload to the background workers.
func (s *Recon) QueueIngestion(job *model.UploadJob, filePath string, actor *string) error {
	if s.queue == nil {
		return errors.New("background queue is not configured")
	}
	return s.queue.queueIngestion(IngestionTaskPayload{
		JobID:    job.JobID,
		FilePath: filePath,
		Uploader: actor,
	})
}
