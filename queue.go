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
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/reconlabs/recon/config"
	redis_db "github.com/reconlabs/recon/internal/redis-db"
	"github.com/sirupsen/logrus"
)

// Queue dispatches ingestion work to background workers over Redis.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// IngestionTaskPayload is the wire form of one queued ingestion job.
type IngestionTaskPayload struct {
	JobID    string  `json:"job_id"`
	FilePath string  `json:"file_path"`
	Uploader *string `json:"uploader,omitempty"`
}

// NewQueue initializes the task queue from the Redis configuration.
func NewQueue(conf *config.Configuration) (*Queue, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, errors.Wrap(err, "parsing Redis URL")
	}
	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	return &Queue{
		Client:    asynq.NewClient(queueOptions),
		Inspector: asynq.NewInspector(queueOptions),
	}, nil
}

// queueIngestion enqueues one ingestion task. The task id is the job id,
// so re-enqueueing the same job while it is still pending is a no-op at
// the queue level.
func (q *Queue) queueIngestion(payload IngestionTaskPayload) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(cfg.Queue.IngestionQueue, payloadBytes)
	info, err := q.Client.Enqueue(task,
		asynq.TaskID(payload.JobID),
		asynq.Queue(cfg.Queue.IngestionQueue),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logrus.WithField("job_id", payload.JobID).Info("ingestion already queued")
			return nil
		}
		return err
	}
	logrus.WithFields(logrus.Fields{"task_id": info.ID, "queue": info.Queue}).
		Info("queued ingestion task")
	return nil
}

// HandleIngestionTask is the asynq handler wired into the worker mux. It
// decodes the payload and runs the ingestion pipeline synchronously.
func (s *Recon) HandleIngestionTask(ctx context.Context, t *asynq.Task) error {
	var payload IngestionTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return errors.Wrap(err, "decoding ingestion payload")
	}
	return s.ProcessUploadJob(ctx, payload.JobID, payload.FilePath, payload.Uploader)
}
