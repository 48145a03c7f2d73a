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

package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// uploadCommands defines the "upload" command. It accepts a transaction
// file, registers the job and either queues it for the workers or runs
// the pipeline inline with --inline.
func uploadCommands(r *reconInstance) *cobra.Command {
	var inline bool
	var uploader string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "upload a transaction file for reconciliation",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			file, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("could not open %s: %v", args[0], err)
			}
			defer file.Close()

			var actor *string
			if uploader != "" {
				actor = &uploader
			}

			job, path, reused, err := r.recon.AcceptUpload(ctx, filepath.Base(args[0]), file, actor)
			if err != nil {
				log.Fatalf("upload rejected: %v", err)
			}
			if reused {
				log.Printf(" [*] File already uploaded, job %s (%s)", job.JobID, job.Status)
				return
			}
			log.Printf(" [*] Upload accepted, job %s", job.JobID)

			if inline {
				if err := r.recon.ProcessUploadJob(ctx, job.JobID, path, actor); err != nil {
					log.Fatalf("ingestion failed: %v", err)
				}
				log.Printf(" [*] Job %s completed", job.JobID)
				return
			}
			if err := r.recon.QueueIngestion(job, path, actor); err != nil {
				log.Fatalf("could not queue ingestion: %v", err)
			}
			log.Printf(" [*] Job %s queued for ingestion", job.JobID)
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "run the pipeline in-process instead of queueing")
	cmd.Flags().StringVar(&uploader, "uploader", "", "actor id recorded on the job and its audit entries")
	return cmd
}
