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
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// jobCommands defines the "jobs" command group for inspecting upload jobs
// and their outcomes.
func jobCommands(r *reconInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "inspect upload jobs",
	}
	cmd.AddCommand(jobStatusCommand(r))
	cmd.AddCommand(jobRecordsCommand(r))
	return cmd
}

func jobStatusCommand(r *reconInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "show a job's status",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			job, err := r.recon.GetUploadJob(context.Background(), args[0])
			if err != nil {
				log.Fatalf("could not fetch job: %v", err)
			}
			printJSON(job)
		},
	}
}

func jobRecordsCommand(r *reconInstance) *cobra.Command {
	var limit int
	var offset int64

	cmd := &cobra.Command{
		Use:   "records <job-id>",
		Short: "list a job's submitted records",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			records, err := r.recon.GetRecordsByJob(context.Background(), args[0], limit, offset)
			if err != nil {
				log.Fatalf("could not fetch records: %v", err)
			}
			printJSON(records)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of records to list")
	cmd.Flags().Int64Var(&offset, "offset", 0, "number of records to skip")
	return cmd
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
