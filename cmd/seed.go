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

	"github.com/spf13/cobra"
)

// seedCommands defines the "seed" command for loading synthetic reference
// records into the system of record.
func seedCommands(r *reconInstance) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "seed the reference ledger with synthetic records",
		Run: func(cmd *cobra.Command, args []string) {
			records, err := r.recon.SeedReferenceRecords(context.Background(), count)
			if err != nil {
				log.Fatalf("seeding failed: %v", err)
			}
			log.Printf(" [*] Seeded %d reference records", len(records))
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "number of reference records to create")
	return cmd
}
