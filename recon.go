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
	"github.com/reconlabs/recon/config"
	"github.com/reconlabs/recon/database"
)

// Recon is the main application service. It owns the datasource, the
// background queue and the matching configuration used by ingestion runs.
type Recon struct {
	queue      *Queue
	datasource database.IDataSource
	matching   MatchingConfig
}

// NewRecon initializes a new Recon instance with the provided datasource.
// The matching configuration is snapshotted from the loaded configuration;
// ingestion runs started from this instance share the same tolerance and
// batch size. The queue is only created when Redis is configured, so the
// service also works in a purely synchronous, single-process setup.
func NewRecon(db database.IDataSource) (*Recon, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	var newQueue *Queue
	if configuration.Redis.Dns != "" {
		newQueue, err = NewQueue(configuration)
		if err != nil {
			return nil, err
		}
	}
	return &Recon{
		datasource: db,
		queue:      newQueue,
		matching:   NewMatchingConfig(configuration),
	}, nil
}
