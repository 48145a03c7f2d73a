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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	// DEFAULT_TOLERANCE_PERCENT is the allowed amount deviation for a
	// partial match when the config does not override it.
	DEFAULT_TOLERANCE_PERCENT = 2.0
	// DEFAULT_BATCH_SIZE is the number of rows accumulated before a flush.
	DEFAULT_BATCH_SIZE = 500
)

var ConfigStore atomic.Value

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"RECON_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"RECON_REDIS_DNS"`
}

type QueueConfig struct {
	IngestionQueue string `json:"ingestion_queue" envconfig:"RECON_QUEUE_INGESTION"`
	Concurrency    int    `json:"concurrency" envconfig:"RECON_QUEUE_CONCURRENCY"`
}

// ReconciliationConfig carries the matching tunables. It is injected into
// the match engine at construction rather than read from a global.
type ReconciliationConfig struct {
	TolerancePercent float64 `json:"tolerance_percent" envconfig:"RECON_TOLERANCE_PERCENT"`
	BatchSize        int     `json:"batch_size" envconfig:"RECON_BATCH_SIZE"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"RECON_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName    string               `json:"project_name" envconfig:"RECON_PROJECT_NAME"`
	UploadDir      string               `json:"upload_dir" envconfig:"RECON_UPLOAD_DIR"`
	DataSource     DataSourceConfig     `json:"data_source"`
	Redis          RedisConfig          `json:"redis"`
	Queue          QueueConfig          `json:"queue"`
	Reconciliation ReconciliationConfig `json:"reconciliation"`
	Notification   Notification         `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("recon", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called recon.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Recon Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.UploadDir == "" {
		cnf.UploadDir = "recon_uploads"
	}

	if cnf.Queue.IngestionQueue == "" {
		cnf.Queue.IngestionQueue = "ingestion"
	}
	if cnf.Queue.Concurrency <= 0 {
		cnf.Queue.Concurrency = 1
	}

	if cnf.Reconciliation.TolerancePercent < 0 {
		return errors.New("tolerance percent must not be negative")
	}
	if cnf.Reconciliation.TolerancePercent == 0 {
		cnf.Reconciliation.TolerancePercent = DEFAULT_TOLERANCE_PERCENT
	}
	if cnf.Reconciliation.BatchSize <= 0 {
		cnf.Reconciliation.BatchSize = DEFAULT_BATCH_SIZE
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
