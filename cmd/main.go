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
	"fmt"
	"log"
	"os"

	"github.com/reconlabs/recon"
	"github.com/reconlabs/recon/config"
	"github.com/reconlabs/recon/database"
	"github.com/reconlabs/recon/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI wraps the root Cobra command.
type CLI struct {
	cmd *cobra.Command
}

// reconInstance holds the runtime service instance and its configuration,
// shared by all subcommands.
type reconInstance struct {
	recon *recon.Recon
	cnf   *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and wires up the service instance before
// any subcommand executes.
func preRun(app *reconInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newRecon, err := setupRecon(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.recon = newRecon
		app.cnf = cnf
		return nil
	}
}

func setupRecon(cfg *config.Configuration) (*recon.Recon, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}
	newRecon, err := recon.NewRecon(db)
	if err != nil {
		return nil, fmt.Errorf("error creating recon service: %v", err)
	}
	return newRecon, nil
}

// NewCLI assembles the root command and its subcommands.
func NewCLI() *CLI {
	var configFile string
	r := &reconInstance{}

	var rootCmd = &cobra.Command{
		Use:   "recon",
		Short: "Transaction reconciliation engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./recon.json", "Configuration file for the reconciliation service")
	rootCmd.PersistentPreRunE = preRun(r, &configFile)

	rootCmd.AddCommand(workerCommands(r))
	rootCmd.AddCommand(uploadCommands(r))
	rootCmd.AddCommand(seedCommands(r))
	rootCmd.AddCommand(jobCommands(r))

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
