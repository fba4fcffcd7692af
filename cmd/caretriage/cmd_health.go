package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service health",
	Long:  `Probe the service liveness endpoint and show component status.`,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, _, client, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	if info, err := client.Info(cmd.Context()); err == nil {
		fmt.Printf("%s v%s (%s)\n", info.Name, info.Version, info.Status)
	}

	status, err := client.Health(cmd.Context())
	if err != nil {
		fmt.Printf("○ %s is not responding\n", cfg.BackendURL)
		return fmt.Errorf("%s", triage.UserMessage(err))
	}

	fmt.Printf("● %s is %s at %s\n", cfg.BackendURL, status.Status, status.Timestamp)
	if len(status.Components) > 0 {
		dump, err := yaml.Marshal(status.Components)
		if err == nil {
			fmt.Println("\nComponents:")
			fmt.Print(string(dump))
		}
	}
	return nil
}
