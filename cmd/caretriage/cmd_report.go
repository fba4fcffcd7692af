package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

var reportCmd = &cobra.Command{
	Use:   "report [report-id]",
	Short: "Retrieve a stored report",
	Long:  `Fetch a previously generated report by its identifier.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Bool("json", false, "Print the raw report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	_, _, client, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	record, err := client.FetchReport(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s", triage.UserMessage(err))
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	dump, err := yaml.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Print(string(dump))
	return nil
}
