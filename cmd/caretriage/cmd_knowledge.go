package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/backend"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Guideline knowledge base operations",
	Long:  `Upload guideline documents and query the service's knowledge index.`,
}

var knowledgeUploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload guideline PDFs",
	Long:  `Upload one or more guideline PDF documents for indexing.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKnowledgeUpload,
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the knowledge index",
	Long:  `Query the indexed guideline documents and print the best matches.`,
	RunE:  runKnowledgeSearch,
}

var knowledgeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge index statistics",
	RunE:  runKnowledgeStats,
}

func init() {
	knowledgeCmd.AddCommand(knowledgeUploadCmd)
	knowledgeCmd.AddCommand(knowledgeSearchCmd)
	knowledgeCmd.AddCommand(knowledgeStatsCmd)

	knowledgeSearchCmd.Flags().String("query", "", "Search query (required)")
	knowledgeSearchCmd.Flags().Int("top-k", 5, "Number of results to return")
	_ = knowledgeSearchCmd.MarkFlagRequired("query")
}

func runKnowledgeUpload(cmd *cobra.Command, args []string) error {
	_, _, client, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	var docs []backend.Document
	for _, path := range args {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		docs = append(docs, backend.Document{
			Filename: filepath.Base(path),
			Content:  file,
		})
	}

	ack, err := client.UploadDocuments(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("%s", triage.UserMessage(err))
	}

	if ack.Success {
		fmt.Printf("✅ %s\n", ack.Message)
	} else {
		fmt.Printf("❌ %s\n", ack.Message)
	}
	return nil
}

func runKnowledgeSearch(cmd *cobra.Command, args []string) error {
	_, _, client, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	topK, _ := cmd.Flags().GetInt("top-k")

	result, err := client.SearchKnowledge(cmd.Context(), query, topK)
	if err != nil {
		return fmt.Errorf("%s", triage.UserMessage(err))
	}

	if len(result.Results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range result.Results {
		fmt.Printf("%d. %s (page %d, score %.2f)\n", i+1, r.Source, r.PageNumber, r.Score)
		fmt.Printf("   %s\n", r.Text)
	}
	return nil
}

func runKnowledgeStats(cmd *cobra.Command, args []string) error {
	_, _, client, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	stats, err := client.KnowledgeStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", triage.UserMessage(err))
	}

	dump, err := yaml.Marshal(stats)
	if err != nil {
		return err
	}
	fmt.Print(string(dump))
	return nil
}
