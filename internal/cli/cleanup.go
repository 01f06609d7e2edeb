package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	cleanupAddr  string
	cleanupForce bool
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().StringVar(&cleanupAddr, "addr", "http://127.0.0.1:8710", "Base URL of the running surfwatch instance")
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "Ignore the minimum interval between cleanup runs")
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Trigger retention pruning",
	Long:  "Asks a running surfwatch instance to prune expired journal entries\nand idle domain state. Pinned domains are never pruned.",
	RunE:  runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	body, _ := json.Marshal(map[string]bool{"force": cleanupForce})

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(cleanupAddr+"/v1/cleanup", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cleanup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cleanup failed: %s", resp.Status)
	}

	var res struct {
		EventsRemoved int `json:"events_removed"`
		DomainsPruned int `json:"domains_pruned"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Printf("events removed: %d\ndomains pruned: %d\n", res.EventsRemoved, res.DomainsPruned)
	return nil
}
