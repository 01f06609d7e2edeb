package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"surfwatch/internal/audit"
)

var verifyLog string

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyLog, "log", "l", "", "Path to decision log (required)")
	verifyCmd.MarkFlagRequired("log")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the decision log hash chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		result := audit.Verify(verifyLog)
		if !result.Valid {
			fmt.Fprintf(os.Stderr, "INVALID at line %d: %s\n", result.ErrorLine, result.Error)
			os.Exit(1)
		}
		fmt.Printf("OK: %d entries, chain intact\n", result.Lines)
		return nil
	},
}
