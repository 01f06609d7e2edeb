package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"surfwatch/internal/classify"
	"surfwatch/internal/decide"
	"surfwatch/internal/federation"
	"surfwatch/internal/model"
	"surfwatch/internal/risk"
)

var (
	classifySignals []string
	classifyOpener  string
	classifyJSON    bool
)

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringArrayVar(&classifySignals, "signal", nil, "Content signal code (repeatable)")
	classifyCmd.Flags().StringVar(&classifyOpener, "opener-domain", "", "Domain of the tab that opened this page")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Emit JSON instead of text")
}

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Classify one URL offline",
	Long: "Runs the full estimation pipeline for a single URL without touching\n" +
		"any stored state: federation inference, activity classification, risk\n" +
		"score, and the management recommendation a first visit would produce.",
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

type classifyOutput struct {
	Level          string   `json:"level"`
	Confidence     float64  `json:"confidence"`
	Reasons        []string `json:"reasons"`
	Score          int      `json:"score"`
	RP             string   `json:"rp,omitempty"`
	IdP            string   `json:"idp,omitempty"`
	Recommendation string   `json:"recommendation"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	url := args[0]

	inf := federation.NewInferrer().Infer(url, classifyOpener, nil)

	explicit := make([]model.SignalCode, 0, len(classifySignals)+len(inf.Signals))
	explicit = append(explicit, inf.Signals...)
	for _, s := range classifySignals {
		explicit = append(explicit, model.SignalCode(s))
	}

	est := classify.New().Classify(url, explicit)
	score := risk.Score(est.Level, est.Confidence)
	state := decide.Decide(decide.Input{
		Level:           est.Level,
		Score:           score,
		Confidence:      est.Confidence,
		HasRelationship: inf.HasRelationship(),
	}, decide.DefaultThresholds())

	out := classifyOutput{
		Level:          est.Level.String(),
		Confidence:     est.Confidence,
		Score:          score,
		RP:             inf.Candidate.RP,
		IdP:            inf.Candidate.IdP,
		Recommendation: string(state),
	}
	for _, r := range est.Reasons {
		out.Reasons = append(out.Reasons, string(r))
	}

	if classifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("level:          %s\n", out.Level)
	fmt.Printf("confidence:     %.2f\n", out.Confidence)
	fmt.Printf("score:          %d\n", out.Score)
	if len(out.Reasons) > 0 {
		fmt.Printf("reasons:        %s\n", strings.Join(out.Reasons, ", "))
	}
	if out.RP != "" || out.IdP != "" {
		fmt.Printf("relationship:   rp=%s idp=%s\n", orDash(out.RP), orDash(out.IdP))
	}
	fmt.Printf("recommendation: %s\n", out.Recommendation)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
