package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/llmgate/promptrefiner/heuristic"
	"github.com/llmgate/promptrefiner/modelclient"
	"github.com/llmgate/promptrefiner/models"
	"github.com/llmgate/promptrefiner/refiner"
	"github.com/llmgate/promptrefiner/session"
)

var (
	promptText    string
	promptFile    string
	toolFlags     []string
	techniqueFlag []string
	customText    string
	outputFormat  string
	heuristicOnly bool
)

var refineCmd = &cobra.Command{
	Use:   "refine [prompt]",
	Short: "Refine a single prompt and print the result",
	Long: `Refine a prompt given as an argument, with --prompt, from --file, or on stdin.

Examples:
  promptrefiner refine "Write a poem about the sea"
  promptrefiner refine --file prompt.txt --tool claude --technique chain_of_thought
  echo "Summarize this report" | promptrefiner refine --format text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefine,
}

func init() {
	rootCmd.AddCommand(refineCmd)

	refineCmd.Flags().StringVar(&promptText, "prompt", "", "prompt text")
	refineCmd.Flags().StringVarP(&promptFile, "file", "f", "", "read the prompt from a file (- for stdin)")
	refineCmd.Flags().StringSliceVarP(&toolFlags, "tool", "t", nil, "target AI tool, repeatable ("+joinValues(models.Tools)+")")
	refineCmd.Flags().StringSliceVar(&techniqueFlag, "technique", nil, "prompting technique, repeatable ("+joinValues(models.Techniques)+")")
	refineCmd.Flags().StringVar(&customText, "custom", "", "free-text custom technique instructions")
	refineCmd.Flags().StringVarP(&outputFormat, "format", "o", "json", "output format: json or text")
	refineCmd.Flags().BoolVar(&heuristicOnly, "heuristic-only", false, "skip the language model and use rule-based refinement")
}

func joinValues[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

// refineOutput is the JSON shape printed by the refine command.
type refineOutput struct {
	RefinedPrompt string `json:"refined_prompt"`
	Rationale     string `json:"rationale"`
	Strategy      string `json:"strategy"`
}

func runRefine(cmd *cobra.Command, args []string) error {
	if outputFormat != "json" && outputFormat != "text" {
		return fmt.Errorf("unsupported output format %q (use json or text)", outputFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	req, err := models.NewRefinementRequest(prompt, toolFlags, techniqueFlag, customText)
	if err != nil {
		return err
	}

	var model *modelclient.Client
	if heuristicOnly {
		model = modelclient.Unavailable(cfg.LLM.Provider)
	} else {
		model = modelclient.NewFromConfig(cmd.Context(), cfg.LLM)
	}
	defer model.Close()

	report := refiner.NewOrchestrator(model, heuristic.NewRefiner()).RefineDetailed(cmd.Context(), req)
	return writeResult(cmd.OutOrStdout(), outputFormat, req.OriginalPrompt, report, time.Now())
}

func readPrompt(stdin io.Reader, args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case promptText != "":
		return promptText, nil
	case promptFile == "-":
		return readAll(stdin)
	case promptFile != "":
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return string(data), nil
	default:
		return readAll(stdin)
	}
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	return string(data), nil
}

func writeResult(w io.Writer, format, original string, report refiner.Report, now time.Time) error {
	if format == "text" {
		_, err := io.WriteString(w, session.FormatDownload(models.LastRefinedRecord{
			Original:  original,
			Refined:   report.Result.RefinedPrompt,
			Rationale: report.Result.Rationale,
			Timestamp: now,
		}))
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(refineOutput{
		RefinedPrompt: report.Result.RefinedPrompt,
		Rationale:     report.Result.Rationale,
		Strategy:      string(report.Strategy),
	})
}
