package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/pipeline"
	"github.com/vidfact/vidfact/internal/store"
	"github.com/vidfact/vidfact/internal/worker"
)

var (
	batchConcurrency int
	batchOutput      string
	batchTimeout     time.Duration
	batchMode        string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fact-check many audio chunks in parallel",
	Long: `Batch processes a list of audio chunks concurrently. The list has one
chunk per line, tab-separated:

  audio_path [video_id [offset_seconds [duration_seconds]]]

Empty lines and lines starting with # are skipped. All verdicts are
written to one JSON file grouped by video.

Example:
  vidfact batch chunks.txt
  vidfact batch chunks.txt --concurrency 8 --output verdicts.json
  vidfact batch chunks.txt --mode llm`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutput, "output", "verdicts.json", "output JSON path")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().StringVar(&batchMode, "mode", "heuristic", "extraction mode (heuristic, llm)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	apiKey := os.Getenv("OPENAI_API_KEY")
	if err := model.ValidateAPIKey(apiKey); err != nil {
		return fmt.Errorf("OPENAI_API_KEY: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Extraction.Mode = batchMode
	cfg.Concurrency.Workers = batchConcurrency

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Vidfact Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", batchConcurrency)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", batchMode)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", batchOutput)
	fmt.Fprintf(os.Stderr, "\n")

	log := buildLogger(cfg)
	st := store.NewMemoryStore()
	p := pipeline.New(cfg, st, log)
	p.SetLimiter(worker.NewProviderLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))

	processor := worker.NewBatchProcessor(p, apiKey, batchConcurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading chunk list...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	videoIDs := make(map[string]bool)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source.AudioPath, result.Error)
			continue
		}
		successCount++
		videoIDs[result.Source.VideoID] = true
		fmt.Fprintf(os.Stderr, "✓ %s (%d claims)\n", result.Source.AudioPath, len(result.Result.Claims))
	}

	// One verdict list per video, straight from the store
	verdicts := make(map[string][]model.VerifiedClaim, len(videoIDs))
	for videoID := range videoIDs {
		verdicts[videoID] = st.Get(videoID)
	}

	out, err := os.Create(batchOutput)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = out.Close() }()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(verdicts); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d chunks\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchOutput)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
