package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/pipeline"
	"github.com/vidfact/vidfact/internal/store"
)

var (
	checkVideoID  string
	checkOffset   float64
	checkDuration float64
	checkMode     string
	checkModel    string
	checkLanguage string
	checkTimeout  time.Duration
	checkSources  bool
	checkNoCache  bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <audio-file>",
	Short: "Fact-check a single audio chunk",
	Long: `Check runs one local audio file through the full chain: transcription,
claim extraction and verification. The verified claims are printed as
JSON on stdout.

The provider credential is read from OPENAI_API_KEY.

Example:
  vidfact check chunk.webm
  vidfact check chunk.webm --video-id dQw4w9WgXcQ --offset 30 --duration 30
  vidfact check chunk.webm --mode llm --llm-model gpt-4o-mini --validate-sources`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkVideoID, "video-id", "", "video the chunk belongs to (defaults to the file name)")
	checkCmd.Flags().Float64Var(&checkOffset, "offset", 0, "chunk start within the video, in seconds")
	checkCmd.Flags().Float64Var(&checkDuration, "duration", 0, "chunk duration in seconds (0 = unknown)")
	checkCmd.Flags().StringVar(&checkMode, "mode", "heuristic", "extraction mode (heuristic, llm)")
	checkCmd.Flags().StringVar(&checkModel, "llm-model", "gpt-4o-mini", "model for LLM extraction and verification")
	checkCmd.Flags().StringVar(&checkLanguage, "language", "en", "transcription language hint")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall timeout for the chunk")
	checkCmd.Flags().BoolVar(&checkSources, "validate-sources", false, "check that cited source URLs are reachable")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "disable the verdict cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	audioPath := args[0]

	apiKey := os.Getenv("OPENAI_API_KEY")
	if err := model.ValidateAPIKey(apiKey); err != nil {
		return fmt.Errorf("OPENAI_API_KEY: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Extraction.Mode = checkMode
	cfg.Extraction.Model = checkModel
	cfg.Verification.Model = checkModel
	cfg.Verification.ValidateSources = checkSources
	if checkNoCache {
		cfg.Cache.Enabled = false
	}

	videoID := checkVideoID
	if videoID == "" {
		videoID = audioPath
	}

	log := buildLogger(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", audioPath)
		fmt.Fprintf(os.Stderr, "Mode: %s\n", checkMode)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg, store.NewMemoryStore(), log)
	result, err := p.ProcessChunk(ctx, pipeline.ChunkRequest{
		Chunk: model.ChunkContext{
			VideoID:       videoID,
			BaseTimestamp: checkOffset,
			Duration:      checkDuration,
		},
		AudioPath: audioPath,
		APIKey:    apiKey,
		Language:  checkLanguage,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Transcribed %d characters\n", len(result.Transcript))
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims (%s)\n", len(result.Claims), result.Method)
		fmt.Fprintln(os.Stderr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
