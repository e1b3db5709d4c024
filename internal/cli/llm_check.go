package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-legalist/internal/services/ai"
)

var llmCheckCmd = &cobra.Command{
	Use:   "llm-check",
	Short: "Check the configured model endpoint",
	Long: `Send a short completion to the configured LLM endpoint and report the
reply and latency.`,
	Args: cobra.NoArgs,
	RunE: runLLMCheck,
}

func runLLMCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMTimeout)
	defer cancel()

	fmt.Printf("Endpoint: %s\nModel:    %s\n", cfg.LLMBaseURL, cfg.LLMModel)

	start := time.Now()
	if err := application.Provider.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	reply, err := application.Provider.Complete(ctx, []ai.Message{
		{Role: "user", Content: "Reply with the single word: ready"},
	}, 16)
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}
	fmt.Printf("Reply:    %s\nLatency:  %s\n", reply, time.Since(start).Round(time.Millisecond))
	return nil
}
