package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	in, err := loadInputs(ctx, services.NewTextExtractor(), services.NewJobFetcher(nil))
	if err != nil {
		return err
	}

	gemini, err := newGemini(ctx)
	if err != nil {
		return err
	}

	analysis, err := services.NewAnalyzerService(gemini, nil, nil).Analyze(ctx, in.jobDescription, in.resume)
	if err != nil {
		log.Printf("analysis failed: %v", err)
		printFailure(os.Stderr, err)
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models.NewAnalyzeResponse(analysis))
	}

	printAnalysis(os.Stdout, analysis)
	return nil
}
