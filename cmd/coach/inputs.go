package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/services"
)

type inputs struct {
	jobDescription string
	resume         string
}

func loadInputs(ctx context.Context, extractor services.TextExtractor, fetcher services.JobFetcher) (*inputs, error) {
	in := &inputs{}

	switch {
	case jdURL != "":
		posting, err := fetcher.Fetch(ctx, jdURL)
		if err != nil {
			return nil, fmt.Errorf("fetching job description: %w", err)
		}
		in.jobDescription = posting.Description
	case jdPath != "":
		text, err := readDocument(extractor, jdPath)
		if err != nil {
			return nil, err
		}
		in.jobDescription = text
	default:
		return nil, fmt.Errorf("one of --jd or --jd-url is required")
	}

	text, err := readDocument(extractor, resumePath)
	if err != nil {
		return nil, err
	}
	in.resume = text

	return in, nil
}

func readDocument(extractor services.TextExtractor, path string) (string, error) {
	if !extractor.SupportedExtension(path) {
		return "", fmt.Errorf("%s: only .txt, .pdf and .docx files are supported", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := extractor.ExtractText(path, data)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.TrimSpace(text), nil
}

func newGemini(ctx context.Context) (services.GeminiService, error) {
	cfg := config.Load()
	return services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		EmbedModel:      cfg.Gemini.EmbedModel,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})
}
