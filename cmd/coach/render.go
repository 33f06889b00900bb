package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

func bandColor(score int) func(format string, a ...interface{}) string {
	switch models.BandFor(score) {
	case models.BandHigh:
		return color.GreenString
	case models.BandMedium:
		return color.YellowString
	default:
		return color.RedString
	}
}

func printAnalysis(w io.Writer, a *models.Analysis) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold, color.Underline).Sprint("Match Analysis"))
	fmt.Fprintf(w, "Match Score: %s (%s)\n", bandColor(a.MatchScore)("%d/100", a.MatchScore), models.BandFor(a.MatchScore))
	fmt.Fprintf(w, "\n%s\n", a.Summary)

	if len(a.Strengths) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.GreenString("Strengths:"))
		for _, s := range a.Strengths {
			fmt.Fprintf(w, "  %s %s\n", color.GreenString("✓"), s)
		}
	}

	if len(a.MissingSkills) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.RedString("Missing Skills:"))
		for _, s := range a.MissingSkills {
			fmt.Fprintf(w, "  %s %s\n", color.RedString("✗"), s)
		}
	}

	if len(a.InterviewQuestions) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.CyanString("Interview Questions:"))
		for i, q := range a.InterviewQuestions {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, q.Type, q.Question)
		}
	}
}

func printSummary(w io.Writer, s *models.InterviewSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold, color.Underline).Sprint("Interview Summary"))
	fmt.Fprintf(w, "Overall Score: %s\n", bandColor(s.OverallScore)("%d/100", s.OverallScore))
	fmt.Fprintf(w, "Recommendation: %s\n", color.New(color.Bold).Sprint(s.Recommendation))
	fmt.Fprintf(w, "\n%s\n", s.Summary)

	for _, item := range s.Strengths {
		fmt.Fprintf(w, "  %s %s\n", color.GreenString("✓"), item)
	}
	for _, item := range s.Improvements {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("•"), item)
	}
}

// printFailure shows what the user may act on; everything else gets the generic message.
func printFailure(w io.Writer, err error) {
	msg := services.GenericFailureMessage
	if services.IsValidation(err) {
		msg = err.Error()
	}
	fmt.Fprintf(w, "%s %s\n", color.RedString("✗"), msg)
}
