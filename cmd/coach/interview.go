package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/interview"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

func runInterview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	in, err := loadInputs(ctx, services.NewTextExtractor(), services.NewJobFetcher(nil))
	if err != nil {
		return err
	}

	gemini, err := newGemini(ctx)
	if err != nil {
		return err
	}

	fmt.Println(color.CyanString("→"), "Analyzing resume against the job description...")
	analysis, err := services.NewAnalyzerService(gemini, nil, nil).Analyze(ctx, in.jobDescription, in.resume)
	if err != nil {
		log.Printf("analysis failed: %v", err)
		printFailure(os.Stderr, err)
		return err
	}
	printAnalysis(os.Stdout, analysis)

	session := interview.NewSession(uuid.Nil, analysis.Result(), in.jobDescription)
	return runSession(ctx, interview.NewCoach(gemini), session, os.Stdin, os.Stdout)
}

// runSession reads one answer per line until the session completes. Failed
// turns are reported and the user may answer or retry again.
func runSession(ctx context.Context, coach *interview.Coach, session *interview.Session, r io.Reader, w io.Writer) error {
	if err := coach.Start(session); err != nil {
		return err
	}

	shown := 0
	show := func() {
		v := session.Snapshot()
		for _, m := range v.Transcript[shown:] {
			if m.Role == models.RoleAssistant {
				fmt.Fprintf(w, "\n%s %s\n", color.CyanString("Interviewer:"), m.Content)
			}
		}
		shown = len(v.Transcript)
	}
	show()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		v := session.Snapshot()
		if v.Status == models.SessionComplete {
			printSummary(w, v.Summary)
			return nil
		}

		if v.AwaitingSummary {
			fmt.Fprintf(w, "\n%s ", color.YellowString("Press Enter to retry the summary:"))
		} else {
			fmt.Fprintf(w, "\n%s ", color.GreenString("You:"))
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Fprintln(w, "\nInterview ended before completion.")
			return nil
		}

		if v.AwaitingSummary {
			err := coach.FinishInterview(ctx, session)
			if err != nil {
				log.Printf("summary failed: %v", err)
				printFailure(w, err)
			}
			show()
			continue
		}

		answer := strings.TrimSpace(scanner.Text())
		if err := coach.SubmitAnswer(ctx, session, answer); err != nil {
			if !services.IsValidation(err) {
				log.Printf("turn failed: %v", err)
			}
			printFailure(w, err)
		}
		show()
	}
}
