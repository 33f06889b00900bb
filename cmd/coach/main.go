package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	jdPath     string
	jdURL      string
	resumePath string
	jsonOutput bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "coach",
		Short: "Match a resume to a job description and rehearse the interview.",
	}

	var analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Score a resume against a job description",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}
	addInputFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)

	var interviewCmd = &cobra.Command{
		Use:   "interview",
		Short: "Analyze, then run a mock interview over the generated questions",
		Args:  cobra.NoArgs,
		RunE:  runInterview,
	}
	addInputFlags(interviewCmd)
	rootCmd.AddCommand(interviewCmd)

	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&jdPath, "jd", "j", "", "Path to job description file (.txt, .pdf, .docx)")
	cmd.Flags().StringVar(&jdURL, "jd-url", "", "Job posting URL (instead of --jd)")
	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "Path to resume file (.txt, .pdf, .docx)")
	cmd.MarkFlagsMutuallyExclusive("jd", "jd-url")
	_ = cmd.MarkFlagRequired("resume")
}
