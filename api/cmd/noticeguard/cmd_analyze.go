package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"notice-guard/api/internal/notice"
	"notice-guard/api/internal/notice/types"
)

var analyzeFlags struct {
	text        string
	file        string
	scenario    string
	grade       string
	roles       []string
	gender      string
	sensitivity string
	note        string
	pretty      bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one notice and print the result as JSON",
	Long: `Analyze a notice and print the normalized result as JSON.

Usage:
  noticeguard analyze --text "..." --scenario 住宿后勤
  noticeguard analyze --file notice.txt --grade 大一 --role 学生干部
  cat notice.txt | noticeguard analyze --provider none`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.text, "text", "", "Notice text (default: read --file or stdin)")
	f.StringVarP(&analyzeFlags.file, "file", "f", "", "Read the notice text from a file")
	f.StringVar(&analyzeFlags.scenario, "scenario", "", "Scenario label, e.g. 纪律处分")
	f.StringVar(&analyzeFlags.grade, "grade", "", "Audience grade")
	f.StringSliceVar(&analyzeFlags.roles, "role", nil, "Audience role (repeatable)")
	f.StringVar(&analyzeFlags.gender, "gender", "", "Audience gender")
	f.StringVar(&analyzeFlags.sensitivity, "sensitivity", "", "Audience sensitivity: 高 | 中 | 低")
	f.StringVar(&analyzeFlags.note, "profile", "", "Free-form audience description; overrides the structured fields")
	f.BoolVar(&analyzeFlags.pretty, "pretty", true, "Indent the JSON output")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	text, err := readNotice(cmd.InOrStdin())
	if err != nil {
		return err
	}
	gen, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	req := types.AnalysisRequest{
		Text:     text,
		Scenario: analyzeFlags.scenario,
		Audience: types.AudienceProfile{
			Grade:       analyzeFlags.grade,
			Roles:       analyzeFlags.roles,
			Gender:      analyzeFlags.gender,
			Sensitivity: analyzeFlags.sensitivity,
			CustomNote:  analyzeFlags.note,
		},
	}
	a := notice.New(gen, notice.Options{Timeout: cfg.Timeout, Logger: logger})
	res, err := a.Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if analyzeFlags.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

func readNotice(stdin io.Reader) (string, error) {
	switch {
	case analyzeFlags.text != "":
		return analyzeFlags.text, nil
	case analyzeFlags.file != "":
		b, err := os.ReadFile(analyzeFlags.file)
		if err != nil {
			return "", fmt.Errorf("read notice: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", types.ErrEmptyText
	}
	return string(b), nil
}
