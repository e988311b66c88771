package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/assessment"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	analyzeUser     string
	analyzeExercise string
	analyzeFPS      float64
	analyzeAI       bool
	analyzeModel    string
	analyzeHeightCm float64
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <keypoints file>",
		Short: "Analyze a recorded keypoint sequence (JSON or YAML) and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}

	cmd.Flags().StringVar(&analyzeUser, "user", "", "user id, overrides the one in the file")
	cmd.Flags().StringVar(&analyzeExercise, "exercise", "", "exercise type, overrides the one in the file (e.g. SQUATS)")
	cmd.Flags().Float64Var(&analyzeFPS, "fps", 0, "frame rate, overrides the one in the file")
	cmd.Flags().Float64Var(&analyzeHeightCm, "height", 0, "athlete height in cm, used to convert jumps into centimeters")
	cmd.Flags().BoolVar(&analyzeAI, "ai", false, "ask Gemini for the narrative analysis (needs GEMINI_API_KEY)")
	cmd.Flags().StringVar(&analyzeModel, "model", "", "Gemini model")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	req, err := readAnalyzeRequest(args[0])
	if err != nil {
		return err
	}

	if analyzeUser != "" {
		req.UserID = analyzeUser
	}
	if req.UserID == "" {
		req.UserID = "local"
	}
	if analyzeExercise != "" {
		req.Exercise = analyzeExercise
	}
	if analyzeFPS > 0 {
		req.FPS = analyzeFPS
	}
	if analyzeHeightCm > 0 {
		if req.Calibration == nil {
			req.Calibration = &assessment.CalibrationInput{}
		}
		req.Calibration.PersonHeightCm = analyzeHeightCm
	}

	var summarizer analysis.Summarizer
	if analyzeAI {
		summarizer = geminiSummarizer(analyzeModel)
	}

	service, store, err := openService(summarizer)
	if err != nil {
		return err
	}
	defer closeStore(store)

	result, err := service.Analyze(context.Background(), req)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	return printOutput(cmd.OutOrStdout(), result, func(r *renderer) string {
		return r.result(result)
	})
}

// readAnalyzeRequest reads the request from a JSON file, or from a YAML one
// when the extension says so.
func readAnalyzeRequest(path string) (*assessment.AnalyzeRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypoints file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// go through json, so both formats share the json field names
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml [%s]: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("convert yaml [%s]: %w", path, err)
		}
	}

	var req assessment.AnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse keypoints file [%s]: %w", path, err)
	}
	return &req, nil
}
