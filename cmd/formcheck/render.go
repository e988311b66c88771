package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/assessment"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const defaultCardWidth = 72

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F0F0F0")).
			Background(lipgloss.Color("#3A5A8C")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))

	gradeColors = map[string]lipgloss.Color{
		"A": lipgloss.Color("#52C41A"),
		"B": lipgloss.Color("#A0D911"),
		"C": lipgloss.Color("#FAAD14"),
		"D": lipgloss.Color("#FA541C"),
		"F": lipgloss.Color("#FF4D4F"),
	}
)

// renderer draws the text output. Without a terminal it writes plain text.
type renderer struct {
	styled bool
	width  int
}

func newRenderer(out io.Writer) *renderer {
	r := &renderer{width: defaultCardWidth}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return r
	}

	r.styled = true
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 && w < r.width {
		r.width = w
	}
	return r
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r *renderer) title(text string) string {
	return r.style(titleStyle, text)
}

func (r *renderer) row(label, value string) string {
	if !r.styled {
		return fmt.Sprintf("%-16s%s", label, value)
	}
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func (r *renderer) card(lines []string) string {
	body := strings.Join(lines, "\n")
	if !r.styled {
		return body + "\n"
	}
	return cardStyle.Width(r.width-2).Render(body) + "\n"
}

func (r *renderer) grade(grade string) string {
	c, ok := gradeColors[grade]
	if !r.styled || !ok {
		return grade
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(grade)
}

func (r *renderer) bullets(items []string) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, r.style(mutedStyle, "  - "+item))
	}
	return lines
}

func (r *renderer) result(res *assessment.Result) string {
	lines := []string{
		r.title(fmt.Sprintf("%s  %s", res.Exercise.DisplayName(), res.CreatedAt.Format("2006-01-02 15:04"))),
		"",
		r.row("Result", res.ID),
		r.row("Score", fmt.Sprintf("%.1f", res.Score)),
		r.row("Grade", r.grade(res.Grade)),
	}

	if rep := res.Report; rep != nil {
		lines = append(lines,
			r.row("Reps", fmt.Sprintf("%d", rep.Performance.RepCount)),
			r.row("Form accuracy", fmt.Sprintf("%.1f%%", rep.Performance.FormAccuracy)),
			r.row("Duration", fmt.Sprintf("%.1fs", rep.ExerciseDetails.DurationSecs)),
		)
		if rep.Attempts.BestHoldSeconds > 0 {
			lines = append(lines, r.row("Best hold", fmt.Sprintf("%.1fs", rep.Attempts.BestHoldSeconds)))
		}
	}

	m := res.Measurements
	if m.JumpHeightCm > 0 {
		lines = append(lines, r.row("Jump height", fmt.Sprintf("%.1f cm", m.JumpHeightCm)))
	}
	if m.BroadJumpDistanceCm > 0 {
		lines = append(lines, r.row("Jump distance", fmt.Sprintf("%.1f cm", m.BroadJumpDistanceCm)))
	}
	if m.CalibrationSource != "" {
		lines = append(lines, r.row("Scale", fmt.Sprintf("%.2f px/cm (%s)", m.PixelsPerCm, m.CalibrationSource)))
	}

	if rep := res.Report; rep != nil {
		if errs := formErrorLines(rep.FormErrors); len(errs) > 0 {
			lines = append(lines, "", r.title("Form errors"))
			lines = append(lines, r.bullets(errs)...)
		}

		summary := rep.AIAnalysis
		if summary.Summary != "" {
			lines = append(lines, "", r.title("Summary"), summary.Summary)
		}
		if len(summary.KeyFindings) > 0 {
			lines = append(lines, "", r.title("Key findings"))
			lines = append(lines, r.bullets(summary.KeyFindings)...)
		}
		if len(summary.Recommendations) > 0 {
			lines = append(lines, "", r.title("Recommendations"))
			lines = append(lines, r.bullets(summary.Recommendations)...)
		}
	}

	return r.card(lines)
}

func formErrorLines(fe analysis.FormErrors) []string {
	var lines []string
	for _, kind := range analysis.AllFormErrorKinds {
		if n := fe.Count(kind); n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", strings.ReplaceAll(string(kind), "_", " "), n))
		}
	}
	return lines
}

func (r *renderer) results(results []assessment.Result) string {
	if len(results) == 0 {
		return "no results\n"
	}

	lines := []string{r.title(fmt.Sprintf("%d results", len(results))), ""}
	for _, res := range results {
		lines = append(lines, fmt.Sprintf(
			"%s  %-20s %6.1f  %s  %s",
			res.CreatedAt.Format("2006-01-02 15:04"),
			res.Exercise.DisplayName(),
			res.Score,
			r.grade(res.Grade),
			r.style(mutedStyle, res.ID),
		))
	}
	return r.card(lines)
}

func (r *renderer) stats(userID string, stats *assessment.UserStats) string {
	lines := []string{r.title("Progress of " + userID), ""}
	if stats.TotalTests == 0 {
		lines = append(lines, stats.ProgressTrend)
		return r.card(lines)
	}

	lines = append(lines,
		r.row("Tests", fmt.Sprintf("%d", stats.TotalTests)),
		r.row("Average", fmt.Sprintf("%.2f", stats.AvgScore)),
		r.row("Best", fmt.Sprintf("%.1f", stats.MaxScore)),
		r.row("Worst", fmt.Sprintf("%.1f", stats.MinScore)),
		r.row("Trend", stats.ProgressTrend),
	)
	if stats.LatestTest != nil {
		lines = append(lines, r.row("Latest", stats.LatestTest.Format("2006-01-02 15:04")))
	}
	if len(stats.RecentScores) > 0 {
		scores := make([]string, 0, len(stats.RecentScores))
		for _, s := range stats.RecentScores {
			scores = append(scores, fmt.Sprintf("%.1f", s))
		}
		lines = append(lines, r.row("Recent", strings.Join(scores, ", ")))
	}
	return r.card(lines)
}

func (r *renderer) plan(plan *assessment.WorkoutPlan) string {
	lines := []string{
		r.title(plan.Level + " plan"),
		"",
		r.row("Based on", plan.ResultID),
		r.row("Score", fmt.Sprintf("%.1f", plan.Score)),
	}
	if plan.User != "" {
		lines = append(lines, r.row("User", plan.User))
	}
	if plan.FitnessLevel != "" {
		lines = append(lines, r.row("Fitness level", plan.FitnessLevel))
	}
	lines = append(lines, "")
	lines = append(lines, r.bullets(plan.Recommendations)...)
	return r.card(lines)
}

func (r *renderer) exercises(exercises []assessment.ExerciseInfo) string {
	lines := []string{r.title("Exercises"), ""}
	for _, e := range exercises {
		lines = append(lines, fmt.Sprintf("%d  %-22s %s", e.TestID, e.Name, r.style(mutedStyle, e.Type.String())))
	}
	return r.card(lines)
}

// printOutput writes v in the selected format. text renders the text format.
func printOutput(out io.Writer, v any, text func(r *renderer) string) error {
	switch outputFormat {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		b, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	default:
		if text == nil {
			return fmt.Errorf("no text output, use --format json or yaml")
		}
		_, err := io.WriteString(out, text(newRenderer(out)))
		return err
	}
}

// toYAML goes through json, so the yaml keys are the json field names.
func toYAML(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal output: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal output: %w", err)
	}
	return yaml.Marshal(doc)
}
