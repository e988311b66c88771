package narrative

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	summaryMaxChars = 200
	promptMaxIssues = 3
	// entries taken from enumerated lines when the response has no headings
	enumeratedEntries = 3
)

var (
	fallbackFindings        = []string{"Form inconsistencies detected", "Performance analysis completed"}
	fallbackRecommendations = []string{"Follow suggested improvements", "Practice with guided feedback"}
)

// GeminiSummarizer asks a text generator for the narrative analysis of a session.
type GeminiSummarizer struct {
	generator TextGenerator
}

func NewGeminiSummarizer(generator TextGenerator) *GeminiSummarizer {
	return &GeminiSummarizer{
		generator: generator,
	}
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, in analysis.SummaryInput) (_ analysis.Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "narrative.summarize")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", in.Exercise.String()))

	text, err := s.generator.Generate(ctx, BuildPrompt(in))
	if err != nil {
		return analysis.Summary{}, fmt.Errorf("generate summary: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return analysis.Summary{}, ErrNoContent
	}

	log.Tracef("narrative: %d chars generated for %s", len(text), in.Exercise)
	return ParseResponse(text), nil
}

// BuildPrompt renders the summary request for a session.
func BuildPrompt(in analysis.SummaryInput) string {
	issues := "None identified"
	if len(in.CommonFeedback) > 0 {
		top := in.CommonFeedback
		if len(top) > promptMaxIssues {
			top = top[:promptMaxIssues]
		}
		issues = strings.Join(top, ", ")
	}

	return fmt.Sprintf(`Generate a professional fitness analysis summary:

Exercise: %s
Score: %.1f/100
Form Accuracy: %.1f%%
Key Issues: %s

Provide:
1. A brief performance summary
2. 2-3 key findings
3. 2-3 specific recommendations for improvement

Keep response concise and professional.`,
		in.Exercise.DisplayName(), in.Score, in.FormAccuracy, issues,
	)
}

type section int

const (
	sectionNone section = iota
	sectionFindings
	sectionRecommendations
)

// ParseResponse splits a generated text into summary, key findings and recommendations.
// Sections are found by their headings; without headings the first and the last
// enumerated lines are used. Missing parts get generic entries.
func ParseResponse(text string) analysis.Summary {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := cleanLine(raw); line != "" {
			lines = append(lines, line)
		}
	}

	var preamble, findings, recommendations []string
	current := sectionNone
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "key findings"):
			current = sectionFindings
			continue
		case strings.Contains(lower, "recommendations"):
			current = sectionRecommendations
			continue
		}

		switch current {
		case sectionFindings:
			findings = append(findings, stripEnumerator(line))
		case sectionRecommendations:
			recommendations = append(recommendations, stripEnumerator(line))
		default:
			preamble = append(preamble, line)
		}
	}

	var enumerated []string
	for _, line := range lines {
		if isEnumerated(line) {
			enumerated = append(enumerated, stripEnumerator(line))
		}
	}
	if len(findings) == 0 {
		findings = firstN(enumerated, enumeratedEntries)
	}
	if len(recommendations) == 0 {
		recommendations = lastN(enumerated, enumeratedEntries)
	}

	if len(findings) == 0 {
		findings = append([]string(nil), fallbackFindings...)
	}
	if len(recommendations) == 0 {
		recommendations = append([]string(nil), fallbackRecommendations...)
	}

	summary := strings.TrimSpace(text)
	if current != sectionNone && len(preamble) > 0 {
		summary = strings.Join(preamble, " ")
	}

	return analysis.Summary{
		Summary:         truncate(summary, summaryMaxChars),
		KeyFindings:     findings,
		Recommendations: recommendations,
	}
}

// cleanLine drops surrounding whitespace, bullets and markdown emphasis.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "#")
	line = strings.Trim(line, "•*- \t")
	line = strings.ReplaceAll(line, "**", "")
	return strings.TrimSpace(line)
}

func isEnumerated(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsDigit(r)
}

// stripEnumerator removes a leading "1." or "2)" from a list entry.
func stripEnumerator(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || (line[i] != '.' && line[i] != ')') {
		return line
	}
	if rest := strings.TrimSpace(line[i+1:]); rest != "" {
		return rest
	}
	return line
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func lastN(s []string, n int) []string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
