package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/formcheck/internal/assessment"
	"github.com/2beens/formcheck/internal/exercise"
)

// AssessmentService is the part of assessment.Service the tools read from.
type AssessmentService interface {
	Get(ctx context.Context, id string) (*assessment.Result, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]assessment.Result, error)
	UserStats(ctx context.Context, userID string) (*assessment.UserStats, error)
	WorkoutPlan(ctx context.Context, userID, resultID string) (*assessment.WorkoutPlan, error)
	ReferenceMetrics(exerciseName string) (exercise.ReferenceMetrics, error)
}

// contextService provides the data behind the tools. Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListResults(ctx context.Context, userID string, limit int, withHistory bool) ([]assessment.Result, error)
	GetResult(ctx context.Context, id string, withHistory bool) (*assessment.Result, error)
	GetUserProgress(ctx context.Context, userID string) (*assessment.UserStats, error)
	GetWorkoutPlan(ctx context.Context, userID, resultID string) (*assessment.WorkoutPlan, error)
	GetReferenceMetrics(exerciseName string) (exercise.ReferenceMetrics, error)
}

type ContextService struct {
	schema      SchemaRepo
	assessments AssessmentService
}

func NewContextService(schemaRepo SchemaRepo, assessments AssessmentService) *ContextService {
	return &ContextService{
		schema:      schemaRepo,
		assessments: assessments,
	}
}

// GetSchema returns the assessment tables and their indexes as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetAssessmentColumns(ctx)
	if err != nil {
		return "", err
	}
	indexes, err := s.schema.GetAssessmentIndexes(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols, indexes), nil
}

func formatSchema(cols []SchemaColumn, indexes []SchemaIndex) string {
	if len(cols) == 0 {
		return "# Assessment DB Schema\n\nNo assessment tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaIndex)
	for _, idx := range indexes {
		byTable[idx.TableName] = append(byTable[idx.TableName], idx)
	}

	var b strings.Builder
	b.WriteString("# Assessment DB Schema\n")

	for i, c := range cols {
		if i == 0 || c.TableName != cols[i-1].TableName {
			b.WriteString("\n## " + c.TableName + "\n\n")
			b.WriteString("| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		}
		def := "-"
		if c.ColumnDef != nil && *c.ColumnDef != "" {
			def = *c.ColumnDef
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)

		lastOfTable := i == len(cols)-1 || cols[i+1].TableName != c.TableName
		if lastOfTable && len(byTable[c.TableName]) > 0 {
			b.WriteString("\nIndexes:\n")
			for _, idx := range byTable[c.TableName] {
				fmt.Fprintf(&b, "- `%s`: %s\n", idx.IndexName, idx.Definition)
			}
		}
	}

	return b.String()
}

// ListResults returns the latest results of the user. The per frame feedback
// history is dropped unless asked for, it is by far the largest part of a report.
func (s *ContextService) ListResults(ctx context.Context, userID string, limit int, withHistory bool) ([]assessment.Result, error) {
	results, err := s.assessments.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if !withHistory {
		for i := range results {
			stripHistory(&results[i])
		}
	}
	return results, nil
}

func (s *ContextService) GetResult(ctx context.Context, id string, withHistory bool) (*assessment.Result, error) {
	result, err := s.assessments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !withHistory {
		stripHistory(result)
	}
	return result, nil
}

func (s *ContextService) GetUserProgress(ctx context.Context, userID string) (*assessment.UserStats, error) {
	return s.assessments.UserStats(ctx, userID)
}

func (s *ContextService) GetWorkoutPlan(ctx context.Context, userID, resultID string) (*assessment.WorkoutPlan, error) {
	return s.assessments.WorkoutPlan(ctx, userID, resultID)
}

func (s *ContextService) GetReferenceMetrics(exerciseName string) (exercise.ReferenceMetrics, error) {
	return s.assessments.ReferenceMetrics(exerciseName)
}

func stripHistory(result *assessment.Result) {
	if result.Report == nil {
		return
	}
	report := result.Report.Clone()
	report.FullFeedbackHistory = nil
	result.Report = report
}
