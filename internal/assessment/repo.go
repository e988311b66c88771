package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/telemetry/tracing"
	"github.com/2beens/formcheck/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo keeps assessment results in postgres, the report as JSONB.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, result *Result) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessment.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	reportJson, err := json.Marshal(result.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	measurementsJson, err := json.Marshal(result.Measurements)
	if err != nil {
		return fmt.Errorf("marshal measurements: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO assessment_result
				(id, user_id, exercise_type, score, grade, report, measurements, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		result.ID, result.UserID, string(result.Exercise), result.Score, result.Grade,
		reportJson, measurementsJson, result.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("%w: %s", ErrResultExists, result.ID)
		}
		if pkg.IsCheckViolationError(err) {
			return fmt.Errorf("%w: %.2f", ErrScoreOutOfRange, result.Score)
		}
		return err
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessment.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, exercise_type, score, grade, report, measurements, created_at
			FROM assessment_result
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}

	result, err := pgx.CollectExactlyOneRow(rows, scanResult)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
		}
		return nil, err
	}

	return result, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string, limit int) (_ []Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessment.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, exercise_type, score, grade, report, measurements, created_at
			FROM assessment_result
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}

	results, err := pgx.CollectRows(rows, scanResult)
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}

	list := make([]Result, 0, len(results))
	for _, res := range results {
		list = append(list, *res)
	}
	return list, nil
}

func (r *Repo) ScoreSummary(ctx context.Context, userID string) (_ *ScoreSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.assessment.score_summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var (
		summary           ScoreSummary
		avg, maxSc, minSc *float64
	)
	err = r.db.QueryRow(
		ctx,
		`
			SELECT COUNT(*), AVG(score), MAX(score), MIN(score), MAX(created_at)
			FROM assessment_result
			WHERE user_id = $1;`,
		userID,
	).Scan(&summary.Total, &avg, &maxSc, &minSc, &summary.Latest)
	if err != nil {
		return nil, err
	}

	if avg != nil {
		summary.Avg = *avg
	}
	if maxSc != nil {
		summary.Max = *maxSc
	}
	if minSc != nil {
		summary.Min = *minSc
	}

	return &summary, nil
}

func scanResult(row pgx.CollectableRow) (*Result, error) {
	var (
		res              Result
		exerciseType     string
		reportJson       []byte
		measurementsJson []byte
	)
	if err := row.Scan(
		&res.ID, &res.UserID, &exerciseType, &res.Score, &res.Grade,
		&reportJson, &measurementsJson, &res.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	if err := decodeResultJson(&res, exerciseType, reportJson, measurementsJson); err != nil {
		return nil, err
	}
	return &res, nil
}

// decodeResultJson fills the JSON encoded parts of a stored result.
func decodeResultJson(res *Result, exerciseType string, reportJson, measurementsJson []byte) error {
	res.Exercise = exercise.Type(exerciseType)

	var report analysis.Report
	if err := json.Unmarshal(reportJson, &report); err != nil {
		return fmt.Errorf("unmarshal report of %s: %w", res.ID, err)
	}
	res.Report = &report

	if len(measurementsJson) > 0 {
		if err := json.Unmarshal(measurementsJson, &res.Measurements); err != nil {
			return fmt.Errorf("unmarshal measurements of %s: %w", res.ID, err)
		}
	}
	return nil
}
