package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// AssessmentTables are the tables owned by the service.
var AssessmentTables = []string{"assessment_result"}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS public.assessment_result
(
    id            UUID PRIMARY KEY,
    user_id       VARCHAR          NOT NULL,
    exercise_type VARCHAR          NOT NULL,
    score         DOUBLE PRECISION NOT NULL CHECK (score >= 0 AND score <= 100),
    grade         VARCHAR          NOT NULL,
    report        JSONB            NOT NULL,
    measurements  JSONB            NOT NULL DEFAULT '{}',
    created_at    TIMESTAMPTZ      NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_assessment_result_user_created
    ON public.assessment_result USING btree (user_id, created_at DESC);
`

// EnsureSchema creates the assessment tables and indexes when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	log.Debugf("db schema ensured for tables %v", AssessmentTables)
	return nil
}
