// Package store persists pipeline recommendations to SQLite so they
// can be reviewed and decided on after the run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"adpilot/internal/agent"
	"adpilot/internal/contextbuilder"
)

// ErrNotFound is returned when no record exists for an id.
var ErrNotFound = errors.New("recommendation not found")

// DecisionStatus is the human verdict on a stored recommendation.
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionApproved DecisionStatus = "approved"
	DecisionRejected DecisionStatus = "rejected"
)

// ValidDecision reports whether s is a known decision status.
func ValidDecision(s DecisionStatus) bool {
	switch s {
	case DecisionPending, DecisionApproved, DecisionRejected:
		return true
	}
	return false
}

// Record is one stored recommendation with its context snapshot and
// decision state.
type Record struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`

	Workflow        agent.WorkflowType `json:"recommended_workflow"`
	Reasoning       string             `json:"reasoning"`
	SpecificActions string             `json:"specific_actions"`
	ExpectedImpact  string             `json:"expected_impact"`
	RiskLevel       agent.RiskLevel    `json:"risk_level"`
	Confidence      float64            `json:"confidence"`
	Timeline        string             `json:"timeline"`
	SuccessCriteria string             `json:"success_criteria"`

	SignalAnalysis string                          `json:"signal_analysis"`
	RootCause      string                          `json:"root_cause"`
	Context        *contextbuilder.CampaignContext `json:"context,omitempty"`
	Alternatives   []agent.AlternativeAction       `json:"alternatives,omitempty"`

	Decision         DecisionStatus `json:"decision"`
	DecisionFeedback string         `json:"decision_feedback,omitempty"`
	DecidedAt        *time.Time     `json:"decided_at,omitempty"`

	ModelVersion    string `json:"model_version,omitempty"`
	TotalIterations int    `json:"total_iterations"`

	CreatedAt time.Time `json:"created_at"`
}

// RecordFromResult builds a storable record from a completed run.
// Returns false when the run produced no recommendation.
func RecordFromResult(result *agent.RunResult) (Record, bool) {
	if result == nil || result.Recommendation == nil {
		return Record{}, false
	}
	rec := result.Recommendation

	iterations := 0
	if v, ok := result.Metadata["total_iterations"].(int); ok {
		iterations = v
	}

	rootCause := ""
	if result.Analysis != nil {
		rootCause = result.Analysis.RootCause
	}

	return Record{
		CampaignID:      result.CampaignID,
		Workflow:        rec.RecommendedWorkflow,
		Reasoning:       rec.Reasoning,
		SpecificActions: rec.SpecificActions,
		ExpectedImpact:  rec.ExpectedImpact,
		RiskLevel:       rec.RiskLevel,
		Confidence:      rec.Confidence,
		Timeline:        rec.Timeline,
		SuccessCriteria: rec.SuccessCriteria,
		SignalAnalysis:  rec.SignalAnalysis,
		RootCause:       rootCause,
		Context:         result.Context,
		Alternatives:    rec.Alternatives,
		Decision:        DecisionPending,
		ModelVersion:    rec.ModelVersion,
		TotalIterations: iterations,
	}, true
}

// RecommendationStore is a SQLite-backed recommendation log.
type RecommendationStore struct {
	db   *sql.DB
	path string
}

// Open initializes the store at the given path, creating the database
// and schema as needed.
func Open(path string) (*RecommendationStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &RecommendationStore{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *RecommendationStore) initialize() error {
	const schema = `
CREATE TABLE IF NOT EXISTS recommendations (
	id                TEXT PRIMARY KEY,
	campaign_id       TEXT NOT NULL,
	workflow          TEXT NOT NULL,
	reasoning         TEXT NOT NULL,
	specific_actions  TEXT,
	expected_impact   TEXT,
	risk_level        TEXT NOT NULL,
	confidence        REAL NOT NULL,
	timeline          TEXT,
	success_criteria  TEXT,
	signal_analysis   TEXT,
	root_cause        TEXT,
	context_json      TEXT NOT NULL,
	alternatives_json TEXT,
	decision          TEXT NOT NULL DEFAULT 'pending',
	decision_feedback TEXT,
	decided_at        TIMESTAMP,
	model_version     TEXT,
	total_iterations  INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendations_campaign
	ON recommendations(campaign_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_decision
	ON recommendations(decision);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *RecommendationStore) Close() error {
	return s.db.Close()
}

// Save inserts a record and returns its generated id.
func (s *RecommendationStore) Save(ctx context.Context, rec Record) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if rec.Decision == "" {
		rec.Decision = DecisionPending
	}

	contextJSON, err := json.Marshal(rec.Context)
	if err != nil {
		return "", fmt.Errorf("failed to encode context: %w", err)
	}
	alternativesJSON, err := json.Marshal(rec.Alternatives)
	if err != nil {
		return "", fmt.Errorf("failed to encode alternatives: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO recommendations (
	id, campaign_id, workflow, reasoning, specific_actions,
	expected_impact, risk_level, confidence, timeline, success_criteria,
	signal_analysis, root_cause, context_json, alternatives_json,
	decision, decision_feedback, decided_at, model_version,
	total_iterations, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.CampaignID, string(rec.Workflow), rec.Reasoning, rec.SpecificActions,
		rec.ExpectedImpact, string(rec.RiskLevel), rec.Confidence, rec.Timeline, rec.SuccessCriteria,
		rec.SignalAnalysis, rec.RootCause, string(contextJSON), string(alternativesJSON),
		string(rec.Decision), rec.DecisionFeedback, rec.DecidedAt, rec.ModelVersion,
		rec.TotalIterations, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save recommendation: %w", err)
	}
	return id, nil
}

// Get loads a record by id.
func (s *RecommendationStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, campaign_id, workflow, reasoning, specific_actions,
	expected_impact, risk_level, confidence, timeline, success_criteria,
	signal_analysis, root_cause, context_json, alternatives_json,
	decision, decision_feedback, decided_at, model_version,
	total_iterations, created_at
FROM recommendations WHERE id = ?`, id)
	return scanRecord(row)
}

// ListRecent returns up to limit records, newest first.
func (s *RecommendationStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, campaign_id, workflow, reasoning, specific_actions,
	expected_impact, risk_level, confidence, timeline, success_criteria,
	signal_analysis, root_cause, context_json, alternatives_json,
	decision, decision_feedback, decided_at, model_version,
	total_iterations, created_at
FROM recommendations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Decide records the human verdict on a recommendation.
func (s *RecommendationStore) Decide(ctx context.Context, id string, status DecisionStatus, feedback string) error {
	if !ValidDecision(status) {
		return fmt.Errorf("invalid decision status %q", status)
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE recommendations
SET decision = ?, decision_feedback = ?, decided_at = ?
WHERE id = ?`,
		string(status), feedback, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec              Record
		workflow         string
		risk             string
		decision         string
		contextJSON      string
		alternativesJSON sql.NullString
		feedback         sql.NullString
		decidedAt        sql.NullTime
		modelVersion     sql.NullString
	)

	err := row.Scan(
		&rec.ID, &rec.CampaignID, &workflow, &rec.Reasoning, &rec.SpecificActions,
		&rec.ExpectedImpact, &risk, &rec.Confidence, &rec.Timeline, &rec.SuccessCriteria,
		&rec.SignalAnalysis, &rec.RootCause, &contextJSON, &alternativesJSON,
		&decision, &feedback, &decidedAt, &modelVersion,
		&rec.TotalIterations, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to scan recommendation: %w", err)
	}

	rec.Workflow = agent.WorkflowType(workflow)
	rec.RiskLevel = agent.RiskLevel(risk)
	rec.Decision = DecisionStatus(decision)
	if feedback.Valid {
		rec.DecisionFeedback = feedback.String
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		rec.DecidedAt = &t
	}
	if modelVersion.Valid {
		rec.ModelVersion = modelVersion.String
	}

	if contextJSON != "" && contextJSON != "null" {
		var cc contextbuilder.CampaignContext
		if err := json.Unmarshal([]byte(contextJSON), &cc); err != nil {
			return Record{}, fmt.Errorf("failed to decode context: %w", err)
		}
		rec.Context = &cc
	}
	if alternativesJSON.Valid && alternativesJSON.String != "" && alternativesJSON.String != "null" {
		if err := json.Unmarshal([]byte(alternativesJSON.String), &rec.Alternatives); err != nil {
			return Record{}, fmt.Errorf("failed to decode alternatives: %w", err)
		}
	}

	return rec, nil
}
