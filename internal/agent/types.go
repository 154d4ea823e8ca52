// Package agent implements the reasoning pipeline that turns campaign
// telemetry into an actionable recommendation. A run walks a bounded
// state machine: collect context, analyze signals, generate a
// recommendation, critique it, and either loop back to regeneration or
// finalize.
package agent

import (
	"adpilot/internal/contextbuilder"
)

// WorkflowType is an action the pipeline can recommend.
type WorkflowType string

const (
	WorkflowCreativeRefresh    WorkflowType = "Creative Refresh"
	WorkflowAudienceExpansion  WorkflowType = "Audience Expansion"
	WorkflowBidAdjustment      WorkflowType = "Bid Adjustment"
	WorkflowCampaignPause      WorkflowType = "Campaign Pause"
	WorkflowBudgetReallocation WorkflowType = "Budget Reallocation"
	WorkflowContinueMonitoring WorkflowType = "Continue Monitoring"
)

// WorkflowTypes returns all recommendable workflows in vocabulary
// order. Extraction matches against this order, so more specific
// actions come before the Continue Monitoring default.
func WorkflowTypes() []WorkflowType {
	return []WorkflowType{
		WorkflowCreativeRefresh,
		WorkflowAudienceExpansion,
		WorkflowBidAdjustment,
		WorkflowCampaignPause,
		WorkflowBudgetReallocation,
		WorkflowContinueMonitoring,
	}
}

// RiskLevel grades a recommendation's downside.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// SignalAnalysis is the structured result of the signal-analysis
// stage. Fields the model did not address carry the NotSpecified
// sentinel.
type SignalAnalysis struct {
	KeySignals          string  `json:"key_signals"`
	SignalCorrelation   string  `json:"signal_correlation"`
	RootCause           string  `json:"root_cause"`
	Confidence          float64 `json:"confidence"`
	SupportingEvidence  string  `json:"supporting_evidence"`
	AlternateHypotheses string  `json:"alternate_hypotheses"`
}

// AlternativeAction is a workflow the model considered but rejected.
type AlternativeAction struct {
	Workflow          WorkflowType `json:"workflow"`
	WhyNotRecommended string       `json:"why_not_recommended"`
}

// Recommendation is the structured result of the recommendation stage.
type Recommendation struct {
	RecommendedWorkflow WorkflowType `json:"recommended_workflow"`
	Reasoning           string       `json:"reasoning"`
	SpecificActions     string       `json:"specific_actions"`
	ExpectedImpact      string       `json:"expected_impact"`
	RiskLevel           RiskLevel    `json:"risk_level"`
	Confidence          float64      `json:"confidence"`
	Timeline            string       `json:"timeline"`
	SuccessCriteria     string       `json:"success_criteria"`

	Alternatives []AlternativeAction `json:"alternatives"`

	// SignalAnalysis is the raw analysis text this recommendation was
	// generated from.
	SignalAnalysis string `json:"signal_analysis"`
	ModelVersion   string `json:"model_version,omitempty"`
}

// CritiqueResult is the structured verdict of the critique stage. A
// critical issue forces regeneration regardless of IsSatisfactory.
type CritiqueResult struct {
	IsSatisfactory bool `json:"is_satisfactory"`

	CriticalIssues []string `json:"critical_issues"`
	MajorIssues    []string `json:"major_issues"`
	MinorIssues    []string `json:"minor_issues"`
	Strengths      []string `json:"strengths"`
	Suggestions    []string `json:"suggestions"`

	OverallAssessment string `json:"overall_assessment"`
}

// Message is one entry in the run transcript.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// PipelineState is the orchestrator's working memory for one run. It
// is created fresh per run, extended by every stage, and owned
// exclusively by the orchestrator until the run completes.
type PipelineState struct {
	CampaignID  string
	Context     *contextbuilder.CampaignContext
	ContextText string

	Messages []Message

	Analysis     *SignalAnalysis
	AnalysisText string

	Recommendation     *Recommendation
	RecommendationText string

	Critique *CritiqueResult

	Iteration int
	Errors    []string
	Metadata  map[string]any
}

func newPipelineState(campaignID string) *PipelineState {
	return &PipelineState{
		CampaignID: campaignID,
		Metadata:   make(map[string]any),
	}
}

func (s *PipelineState) recordError(err string) {
	s.Errors = append(s.Errors, err)
}

func (s *PipelineState) appendExchange(system, user, assistant string) {
	s.Messages = append(s.Messages,
		Message{Role: "system", Content: system},
		Message{Role: "user", Content: user},
		Message{Role: "assistant", Content: assistant},
	)
}

// RunResult is what a completed run exposes, regardless of how
// termination was reached. A collection failure leaves the
// recommendation and analysis nil with a non-empty error list; a
// degraded run carries partial fields plus errors; a clean run has an
// empty error list.
type RunResult struct {
	CampaignID     string                          `json:"campaign_id"`
	Recommendation *Recommendation                 `json:"recommendation,omitempty"`
	Analysis       *SignalAnalysis                 `json:"signal_analysis,omitempty"`
	Critique       *CritiqueResult                 `json:"critique,omitempty"`
	Context        *contextbuilder.CampaignContext `json:"context,omitempty"`
	Metadata       map[string]any                  `json:"metadata"`
	Errors         []string                        `json:"errors"`
}
