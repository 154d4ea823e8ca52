package agent

import (
	"context"
	"fmt"

	"adpilot/internal/llm"
)

// stageExecutor runs one LLM-backed pipeline stage: render the
// prompt, invoke the model once, and derive a structured result from
// the raw text. It performs no retries; failures surface to the
// orchestrator as stage errors.
type stageExecutor struct {
	client llm.Client
	model  string
}

func newStageExecutor(client llm.Client, model string) *stageExecutor {
	return &stageExecutor{client: client, model: model}
}

// analyzeSignals runs the signal-analysis stage over the rendered
// context brief.
func (e *stageExecutor) analyzeSignals(ctx context.Context, contextText string) (string, *SignalAnalysis, error) {
	prompt := renderPrompt(signalAnalysisPrompt, map[string]string{"context": contextText})

	text, err := e.client.CompleteWithSystem(ctx, analystSystemPrompt, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("signal analysis failed: %w", err)
	}

	return text, parseSignalAnalysis(text), nil
}

// generateRecommendation runs the recommendation stage over the
// analysis text. The analysis is reused verbatim on regeneration.
func (e *stageExecutor) generateRecommendation(ctx context.Context, analysisText string) (string, *Recommendation, error) {
	prompt := renderPrompt(recommendationPrompt, map[string]string{"signal_analysis": analysisText})

	text, err := e.client.CompleteWithSystem(ctx, strategistSystemPrompt, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("recommendation generation failed: %w", err)
	}

	return text, parseRecommendation(text, analysisText, e.model), nil
}

// critiqueRecommendation runs the critique stage over the raw
// recommendation text.
func (e *stageExecutor) critiqueRecommendation(ctx context.Context, recommendationText string) (string, *CritiqueResult, error) {
	prompt := renderPrompt(critiquePrompt, map[string]string{"recommendation": recommendationText})

	text, err := e.client.CompleteWithSystem(ctx, reviewerSystemPrompt, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("critique failed: %w", err)
	}

	return text, parseCritique(text), nil
}

func parseSignalAnalysis(text string) *SignalAnalysis {
	return &SignalAnalysis{
		KeySignals:          ExtractSection(text, "Key Signals"),
		SignalCorrelation:   ExtractSection(text, "Signal Correlation"),
		RootCause:           ExtractSection(text, "Root Cause"),
		Confidence:          ExtractConfidence(text),
		SupportingEvidence:  ExtractSection(text, "Supporting Evidence"),
		AlternateHypotheses: ExtractSection(text, "Alternate"),
	}
}

func parseRecommendation(text, analysisText, model string) *Recommendation {
	return &Recommendation{
		RecommendedWorkflow: ExtractWorkflowType(text),
		Reasoning:           ExtractSection(text, "Reasoning"),
		SpecificActions:     ExtractSection(text, "Specific Actions"),
		ExpectedImpact:      ExtractSection(text, "Expected Impact"),
		RiskLevel:           ExtractRiskLevel(text),
		Confidence:          ExtractConfidence(text),
		Timeline:            ExtractSection(text, "Timeline"),
		SuccessCriteria:     ExtractSection(text, "Success Criteria"),
		Alternatives:        ExtractAlternatives(text),
		SignalAnalysis:      analysisText,
		ModelVersion:        model,
	}
}

func parseCritique(text string) *CritiqueResult {
	critical, major, minor := ExtractIssues(text)
	return &CritiqueResult{
		IsSatisfactory:    ExtractSatisfactory(text),
		CriticalIssues:    critical,
		MajorIssues:       major,
		MinorIssues:       minor,
		Strengths:         ExtractBullets(text, "Strengths"),
		Suggestions:       ExtractBullets(text, "Suggestions"),
		OverallAssessment: ExtractSection(text, "Overall Assessment"),
	}
}
