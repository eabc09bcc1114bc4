package models

import "strings"

type OperationKind string

const (
	OperationAnalyze         OperationKind = "analyze"
	OperationParse           OperationKind = "parse"
	OperationExtractKeywords OperationKind = "extract_keywords"
	OperationCompare         OperationKind = "compare"
	OperationEvaluateATS     OperationKind = "evaluate_ats"
	OperationAnalyzeIssues   OperationKind = "analyze_issues"
	OperationGenerateRewrite OperationKind = "generate_rewrite"
	OperationImprovementPlan OperationKind = "generate_improvement_plan"
)

const (
	DefaultKeywordCount       = 25
	DefaultAnalyzeInstruction = "Analyze this CV comprehensively and provide detailed insights."
)

// Requirement declares how an operation treats one logical input.
type Requirement int

const (
	// RequirementNotAccepted means the field is ignored even when supplied.
	RequirementNotAccepted Requirement = iota
	RequirementOptional
	RequirementRequired
	// RequirementRequiredForOperation is optional in general but mandatory
	// for this particular operation (comparison needs a job description).
	RequirementRequiredForOperation
)

// OperationSpec is one row of the operation table. Routing, input
// requirements and the envelope key all come from here.
type OperationSpec struct {
	Kind           OperationKind
	Route          string
	ResultKey      string
	CV             Requirement
	JobDescription Requirement
	FailureLabel   string
}

var Operations = []OperationSpec{
	{
		Kind:           OperationAnalyze,
		Route:          "/analyze",
		ResultKey:      "analysis",
		CV:             RequirementRequired,
		JobDescription: RequirementOptional,
		FailureLabel:   "Analysis failed",
	},
	{
		Kind:           OperationParse,
		Route:          "/parse",
		ResultKey:      "parsed_data",
		CV:             RequirementRequired,
		JobDescription: RequirementNotAccepted,
		FailureLabel:   "Parsing failed",
	},
	{
		Kind:           OperationEvaluateATS,
		Route:          "/ats-score",
		ResultKey:      "ats_evaluation",
		CV:             RequirementRequired,
		JobDescription: RequirementOptional,
		FailureLabel:   "ATS evaluation failed",
	},
	{
		Kind:           OperationCompare,
		Route:          "/compare",
		ResultKey:      "comparison",
		CV:             RequirementRequired,
		JobDescription: RequirementRequiredForOperation,
		FailureLabel:   "Comparison failed",
	},
	{
		Kind:           OperationExtractKeywords,
		Route:          "/keywords",
		ResultKey:      "keywords",
		CV:             RequirementRequired,
		JobDescription: RequirementNotAccepted,
		FailureLabel:   "Keyword extraction failed",
	},
	{
		Kind:           OperationAnalyzeIssues,
		Route:          "/analyze-issues",
		ResultKey:      "issues",
		CV:             RequirementRequired,
		JobDescription: RequirementNotAccepted,
		FailureLabel:   "Issue analysis failed",
	},
	{
		Kind:           OperationGenerateRewrite,
		Route:          "/rewrite",
		ResultKey:      "rewritten_cv",
		CV:             RequirementRequired,
		JobDescription: RequirementOptional,
		FailureLabel:   "CV rewrite failed",
	},
	{
		Kind:           OperationImprovementPlan,
		Route:          "/improvement-plan",
		ResultKey:      "improvement_plan",
		CV:             RequirementRequired,
		JobDescription: RequirementOptional,
		FailureLabel:   "Plan generation failed",
	},
}

func LookupOperation(kind OperationKind) (OperationSpec, bool) {
	for _, op := range Operations {
		if op.Kind == kind {
			return op, true
		}
	}
	return OperationSpec{}, false
}

// OperationParameters carries the per-operation knobs. Zero values mean
// "use the builder default".
type OperationParameters struct {
	TopN        int
	FocusAreas  []string
	Instruction string
}

// ParseFocusAreas splits a comma-separated list, trimming entries and
// dropping empty ones while keeping the caller's order.
func ParseFocusAreas(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var areas []string
	for _, area := range strings.Split(raw, ",") {
		area = strings.TrimSpace(area)
		if area != "" {
			areas = append(areas, area)
		}
	}
	return areas
}

type OperationRequest struct {
	Operation OperationKind
	CV        *CanonicalInput
	// JobDescription is nil when absent.
	JobDescription *CanonicalInput
	Parameters     OperationParameters
}

type EchoMetadata struct {
	CVInputType InputSourceKind
	CVFilename  string
	JDInputType InputSourceKind
	JDFilename  string
}

type OperationResult struct {
	Success   bool
	Operation OperationKind
	// Payload is the model's raw text. It is usually JSON but nothing
	// guarantees that.
	Payload string
	Echo    EchoMetadata
}

// PromptSpec is everything the gateway needs for a single completion.
type PromptSpec struct {
	SystemRole      string
	UserPrompt      string
	Temperature     float32
	MaxOutputTokens int32
}
