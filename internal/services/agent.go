package services

import (
	"context"
	"fmt"
	"iter"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
	"google.golang.org/genai"

	"alfredoptarigan/resume-agent/internal/models"
)

const (
	agentName   = "resume_agent"
	agentUserID = "resume_agent_user"
)

// ChatAgent is the conversational front end over the operations. Each
// session keeps its own history.
type ChatAgent interface {
	NewSession(ctx context.Context) (string, error)
	// Send creates the session when sessionID is empty or unknown.
	Send(ctx context.Context, sessionID, message string) (reply string, resolvedID string, err error)
}

// runFunc is the part of *runner.Runner the agent uses.
type runFunc func(ctx context.Context, userID, sessionID string, msg *genai.Content, cfg agent.RunConfig) iter.Seq2[*session.Event, error]

type chatAgent struct {
	run      runFunc
	sessions session.Service
	timeout  time.Duration
}

type ChatAgentOptions struct {
	APIKey    string
	Model     string
	MaxTokens int32
	// Timeout bounds one turn. Zero means no limit beyond the caller's ctx.
	Timeout time.Duration
}

func NewChatAgent(ctx context.Context, opts ChatAgentOptions, analyzer AnalyzerService) (ChatAgent, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is empty")
	}

	model, err := gemini.NewModel(ctx, opts.Model, &genai.ClientConfig{
		APIKey: opts.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	tools, err := newAnalysisTools(analyzer).build()
	if err != nil {
		return nil, err
	}

	resumeAgent, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Analyze and optimize resumes",
		Instruction: agentInstruction,
		Tools:       tools,
		GenerateContentConfig: &genai.GenerateContentConfig{
			MaxOutputTokens: opts.MaxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        resumeAgent.Name(),
		Agent:          resumeAgent,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &chatAgent{run: r.Run, sessions: sessions, timeout: opts.Timeout}, nil
}

func (c *chatAgent) NewSession(ctx context.Context) (string, error) {
	return c.createSession(ctx, uuid.NewString())
}

func (c *chatAgent) createSession(ctx context.Context, id string) (string, error) {
	resp, err := c.sessions.Create(ctx, &session.CreateRequest{
		AppName:   agentName,
		UserID:    agentUserID,
		SessionID: id,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return resp.Session.ID(), nil
}

func (c *chatAgent) ensureSession(ctx context.Context, id string) (string, error) {
	if id == "" {
		return c.NewSession(ctx)
	}
	_, err := c.sessions.Get(ctx, &session.GetRequest{
		AppName:   agentName,
		UserID:    agentUserID,
		SessionID: id,
	})
	if err == nil {
		return id, nil
	}
	return c.createSession(ctx, id)
}

func (c *chatAgent) Send(ctx context.Context, sessionID, message string) (string, string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	sessionID, err := c.ensureSession(ctx, sessionID)
	if err != nil {
		return "", "", err
	}

	stream := c.run(ctx, agentUserID, sessionID, &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: message},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", sessionID, classifyGatewayError(err)
		}
		if ctx.Err() != nil {
			return "", sessionID, classifyGatewayError(ctx.Err())
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}

	if strings.TrimSpace(output) == "" {
		return "", sessionID, &models.GatewayError{Status: http.StatusBadGateway, Message: "empty agent response"}
	}
	return output, sessionID, nil
}

type cvArgs struct {
	CVText string `json:"cv_text" jsonschema:"the full text of the CV"`
}

type jobArgs struct {
	CVText         string `json:"cv_text" jsonschema:"the full text of the CV"`
	JobDescription string `json:"job_description,omitempty" jsonschema:"the job description text"`
}

type keywordArgs struct {
	Text string `json:"text" jsonschema:"CV or job description text"`
	TopN int    `json:"top_n,omitempty" jsonschema:"number of keywords to return"`
}

type rewriteArgs struct {
	CVText         string   `json:"cv_text" jsonschema:"the full text of the CV"`
	JobDescription string   `json:"job_description,omitempty" jsonschema:"job description to tailor the CV to"`
	FocusAreas     []string `json:"focus_areas,omitempty" jsonschema:"areas to emphasize, in priority order"`
}

type toolResult struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// analysisTools exposes each operation to the agent. Tools only ever see
// text; file extraction happens before the message reaches the agent.
type analysisTools struct {
	analyzer AnalyzerService
}

func newAnalysisTools(analyzer AnalyzerService) *analysisTools {
	return &analysisTools{analyzer: analyzer}
}

func (t *analysisTools) build() ([]tool.Tool, error) {
	var tools []tool.Tool

	parseTool, err := functiontool.New(functiontool.Config{
		Name:        "parse_cv",
		Description: "Extract structured information (contact, experience, education, skills) from CV text.",
	}, func(ctx tool.Context, args cvArgs) toolResult {
		return t.run(ctx, models.OperationParse, args.CVText, "", models.OperationParameters{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create parse_cv tool: %w", err)
	}
	tools = append(tools, parseTool)

	keywordsTool, err := functiontool.New(functiontool.Config{
		Name:        "extract_keywords",
		Description: "Extract the most important ATS keywords from a CV or job description.",
	}, func(ctx tool.Context, args keywordArgs) toolResult {
		return t.run(ctx, models.OperationExtractKeywords, args.Text, "", models.OperationParameters{TopN: args.TopN})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extract_keywords tool: %w", err)
	}
	tools = append(tools, keywordsTool)

	compareTool, err := functiontool.New(functiontool.Config{
		Name:        "compare_cv_with_job",
		Description: "Compare a CV against a job description and report keyword, skill and experience gaps.",
	}, func(ctx tool.Context, args jobArgs) toolResult {
		return t.run(ctx, models.OperationCompare, args.CVText, args.JobDescription, models.OperationParameters{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create compare_cv_with_job tool: %w", err)
	}
	tools = append(tools, compareTool)

	atsTool, err := functiontool.New(functiontool.Config{
		Name:        "evaluate_ats_score",
		Description: "Score a CV out of 100 for ATS compatibility, optionally against a job description.",
	}, func(ctx tool.Context, args jobArgs) toolResult {
		return t.run(ctx, models.OperationEvaluateATS, args.CVText, args.JobDescription, models.OperationParameters{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluate_ats_score tool: %w", err)
	}
	tools = append(tools, atsTool)

	issuesTool, err := functiontool.New(functiontool.Config{
		Name:        "analyze_cv_issues",
		Description: "Identify CV issues categorized as critical, major, minor and suggestions.",
	}, func(ctx tool.Context, args cvArgs) toolResult {
		return t.run(ctx, models.OperationAnalyzeIssues, args.CVText, "", models.OperationParameters{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze_cv_issues tool: %w", err)
	}
	tools = append(tools, issuesTool)

	rewriteTool, err := functiontool.New(functiontool.Config{
		Name:        "generate_cv_rewrite",
		Description: "Rewrite a CV to be stronger and ATS-friendly, optionally tailored to a job description.",
	}, func(ctx tool.Context, args rewriteArgs) toolResult {
		return t.run(ctx, models.OperationGenerateRewrite, args.CVText, args.JobDescription, models.OperationParameters{FocusAreas: args.FocusAreas})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generate_cv_rewrite tool: %w", err)
	}
	tools = append(tools, rewriteTool)

	planTool, err := functiontool.New(functiontool.Config{
		Name:        "generate_improvement_plan",
		Description: "Create a prioritized improvement plan for a CV, from quick wins to long-term work.",
	}, func(ctx tool.Context, args jobArgs) toolResult {
		return t.run(ctx, models.OperationImprovementPlan, args.CVText, args.JobDescription, models.OperationParameters{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generate_improvement_plan tool: %w", err)
	}
	tools = append(tools, planTool)

	return tools, nil
}

// run reports failures inside the result so the agent can explain them.
func (t *analysisTools) run(ctx context.Context, kind models.OperationKind, cvText, jobDescription string, params models.OperationParameters) toolResult {
	if strings.TrimSpace(cvText) == "" {
		return toolResult{Error: models.NewMissingInputError(models.FieldCV, kind, false).Error()}
	}

	req := &models.OperationRequest{
		Operation:  kind,
		CV:         models.TextInput(cvText),
		Parameters: params,
	}
	if strings.TrimSpace(jobDescription) != "" {
		req.JobDescription = models.TextInput(jobDescription)
	}

	log.Printf("🔧 Agent tool call: %s\n", kind)
	result, err := t.analyzer.Execute(ctx, req)
	if err != nil {
		return toolResult{Error: err.Error()}
	}
	return toolResult{Success: true, Result: result.Payload}
}

const agentInstruction = `You are an expert Resume/CV Analysis and Optimization Agent.

**Your Core Capabilities:**

1. **CV Parsing** - Extract and structure all information from resumes
   - Contact details, work experience, education, skills, certifications
   - Use parse_cv tool for comprehensive extraction

2. **Keyword Generation** - Identify critical keywords for ATS optimization
   - Extract keywords from CVs and job descriptions
   - Use extract_keywords tool with appropriate top_n parameter

3. **ATS Evaluation** - Score resumes for Applicant Tracking System compatibility
   - Evaluate structure, formatting, keywords, content quality
   - Provide scores out of 100 with detailed breakdowns
   - Use evaluate_ats_score tool (with or without job description)

4. **Job Matching** - Compare CVs against job descriptions
   - Identify matching and missing keywords
   - Analyze skills, experience, and qualification alignment
   - Provide fit scores and specific recommendations
   - Use compare_cv_with_job tool

5. **Issue Analysis** - Deep dive into CV problems
   - Categorize issues: Critical, Major, Minor, Suggestions
   - Provide specific fixes with examples
   - Use analyze_cv_issues tool

6. **CV Rewriting** - Generate improved versions of CVs
   - Optimize for ATS while maintaining readability
   - Strengthen language and quantify achievements
   - Tailor to specific job descriptions
   - Use generate_cv_rewrite tool (optionally with job_description and focus_areas)

7. **Improvement Planning** - Create actionable roadmaps
   - Prioritized steps from quick wins to long-term enhancements
   - Time estimates and impact assessment
   - Use generate_improvement_plan tool

**How to Handle Files:**
When the user attaches a file, its extracted text is included in the message
under "Attached file". Pass that text to the tools as cv_text.

**Best Practices:**
- Always use the tools for analysis
- Combine multiple tools for thorough analysis when needed
- When comparing with job descriptions, use compare_cv_with_job
- For rewriting requests, ask if there's a specific job description to tailor to
- Provide both analysis AND actionable next steps

**Response Format:**
- Present tool outputs in a clear, organized manner
- Highlight key findings and scores
- Prioritize recommendations by impact
- Use markdown formatting for readability
- Be encouraging but honest about areas needing improvement`
