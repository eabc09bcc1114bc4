package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-agent/internal/models"
)

const (
	extractionTemperature float32 = 0.3
	rewriteTemperature    float32 = 0.4
	defaultTopN                   = 20
)

// PromptInput is the resolved text content of an OperationRequest. An
// empty JobDescription means none was supplied.
type PromptInput struct {
	CVText         string
	JobDescription string
	TopN           int
	FocusAreas     []string
	Instruction    string
}

// PromptBuilder assembles one PromptSpec per operation. It holds no state
// and the same input always yields the same spec.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (pb *PromptBuilder) Build(kind models.OperationKind, in PromptInput) (models.PromptSpec, error) {
	switch kind {
	case models.OperationAnalyze:
		return pb.BuildAnalyzePrompt(in.CVText, in.JobDescription, in.Instruction), nil
	case models.OperationParse:
		return pb.BuildParsePrompt(in.CVText), nil
	case models.OperationExtractKeywords:
		return pb.BuildKeywordsPrompt(in.CVText, in.TopN), nil
	case models.OperationCompare:
		if strings.TrimSpace(in.JobDescription) == "" {
			return models.PromptSpec{}, models.NewMissingInputError(models.FieldJobDescription, kind, true)
		}
		return pb.BuildComparePrompt(in.CVText, in.JobDescription), nil
	case models.OperationEvaluateATS:
		return pb.BuildATSPrompt(in.CVText, in.JobDescription), nil
	case models.OperationAnalyzeIssues:
		return pb.BuildIssuesPrompt(in.CVText), nil
	case models.OperationGenerateRewrite:
		return pb.BuildRewritePrompt(in.CVText, in.JobDescription, in.FocusAreas), nil
	case models.OperationImprovementPlan:
		return pb.BuildImprovementPlanPrompt(in.CVText, in.JobDescription), nil
	default:
		return models.PromptSpec{}, fmt.Errorf("unknown operation: %q", kind)
	}
}

// BuildAnalyzePrompt runs a caller-supplied instruction over the CV.
func (pb *PromptBuilder) BuildAnalyzePrompt(cvText, jobDescription, instruction string) models.PromptSpec {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = models.DefaultAnalyzeInstruction
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nCV TEXT:\n")
	b.WriteString(cvText)
	if jobDescription != "" {
		b.WriteString("\n\nJob Description:\n")
		b.WriteString(jobDescription)
	}
	b.WriteString("\n\nPresent key findings, scores where relevant, and prioritized, actionable recommendations.")

	return models.PromptSpec{
		SystemRole:      "You are an expert Resume/CV analysis and optimization assistant. Be encouraging but honest about areas needing improvement.",
		UserPrompt:      b.String(),
		Temperature:     extractionTemperature,
		MaxOutputTokens: 4000,
	}
}

func (pb *PromptBuilder) BuildParsePrompt(cvText string) models.PromptSpec {
	return models.PromptSpec{
		SystemRole: "You are an expert CV parser. Extract information accurately and return valid JSON.",
		UserPrompt: fmt.Sprintf(`Analyze the following CV/Resume and extract structured information in JSON format.

Extract the following sections:
- Contact Information (name, email, phone, LinkedIn, location)
- Professional Summary/Objective
- Work Experience (company, role, duration, responsibilities, achievements)
- Education (institution, degree, year, GPA if mentioned)
- Skills (technical skills, soft skills, tools, languages)
- Certifications and Licenses
- Projects (if any)
- Additional sections (awards, publications, volunteer work, etc.)

CV Content:
%s

Provide a comprehensive structured analysis in JSON format.`, cvText),
		Temperature:     extractionTemperature,
		MaxOutputTokens: 2000,
	}
}

// BuildKeywordsPrompt asks for the top N keywords; N <= 0 means 20.
func (pb *PromptBuilder) BuildKeywordsPrompt(text string, topN int) models.PromptSpec {
	if topN <= 0 {
		topN = defaultTopN
	}

	return models.PromptSpec{
		SystemRole: "You are an expert in keyword extraction for resumes and job descriptions. Focus on ATS-relevant terms.",
		UserPrompt: fmt.Sprintf(`Analyze the following text and extract the top %d most important keywords and key phrases.

Focus on:
- Technical skills and tools
- Industry-specific terminology
- Action verbs and accomplishments
- Certifications and qualifications
- Domain expertise indicators

Rank them by importance and relevance for job matching and ATS systems.

Text:
%s

Return a JSON array with keywords, their category (skill/tool/action/domain), and importance score.`, topN, text),
		Temperature:     extractionTemperature,
		MaxOutputTokens: 1500,
	}
}

func (pb *PromptBuilder) BuildComparePrompt(cvText, jobDescription string) models.PromptSpec {
	return models.PromptSpec{
		SystemRole: "You are an expert recruiter and ATS specialist. Provide detailed, actionable matching analysis.",
		UserPrompt: fmt.Sprintf(`Compare the following CV with the Job Description and provide a comprehensive analysis.

Analyze:
1. Keyword Match - Which required keywords from the job description are present/missing in the CV
2. Skills Match - Technical and soft skills alignment
3. Experience Match - How well the experience aligns with job requirements
4. Qualification Match - Education and certification requirements
5. Overall Fit Score (0-100)
6. Specific recommendations to improve match

CV:
%s

Job Description:
%s

Provide detailed analysis in JSON format with specific examples and actionable recommendations.`, cvText, jobDescription),
		Temperature:     extractionTemperature,
		MaxOutputTokens: 2000,
	}
}

// BuildATSPrompt embeds the 100-point rubric. The model applies it; nothing
// here computes a score.
func (pb *PromptBuilder) BuildATSPrompt(cvText, jobDescription string) models.PromptSpec {
	jdContext := ""
	if jobDescription != "" {
		jdContext = "\n\nJob Description for context:\n" + jobDescription
	}

	return models.PromptSpec{
		SystemRole: "You are an ATS (Applicant Tracking System) expert. Evaluate resumes thoroughly and provide actionable feedback.",
		UserPrompt: fmt.Sprintf(`Evaluate the following CV for ATS (Applicant Tracking System) compatibility.

Analyze these critical areas:

1. **Structure & Formatting** (0-25 points)
   - Proper section headers
   - Logical organization
   - Clean formatting for parsing

2. **Contact Information** (0-15 points)
   - Email, phone, location present
   - Professional profiles (LinkedIn)

3. **Keywords & Content** (0-30 points)
   - Industry-relevant keywords
   - Action verbs and achievements
   - Quantifiable results

4. **Completeness** (0-20 points)
   - All essential sections present
   - Sufficient detail in each section

5. **Job Match** (0-10 points)
   - Alignment with job requirements (if job description provided)

CV Content:
%s%s

Provide:
- Overall ATS Score (0-100)
- Score breakdown for each area
- Specific issues found
- Detailed recommendations for improvement
- Priority ranking of fixes (Critical/High/Medium/Low)

Return analysis in JSON format.`, cvText, jdContext),
		Temperature:     extractionTemperature,
		MaxOutputTokens: 2500,
	}
}

func (pb *PromptBuilder) BuildIssuesPrompt(cvText string) models.PromptSpec {
	return models.PromptSpec{
		SystemRole: "You are a professional resume writer and career coach. Identify issues comprehensively and provide actionable solutions.",
		UserPrompt: fmt.Sprintf(`Perform a comprehensive analysis of this CV to identify all issues and areas for improvement.

Categorize issues into:

1. **Critical Issues** (Must fix immediately)
   - Missing essential information
   - Major formatting problems
   - ATS-blocking issues

2. **Major Issues** (Important to fix)
   - Weak content areas
   - Missing key sections
   - Poor keyword optimization

3. **Minor Issues** (Good to improve)
   - Formatting inconsistencies
   - Wording improvements
   - Organization tweaks

4. **Suggestions** (Enhancement opportunities)
   - Additional sections to add
   - Content enrichment ideas
   - Modern best practices

CV Content:
%s

For each issue:
- Clearly describe the problem
- Explain why it matters
- Provide specific fix recommendations
- Show before/after examples where applicable

Return comprehensive analysis in JSON format.`, cvText),
		Temperature:     extractionTemperature,
		MaxOutputTokens: 2500,
	}
}

// BuildRewritePrompt keeps focusAreas in the order given.
func (pb *PromptBuilder) BuildRewritePrompt(cvText, jobDescription string, focusAreas []string) models.PromptSpec {
	var extra strings.Builder
	if jobDescription != "" {
		extra.WriteString("\n\nTailor the CV for this job:\n")
		extra.WriteString(jobDescription)
	}
	if len(focusAreas) > 0 {
		extra.WriteString("\n\nFocus especially on: ")
		extra.WriteString(strings.Join(focusAreas, ", "))
	}

	return models.PromptSpec{
		SystemRole: "You are an expert resume writer with 15+ years experience. Create compelling, ATS-optimized resumes that get interviews.",
		UserPrompt: fmt.Sprintf(`Rewrite and improve the following CV to make it more effective and ATS-friendly.

Improvements to make:
1. Strengthen action verbs and quantify achievements
2. Optimize keywords for ATS
3. Improve structure and formatting
4. Enhance professional summary
5. Refine experience descriptions
6. Better showcase skills and accomplishments%s

Original CV:
%s

Provide:
1. Complete rewritten CV in professional format
2. Summary of key changes made
3. Explanation of improvements and why they matter
4. Before/after comparison for major sections

Return in JSON format with separate fields for the rewritten CV and change explanations.`, extra.String(), cvText),
		Temperature:     rewriteTemperature,
		MaxOutputTokens: 3500,
	}
}

func (pb *PromptBuilder) BuildImprovementPlanPrompt(cvText, jobDescription string) models.PromptSpec {
	jdContext := ""
	if jobDescription != "" {
		jdContext = "\n\nJob Description:\n" + jobDescription
	}

	return models.PromptSpec{
		SystemRole: "You are a career coach and resume expert. Create actionable, prioritized improvement plans.",
		UserPrompt: fmt.Sprintf(`Create a comprehensive, prioritized improvement plan for this CV.

CV Content:
%s%s

Provide a step-by-step plan that includes:

1. **Quick Wins** (0-30 minutes)
   - Immediate fixes that have high impact

2. **Essential Improvements** (30 min - 2 hours)
   - Important changes to content and structure

3. **Advanced Optimization** (2-4 hours)
   - Deep improvements and tailoring

4. **Long-term Enhancements** (ongoing)
   - Skills to develop, experiences to gain

For each improvement:
- Specific action to take
- Expected impact (High/Medium/Low)
- Time required
- Detailed instructions
- Examples where helpful

Also provide:
- Current CV strength score (0-100)
- Projected score after improvements
- Priority ranking of all improvements

Return detailed plan in JSON format.`, cvText, jdContext),
		Temperature:     extractionTemperature,
		MaxOutputTokens: 3000,
	}
}
