package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildFitScorePrompt creates the prompt for scoring one resume against a
// job description. The model must answer with strict JSON carrying the
// "fit_score" and "justification" keys.
func (pb *PromptBuilder) BuildFitScorePrompt(resumeText, jobDescText string) string {
	return fmt.Sprintf(`You are an expert technical recruiter. Your task is to evaluate a candidate's resume against a job description.
Provide a "fit_score" from 1.0 to 10.0, where 10.0 is a perfect match.
Also, provide a concise "justification" (2-3 sentences) explaining your reasoning, highlighting key strengths or gaps.

Return your response ONLY as a valid JSON object with two keys: "fit_score" and "justification".

--- JOB DESCRIPTION ---
%s

--- RESUME ---
%s`, jobDescText, resumeText)
}
