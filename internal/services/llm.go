package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// LLMScore is the structured verdict from the scoring model. Failures are
// reported as errors, never as a zero score, so a genuine 0.0 can not be
// confused with "scoring failed".
type LLMScore struct {
	FitScore      float64 `json:"fit_score"`
	Justification string  `json:"justification"`
}

type LLMScorerService interface {
	// ScoreResume asks the model for a 1-10 fit score and a short
	// justification. Network, auth, timeout and parse failures all come
	// back as errors; the caller decides on the fallback.
	ScoreResume(ctx context.Context, resumeText, jobDescText string) (*LLMScore, error)
}

type geminiScorerService struct {
	client        *genai.Client
	modelName     string
	promptBuilder *PromptBuilder
	timeout       time.Duration
}

func NewLLMScorerService(client *genai.Client, timeout time.Duration) LLMScorerService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &geminiScorerService{
		client:        client,
		modelName:     "gemini-2.5-flash",
		promptBuilder: NewPromptBuilder(),
		timeout:       timeout,
	}
}

// ScoreResume implements LLMScorerService.
func (g *geminiScorerService) ScoreResume(ctx context.Context, resumeText, jobDescText string) (*LLMScore, error) {
	prompt := g.promptBuilder.BuildFitScorePrompt(resumeText, jobDescText)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 1024,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("llm call failed: %w", err)
	}

	if resp == nil || resp.Text() == "" {
		return nil, fmt.Errorf("llm returned an empty response")
	}

	return parseLLMScore(resp.Text())
}

// parseLLMScore decodes the model output as strict JSON. The model sometimes
// wraps the object in markdown fences, so the JSON is extracted first.
func parseLLMScore(response string) (*LLMScore, error) {
	jsonStr := extractJSON(response)

	var score LLMScore
	if err := json.Unmarshal([]byte(jsonStr), &score); err != nil {
		return nil, fmt.Errorf("failed to parse llm response as JSON: %w", err)
	}

	if score.FitScore < 1.0 || score.FitScore > 10.0 {
		return nil, fmt.Errorf("llm fit_score out of range: %g", score.FitScore)
	}

	if strings.TrimSpace(score.Justification) == "" {
		score.Justification = "Could not parse justification from LLM response."
	}

	return &score, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object boundaries
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
