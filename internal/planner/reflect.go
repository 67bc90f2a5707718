package planner

import (
	"context"
	"strings"

	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/prompts"
)

const reflectMaxTokens = 512

// gapKeywords are the markers scanned for in the reflection answer. The
// model is asked a free-text question, so detection is a plain keyword
// heuristic rather than structured output.
var gapKeywords = []string{"issue", "gap", "missing", "incomplete"}

// reflectOnDraft asks the model whether the draft plan has gaps and applies
// the keyword heuristic to the answer. This step is advisory: any failure
// is swallowed and reported as "no gaps" so reflection can never sink an
// otherwise valid run.
func reflectOnDraft(ctx context.Context, client llm.Client, tier llm.ModelTier, planJSON string) (string, bool) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "reflect-plan"), map[string]string{
		"PlanJSON": planJSON,
	})
	answer, err := client.GenerateContent(ctx, llm.Request{
		Prompt:      prompt,
		Tier:        tier,
		MaxTokens:   reflectMaxTokens,
		Temperature: llm.DefaultTextTemperature,
	})
	if err != nil {
		return "", false
	}
	return answer, answerFlagsGaps(answer)
}

func answerFlagsGaps(answer string) bool {
	lower := strings.ToLower(answer)
	for _, kw := range gapKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
