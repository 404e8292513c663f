package ai

import (
	"context"
	"cothread/services/ai/local"
	"log"
	"strconv"
	"strings"
)

// Input bounds, in characters. Keeps request size and token usage in check
// no matter how long the story gets.
const (
	maxStoryContext   = 1200
	maxLastTurn       = 240
	maxPreviousPrompt = 200
	maxSeed           = 200
	maxFallbackBase   = 160
)

/*
 * StoryGuide is the game's only door to text generation. Every method
 * resolves to a usable string: if the provider is disabled, times out or
 * returns garbage, the local templates take over. Callers never see an error,
 * so the turn loop is fully decoupled from third-party availability.
 */
type StoryGuide struct {
	provider Provider
	model    string
}

func NewStoryGuide(p Provider, model string) *StoryGuide {
	return &StoryGuide{provider: p, model: model}
}

// GuideContext carries the story context for guide-prompt generation.
type GuideContext struct {
	StorySoFar     string
	LastTurnText   string
	PreviousPrompt string
	InitialPrompt  string
	TurnNumber     int
}

// GenerateInitialPrompt produces the opening premise for a new game.
func (g *StoryGuide) GenerateInitialPrompt(ctx context.Context, seed string) string {
	fallback := local.InitialPrompt(seed)
	if g.provider == nil {
		return fallback
	}

	topic := truncate(seed, maxSeed)
	if topic == "" {
		topic = "Invent a fresh, vivid setting with a clear goal and tension."
	}
	system := strings.Join([]string{
		"You write concise, vivid opening prompts for a collaborative story game.",
		"Return exactly 1-2 sentences that set the scene and goal, include a hook, and avoid resolving the plot.",
		"Make it specific and flavorful; avoid generic fantasy tropes; do not add instructions.",
	}, " ")
	prompt := "Create a new story opener based on this seed (optional): " + topic

	out, err := g.provider.Complete(ctx, g.model, system, prompt)
	if err != nil {
		log.Printf("[AI] initial prompt generation failed, using fallback: %v", err)
		return fallback
	}
	return out
}

// GenerateGuidePrompt produces the next guiding constraint from the story so
// far. All context fields are truncated before they reach the request.
func (g *StoryGuide) GenerateGuidePrompt(ctx context.Context, gc GuideContext) string {
	base := coalesce(gc.LastTurnText, gc.StorySoFar, "the current scene")
	fallback := local.GuidePrompt(truncate(base, maxFallbackBase))
	if g.provider == nil {
		return fallback
	}

	safeStory := truncate(coalesce(gc.StorySoFar, gc.InitialPrompt, "The story begins..."), maxStoryContext)
	safeLastTurn := truncate(coalesce(gc.LastTurnText, safeStory, "the latest beat"), maxLastTurn)
	safePrevious := truncate(coalesce(gc.PreviousPrompt, "No prior prompt"), maxPreviousPrompt)

	system := strings.Join([]string{
		"You create challenging constraints for a collaborative storytelling game.",
		"Read the story context and craft ONE concise, surprising instruction that makes the next continuation harder while staying coherent enough to be possible.",
		"Prioritize bizarreness over smooth continuity: force in a wildly out-of-place element (word/phrase/object/character/condition) that barely fits but can be woven in.",
		"The instruction must start with \"Continue the story, but...\" and reference concrete details from the context.",
		"Examples of surprise elements: a specific pun, an odd material, an unexpected refusal, a strange rule, a pop-culture reference, or an impossible environment.",
		"Keep it under 28 words. Do not write story text, only the instruction.",
	}, " ")
	prompt := strings.Join([]string{
		"Initial scene: " + truncate(coalesce(gc.InitialPrompt, "Unknown scene"), maxPreviousPrompt),
		"Story so far (" + strconv.Itoa(max(gc.TurnNumber-1, 0)) + " turns): " + safeStory,
		"Last turn text: " + safeLastTurn,
		"Previous prompt: " + safePrevious,
		"Return one sentence instruction only.",
	}, "\n")

	out, err := g.provider.Complete(ctx, g.model, system, prompt)
	if err != nil {
		log.Printf("[AI] guide prompt generation failed, using fallback: %v", err)
		return fallback
	}
	return out
}

// GenerateBotTurn writes StoryBot's continuation in single-player games.
func (g *StoryGuide) GenerateBotTurn(ctx context.Context, storySoFar string, guidePrompt string) string {
	fallback := local.BotTurn(guidePrompt + storySoFar)
	if g.provider == nil {
		return fallback
	}

	system := strings.Join([]string{
		"You are StoryBot, a playful co-author in a collaborative storytelling game.",
		"Continue the story in 2-3 sentences, under 60 words, following the guiding instruction you are given.",
		"Write story text only; no meta commentary, no quotation of the instruction.",
	}, " ")
	prompt := strings.Join([]string{
		"Story so far: " + truncate(coalesce(storySoFar, "The story begins..."), maxStoryContext),
		"Guiding instruction: " + truncate(coalesce(guidePrompt, "Continue the story."), maxPreviousPrompt),
	}, "\n")

	out, err := g.provider.Complete(ctx, g.model, system, prompt)
	if err != nil {
		log.Printf("[AI] bot turn generation failed, using fallback: %v", err)
		return fallback
	}
	return out
}

// truncate is rune-safe so multi-byte text never gets split mid-character
func truncate(text string, limit int) string {
	if text == "" {
		return ""
	}
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit-3]) + "..."
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
