package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

// PlayerScore holds the per-player metrics produced at game completion.
type PlayerScore struct {
	Creativity int `json:"creativity"`
	Cohesion   int `json:"cohesion"`
	Momentum   int `json:"momentum"`
	Total      int `json:"total"`
}

// ScoreReport is the full scoring record stored on a finished game.
type ScoreReport struct {
	Players map[string]PlayerScore `json:"players"`
	Summary string                 `json:"summary"`
}

// TurnStats feeds the deterministic fallback scorer.
type TurnStats struct {
	Turns      int
	TotalChars int
}

// GenerateScores judges a finished story. The model is asked for strict JSON;
// anything unparsable degrades to scores derived from turn statistics, so a
// finished game always carries a non-null score record.
func (g *StoryGuide) GenerateScores(ctx context.Context, story string, stats map[string]TurnStats) ScoreReport {
	fallback := fallbackScores(stats)
	if g.provider == nil {
		return fallback
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	system := strings.Join([]string{
		"You judge finished collaborative stories written turn by turn by several players.",
		"Score every listed player from 0 to 100 on creativity, cohesion and momentum, and write a 1-2 sentence summary of the story.",
		`Respond with strict JSON only, no prose around it: {"players":{"<name>":{"creativity":0,"cohesion":0,"momentum":0}},"summary":""}.`,
	}, " ")
	prompt := strings.Join([]string{
		"Players: " + strings.Join(names, ", "),
		"Story: " + truncate(story, maxStoryContext),
	}, "\n")

	out, err := g.provider.Complete(ctx, g.model, system, prompt)
	if err != nil {
		log.Printf("[AI] scoring failed, using fallback: %v", err)
		return fallback
	}

	report, err := parseScoreReport(out)
	if err != nil {
		log.Printf("[AI] unusable scoring response, using fallback: %v", err)
		return fallback
	}

	// The model occasionally drops a player; backfill from the fallback
	for name := range stats {
		if _, ok := report.Players[name]; !ok {
			report.Players[name] = fallback.Players[name]
		}
	}
	if report.Summary == "" {
		report.Summary = fallback.Summary
	}
	return report
}

func parseScoreReport(raw string) (ScoreReport, error) {
	var report ScoreReport

	// Models love wrapping JSON in fences and chatter; take the outermost object
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return report, errors.New("no JSON object in completion")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &report); err != nil {
		return report, err
	}
	if len(report.Players) == 0 {
		return report, errors.New("no player scores in completion")
	}

	for name, score := range report.Players {
		score.Creativity = clamp(score.Creativity)
		score.Cohesion = clamp(score.Cohesion)
		score.Momentum = clamp(score.Momentum)
		score.Total = (score.Creativity + score.Cohesion + score.Momentum) / 3
		report.Players[name] = score
	}
	return report, nil
}

func fallbackScores(stats map[string]TurnStats) ScoreReport {
	players := make(map[string]PlayerScore, len(stats))
	totalTurns := 0
	for name, st := range stats {
		totalTurns += st.Turns
		avgChars := 0
		if st.Turns > 0 {
			avgChars = st.TotalChars / st.Turns
		}
		score := PlayerScore{
			Creativity: clamp(55 + st.TotalChars/40),
			Cohesion:   clamp(60 + st.Turns*4),
			Momentum:   clamp(50 + avgChars/10),
		}
		score.Total = (score.Creativity + score.Cohesion + score.Momentum) / 3
		players[name] = score
	}
	return ScoreReport{
		Players: players,
		Summary: fmt.Sprintf("A story told across %d turns by %d writers, judged on pace and word count while the narrator was away.", totalTurns, len(stats)),
	}
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 95 {
		return 95
	}
	return n
}
