// Package local synthesizes prompts without any network call. It backs every
// AI operation when the remote provider is disabled or failing, so game
// operations never depend on third-party availability.
package local

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

var openers = []string{
	"A traveler enters a mysterious forest where the trees whisper names",
	"The last lighthouse keeper on a drowned coast receives a letter with no sender",
	"A night train crosses a border that does not appear on any map",
	"An archivist finds a book whose final chapter rewrites itself every dawn",
	"A ship's captain must navigate the galaxy with a crew that distrusts the stars",
}

var hooks = []string{
	"Whatever they are searching for is already searching for them.",
	"They have until sunrise to decide who to trust.",
	"Turning back is no longer an option.",
	"Something in their pocket has started to hum.",
	"The first rule of this place has just been broken.",
}

var collisions = []string{
	"a chorus of rubber ducks",
	"quantum spaghetti",
	"a disco anthem nobody can stop humming",
	"a sudden vow of silence",
	"an aggressively polite vending machine",
}

// InitialPrompt builds a story opener from fixed pools. The seed only flavors
// the choice; an empty seed still yields a usable premise.
func InitialPrompt(seed string) string {
	var opener, hook string
	if seed != "" {
		h := hashOf(seed)
		opener = openers[h%uint32(len(openers))]
		hook = hooks[(h/7)%uint32(len(hooks))]
	} else {
		opener = openers[rand.Intn(len(openers))]
		hook = hooks[rand.Intn(len(hooks))]
	}
	return fmt.Sprintf("%s. %s", opener, hook)
}

// GuidePrompt returns the deterministic collision-sentence fallback. The base
// is expected to be pre-truncated by the caller.
func GuidePrompt(base string) string {
	return fmt.Sprintf("Continue the story, but collide %s with a wildly out-of-place element (think rubber ducks, quantum spaghetti, a disco anthem, or a sudden vow of silence).", base)
}

// BotTurn writes a short continuation when the model cannot. Deterministic in
// its input so the single-player loop stays reproducible in tests.
func BotTurn(seed string) string {
	h := hashOf(seed)
	collision := collisions[h%uint32(len(collisions))]
	return fmt.Sprintf("Just then %s appeared, and against all odds it fit: the scene bent around it and the story pressed on.", collision)
}

func hashOf(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
