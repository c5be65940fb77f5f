package history

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// adjectives and nouns make run IDs easy to read back from the terminal.
var adjectives = []string{
	"able", "amber", "bold", "brave", "brisk", "calm", "clear", "cool",
	"crisp", "eager", "early", "exact", "fair", "fast", "firm", "fresh",
	"glad", "green", "keen", "kind", "lucid", "merry", "neat", "noble",
	"plain", "prime", "quick", "quiet", "rapid", "ready", "sharp", "solid",
	"steady", "stout", "swift", "tidy", "vivid", "warm", "wise", "zesty",
}

var nouns = []string{
	"anchor", "arrow", "beacon", "birch", "bridge", "brook", "cedar", "comet",
	"crane", "delta", "ember", "falcon", "fern", "forge", "glade", "harbor",
	"heron", "iris", "lantern", "maple", "meadow", "orbit", "otter", "pebble",
	"pine", "prism", "quartz", "raven", "ridge", "river", "spark", "spruce",
	"summit", "thistle", "tide", "trail", "valley", "willow", "wren", "zenith",
}

// GenerateID creates an identifier in adjective_noun_YYYYMMDD_HHMMSS format.
func GenerateID(now time.Time) (string, error) {
	adj, err := randomWord(adjectives)
	if err != nil {
		return "", fmt.Errorf("selecting random adjective: %w", err)
	}

	noun, err := randomWord(nouns)
	if err != nil {
		return "", fmt.Errorf("selecting random noun: %w", err)
	}

	return fmt.Sprintf("%s_%s_%s", adj, noun, now.Format("20060102_150405")), nil
}

// randomWord selects a random word from the given slice using crypto/rand.
func randomWord(words []string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("word list is empty")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", fmt.Errorf("generating random number: %w", err)
	}
	return words[n.Int64()], nil
}
