// Package attach places the structures hung off stands and the field
// edge: the scoreboard, advertising hoardings and ribbon displays.
package attach

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxLabelRunes bounds the length of display strings.
const MaxLabelRunes = 32

// MaxScore bounds the scores a display can show.
const MaxScore = 999

// ErrInvalidDisplay is returned for display content that cannot be shown.
var ErrInvalidDisplay = errors.New("invalid display content")

// Display is the passive content shown on the scoreboard and ribbons.
type Display struct {
	TeamA    string `yaml:"team_a" json:"team_a" toml:"team_a"`
	TeamB    string `yaml:"team_b" json:"team_b" toml:"team_b"`
	ScoreA   int    `yaml:"score_a" json:"score_a" toml:"score_a"`
	ScoreB   int    `yaml:"score_b" json:"score_b" toml:"score_b"`
	GameTime string `yaml:"game_time" json:"game_time" toml:"game_time"`
}

// DefaultDisplay returns a nil-nil home/away display at kick-off.
func DefaultDisplay() Display {
	return Display{TeamA: "HOME", TeamB: "AWAY", GameTime: "00:00"}
}

// Sanitize returns the display with control characters removed, labels
// trimmed and cut to MaxLabelRunes. Scores outside [0, MaxScore] are
// rejected.
func (d Display) Sanitize() (Display, error) {
	for _, s := range []struct {
		name string
		v    int
	}{{"score_a", d.ScoreA}, {"score_b", d.ScoreB}} {
		if s.v < 0 || s.v > MaxScore {
			return Display{}, fmt.Errorf("%w: %s %d outside [0, %d]", ErrInvalidDisplay, s.name, s.v, MaxScore)
		}
	}
	d.TeamA = cleanLabel(d.TeamA)
	d.TeamB = cleanLabel(d.TeamB)
	d.GameTime = cleanLabel(d.GameTime)
	return d, nil
}

func cleanLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxLabelRunes {
		s = strings.TrimSpace(string(r[:MaxLabelRunes]))
	}
	return s
}

// ScoreLine renders "TEAM A 2 - 1 TEAM B".
func (d Display) ScoreLine() string {
	return fmt.Sprintf("%s %d - %d %s", d.TeamA, d.ScoreA, d.ScoreB, d.TeamB)
}

// Headline renders the game clock above the score line.
func (d Display) Headline() string {
	if d.GameTime == "" {
		return d.ScoreLine()
	}
	return d.GameTime + "  " + d.ScoreLine()
}
