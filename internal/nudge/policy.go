// Package nudge implements the three-level escalation policy for repeat
// outreach and the per-recipient history store behind it.
package nudge

import (
	"time"

	"github.com/campus-ops/nudge-cli/internal/model"
)

// History is the recorded nudge state for one recipient address.
type History struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	LastNudge time.Time `json:"last_nudge"`
}

// LevelConfig describes how one escalation level should read.
type LevelConfig struct {
	Level         int
	Tone          model.Tone
	Urgency       string
	SubjectPrefix string
	Description   string
}

var levelConfigs = []LevelConfig{
	{Level: 1, Tone: model.ToneFriendly, Urgency: "low", SubjectPrefix: "", Description: "first gentle reminder"},
	{Level: 2, Tone: model.ToneProfessional, Urgency: "medium", SubjectPrefix: "Reminder: ", Description: "second reminder"},
	{Level: 3, Tone: model.ToneUrgent, Urgency: "high", SubjectPrefix: "URGENT: ", Description: "final reminder"},
}

// Policy decides escalation levels from recorded history.
type Policy struct {
	MaxLevel int
	Cooldown time.Duration
}

// NewPolicy builds a policy; non-positive arguments take the stock values
// (3 levels, 2-day cooldown).
func NewPolicy(maxLevel, cooldownDays int) Policy {
	if maxLevel <= 0 {
		maxLevel = 3
	}
	if cooldownDays <= 0 {
		cooldownDays = 2
	}
	return Policy{
		MaxLevel: maxLevel,
		Cooldown: time.Duration(cooldownDays) * 24 * time.Hour,
	}
}

// Config returns the level configuration, clamped to the defined range.
func (p Policy) Config(level int) LevelConfig {
	if level < 1 {
		level = 1
	}
	if level > len(levelConfigs) {
		level = len(levelConfigs)
	}
	return levelConfigs[level-1]
}

// Next returns the nudge level to use now for a recipient with the given
// history (nil = never nudged), the days since the last nudge, and whether
// a send is allowed. The level never exceeds MaxLevel; within the cooldown
// window the level holds and sending is blocked.
func (p Policy) Next(h *History, now time.Time) (level, daysSince int, canSend bool) {
	if h == nil || h.Count == 0 {
		return 1, 0, true
	}

	daysSince = int(now.Sub(h.LastNudge).Hours() / 24)
	canSend = daysSince >= int(p.Cooldown.Hours()/24)

	if h.Count >= p.MaxLevel {
		return h.Count, daysSince, false
	}
	if !canSend {
		return h.Count, daysSince, false
	}
	return h.Count + 1, daysSince, true
}
