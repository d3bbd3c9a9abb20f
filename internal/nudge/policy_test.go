package nudge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campus-ops/nudge-cli/internal/model"
)

func TestPolicyNext(t *testing.T) {
	p := NewPolicy(3, 2)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		history   *History
		wantLevel int
		wantDays  int
		wantSend  bool
	}{
		{"never nudged", nil, 1, 0, true},
		{"zero count", &History{Count: 0}, 1, 0, true},
		{"cooldown not elapsed", &History{Count: 1, LastNudge: now.Add(-24 * time.Hour)}, 1, 1, false},
		{"cooldown boundary", &History{Count: 1, LastNudge: now.Add(-48 * time.Hour)}, 2, 2, true},
		{"cooldown elapsed", &History{Count: 2, LastNudge: now.Add(-72 * time.Hour)}, 3, 3, true},
		{"at max level", &History{Count: 3, LastNudge: now.Add(-96 * time.Hour)}, 3, 4, false},
		{"beyond max level", &History{Count: 5, LastNudge: now.Add(-240 * time.Hour)}, 5, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, days, canSend := p.Next(tt.history, now)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantSend, canSend)
		})
	}
}

func TestPolicyDefaults(t *testing.T) {
	p := NewPolicy(0, 0)
	assert.Equal(t, 3, p.MaxLevel)
	assert.Equal(t, 48*time.Hour, p.Cooldown)
}

func TestPolicyConfig(t *testing.T) {
	p := NewPolicy(3, 2)

	first := p.Config(1)
	assert.Equal(t, model.ToneFriendly, first.Tone)
	assert.Equal(t, "", first.SubjectPrefix)

	second := p.Config(2)
	assert.Equal(t, model.ToneProfessional, second.Tone)
	assert.Equal(t, "Reminder: ", second.SubjectPrefix)

	third := p.Config(3)
	assert.Equal(t, model.ToneUrgent, third.Tone)
	assert.Equal(t, "URGENT: ", third.SubjectPrefix)

	// Out-of-range levels clamp instead of panicking.
	assert.Equal(t, first, p.Config(0))
	assert.Equal(t, third, p.Config(9))
}
