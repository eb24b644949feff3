package dashboard

import (
	"testing"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/stretchr/testify/assert"
)

func TestUsage_Levels(t *testing.T) {
	tests := []struct {
		used, limit float64
		want        Level
	}{
		{0, 120, LevelNormal},
		{96, 120, LevelNormal},
		{96.5, 120, LevelWarning},
		{119.9, 120, LevelWarning},
		{120, 120, LevelBlocked},
		{300, 120, LevelBlocked},
	}
	for _, tt := range tests {
		u := Usage{MinutesUsed: tt.used, MonthlyLimit: tt.limit}
		assert.Equal(t, tt.want, u.Level(), "used=%v", tt.used)
	}
}

func TestUsage_DefaultsAndRemaining(t *testing.T) {
	u := UsageFromProfile(api.Profile{MonthlyMinutesUsed: 30, DailyCount: 2})
	assert.Equal(t, float64(DefaultMonthlyLimit), u.MonthlyLimit)
	assert.InDelta(t, 25.0, u.Percent(), 1e-9)
	assert.InDelta(t, 90.0, u.Remaining(), 1e-9)
	assert.Equal(t, 2, u.DailyCount)

	over := Usage{MinutesUsed: 150, MonthlyLimit: 120}
	assert.Zero(t, over.Remaining())

	assert.Zero(t, Usage{}.Percent())
}
