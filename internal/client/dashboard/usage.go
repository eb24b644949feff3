package dashboard

import "github.com/dmitrijs2005/vid2blog/internal/client/api"

// DefaultMonthlyLimit applies when the backend reports no limit.
const DefaultMonthlyLimit = 120

type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelBlocked
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelBlocked:
		return "blocked"
	}
	return "normal"
}

// Usage is the monthly minutes snapshot taken from /user/me.
type Usage struct {
	MinutesUsed  float64
	MonthlyLimit float64
	DailyCount   int
}

func UsageFromProfile(p api.Profile) Usage {
	u := Usage{
		MinutesUsed:  p.MonthlyMinutesUsed,
		MonthlyLimit: p.MonthlyLimit,
		DailyCount:   p.DailyCount,
	}
	if u.MonthlyLimit <= 0 {
		u.MonthlyLimit = DefaultMonthlyLimit
	}
	return u
}

func (u Usage) Percent() float64 {
	limit := u.MonthlyLimit
	if limit <= 0 {
		limit = DefaultMonthlyLimit
	}
	return u.MinutesUsed / limit * 100
}

func (u Usage) Remaining() float64 {
	limit := u.MonthlyLimit
	if limit <= 0 {
		limit = DefaultMonthlyLimit
	}
	return max(0, limit-u.MinutesUsed)
}

// Level grades usage: above 80% warns, 100% and over blocks uploads.
func (u Usage) Level() Level {
	p := u.Percent()
	switch {
	case p >= 100:
		return LevelBlocked
	case p > 80:
		return LevelWarning
	}
	return LevelNormal
}
