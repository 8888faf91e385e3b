package entity

import (
	"fmt"
	"time"
)

type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type PlayerStats struct {
	PlayerID         string  `json:"playerId"`
	GamesPlayed      int     `json:"gamesPlayed"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Draws            int     `json:"draws"`
	WinRate          float64 `json:"winRate"`
	CurrentStreak    int     `json:"currentStreak"`
	LongestWinStreak int     `json:"longestWinStreak"`
}

type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeAllTime Timeframe = "all-time"
)

// ParseTimeframe maps "" to all-time.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case "":
		return TimeframeAllTime, nil
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeAllTime:
		return tf, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
}

// Since returns the earliest completion time inside the timeframe; zero for all-time.
func (that Timeframe) Since(now time.Time) time.Time {
	switch that {
	case TimeframeDaily:
		return now.Add(-24 * time.Hour)
	case TimeframeWeekly:
		return now.AddDate(0, 0, -7)
	case TimeframeMonthly:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Player      Player `json:"player"`
	Score       int    `json:"score"`
	Wins        int    `json:"wins"`
	GamesPlayed int    `json:"gamesPlayed"`
}

type Leaderboard struct {
	Timeframe   Timeframe          `json:"timeframe"`
	Entries     []LeaderboardEntry `json:"entries"`
	GeneratedAt time.Time          `json:"generatedAt"`
}
