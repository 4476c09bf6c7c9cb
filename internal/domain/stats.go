package domain

import "time"

// Admin dashboard aggregates.

type DailyActivity struct {
	Day      string `json:"day"`
	Matches  int    `json:"matches"`
	Messages int    `json:"messages"`
}

type DashboardStats struct {
	TotalUsers        int             `json:"totalUsers"`
	UsersThisWeek     int             `json:"usersThisWeek"`
	UsersGrowth       float64         `json:"usersGrowth"`
	ActiveMatches     int             `json:"activeMatches"`
	MatchesThisWeek   int             `json:"matchesThisWeek"`
	MatchesGrowth     float64         `json:"matchesGrowth"`
	TodayMessages     int             `json:"todayMessages"`
	PendingModeration int             `json:"pendingModeration"`
	DailyActivity     []DailyActivity `json:"dailyActivity"`
}

type MatchSummary struct {
	ID           int         `json:"id" db:"id"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	User1Name    string      `json:"user1_name" db:"user1_name"`
	User1Age     *int        `json:"user1_age" db:"user1_age"`
	User2Name    string      `json:"user2_name" db:"user2_name"`
	User2Age     *int        `json:"user2_age" db:"user2_age"`
	MessageCount int         `json:"message_count" db:"message_count"`
}

type MessageSummary struct {
	ID         int       `json:"id" db:"id"`
	MatchID    int       `json:"match_id" db:"match_id"`
	Body       string    `json:"body" db:"body"`
	SenderName string    `json:"sender_name" db:"sender_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
