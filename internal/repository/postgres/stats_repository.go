package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/repository"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}
	weekAgo := time.Now().AddDate(0, 0, -7)

	counts := []struct {
		dest  *int
		query string
		args  []interface{}
	}{
		{&stats.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{&stats.UsersThisWeek, `SELECT COUNT(*) FROM users WHERE created_at > $1`, []interface{}{weekAgo}},
		{&stats.ActiveMatches, `SELECT COUNT(*) FROM matches WHERE status = 'active'`, nil},
		{&stats.MatchesThisWeek, `SELECT COUNT(*) FROM matches WHERE created_at > $1`, []interface{}{weekAgo}},
		{&stats.TodayMessages, `SELECT COUNT(*) FROM messages WHERE created_at::date = CURRENT_DATE`, nil},
		{&stats.PendingModeration, `SELECT COUNT(*) FROM users WHERE status = 'pending' OR (status = 'active' AND verified = FALSE)`, nil},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query, c.args...); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	stats.UsersGrowth = growth(stats.UsersThisWeek, stats.TotalUsers-stats.UsersThisWeek)
	stats.MatchesGrowth = growth(stats.MatchesThisWeek, stats.ActiveMatches-stats.MatchesThisWeek)

	daily, err := r.dailyActivity(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	stats.DailyActivity = daily

	return stats, nil
}

func (r *statsRepository) dailyActivity(ctx context.Context, since time.Time) ([]domain.DailyActivity, error) {
	type dayCount struct {
		Day   time.Time `db:"day"`
		Count int       `db:"count"`
	}

	var matchDays, messageDays []dayCount
	matchQuery := `
		SELECT created_at::date AS day, COUNT(*) AS count
		FROM matches WHERE created_at > $1
		GROUP BY day ORDER BY day
	`
	if err := r.db.SelectContext(ctx, &matchDays, matchQuery, since); err != nil {
		return nil, fmt.Errorf("daily matches: %w", err)
	}
	messageQuery := `
		SELECT created_at::date AS day, COUNT(*) AS count
		FROM messages WHERE created_at > $1
		GROUP BY day ORDER BY day
	`
	if err := r.db.SelectContext(ctx, &messageDays, messageQuery, since); err != nil {
		return nil, fmt.Errorf("daily messages: %w", err)
	}

	days := map[string]*domain.DailyActivity{}
	for _, d := range matchDays {
		key := d.Day.Format("2006-01-02")
		days[key] = &domain.DailyActivity{Day: key, Matches: d.Count}
	}
	for _, d := range messageDays {
		key := d.Day.Format("2006-01-02")
		if entry, ok := days[key]; ok {
			entry.Messages = d.Count
		} else {
			days[key] = &domain.DailyActivity{Day: key, Messages: d.Count}
		}
	}

	out := make([]domain.DailyActivity, 0, len(days))
	for _, entry := range days {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (r *statsRepository) ActiveMatchSummaries(ctx context.Context, limit int) ([]*domain.MatchSummary, error) {
	var summaries []*domain.MatchSummary
	query := `
		SELECT
			m.id,
			m.status,
			m.created_at,
			u1.first_name AS user1_name,
			u1.age AS user1_age,
			u2.first_name AS user2_name,
			u2.age AS user2_age,
			(SELECT COUNT(*) FROM messages WHERE match_id = m.id) AS message_count
		FROM matches m
		JOIN users u1 ON m.user1_id = u1.id
		JOIN users u2 ON m.user2_id = u2.id
		WHERE m.status = 'active'
		ORDER BY m.created_at DESC
		LIMIT $1
	`
	err := r.db.SelectContext(ctx, &summaries, query, limit)
	return summaries, err
}

func (r *statsRepository) RecentMessages(ctx context.Context, matchID *int, limit int) ([]*domain.MessageSummary, error) {
	var messages []*domain.MessageSummary
	if matchID != nil {
		query := `
			SELECT msg.id, msg.match_id, msg.body, msg.created_at, u.first_name AS sender_name
			FROM messages msg
			JOIN users u ON msg.sender_id = u.id
			WHERE msg.match_id = $1
			ORDER BY msg.created_at DESC
			LIMIT $2
		`
		err := r.db.SelectContext(ctx, &messages, query, *matchID, limit)
		return messages, err
	}
	query := `
		SELECT msg.id, msg.match_id, msg.body, msg.created_at, u.first_name AS sender_name
		FROM messages msg
		JOIN users u ON msg.sender_id = u.id
		ORDER BY msg.created_at DESC
		LIMIT $1
	`
	err := r.db.SelectContext(ctx, &messages, query, limit)
	return messages, err
}

func growth(recent, base int) float64 {
	if base < 1 {
		base = 1
	}
	return float64(int(float64(recent)/float64(base)*1000+0.5)) / 10
}
