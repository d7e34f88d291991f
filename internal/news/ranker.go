package news

import (
	"sort"
	"strings"
	"time"

	"TradeInsight/internal/domain/models"
	"TradeInsight/pkg/util"
)

// RankHeadlines orders headlines by keyword relevance plus recency and
// truncates to limit. The sort is stable: equal scores preserve input
// order. Malformed timestamps score zero recency, never an error.
func RankHeadlines(records []models.HeadlineRecord, terms []string, now time.Time, limit int) []models.HeadlineRecord {
	type scored struct {
		rec   models.HeadlineRecord
		score float64
	}

	rows := make([]scored, 0, len(records))
	for _, rec := range records {
		rows = append(rows, scored{rec: rec, score: scoreHeadline(rec, terms, now)})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]models.HeadlineRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.rec)
	}
	return out
}

func scoreHeadline(rec models.HeadlineRecord, terms []string, now time.Time) float64 {
	lower := strings.ToLower(rec.Title)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			matched++
		}
	}
	return float64(2*matched) + recencyBonus(rec.PublishedAt, now)
}

// recencyBonus decays linearly from 1.0 at publication to 0 after 24h.
func recencyBonus(publishedAt string, now time.Time) float64 {
	ts, ok := util.ParseTime(publishedAt)
	if !ok {
		return 0
	}
	bonus := (24 - now.Sub(ts).Hours()) / 24
	if bonus < 0 {
		return 0
	}
	return bonus
}
