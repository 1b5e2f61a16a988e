package data

import (
	"context"
	"time"

	"reelflow/internal/biz"
	"reelflow/internal/biz/table"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultRoundLimit = 100
	maxRoundLimit     = 5000
)

// SlotRound 牌局历史表
type SlotRound struct {
	ID           int64     `xorm:"pk autoincr 'id'"`
	RoundID      string    `xorm:"varchar(64) notnull index 'round_id'"`
	TableID      string    `xorm:"varchar(64) notnull index 'table_id'"`
	GameID       int64     `xorm:"notnull index 'game_id'"`
	Status       string    `xorm:"varchar(16) notnull 'status'"`
	Reason       string    `xorm:"varchar(64) 'reason'"`
	Bet          string    `xorm:"decimal(20,4) notnull 'bet'"`
	Win          string    `xorm:"decimal(20,4) notnull 'win'"`
	BuyFeature   bool      `xorm:"notnull 'buy_feature'"`
	FeatureSpins int       `xorm:"notnull 'feature_spins'"`
	DurationMs   int64     `xorm:"notnull 'duration_ms'"`
	EndedAt      time.Time `xorm:"notnull index 'ended_at'"`
	CreatedAt    time.Time `xorm:"created 'created_at'"`
}

func (SlotRound) TableName() string {
	return "slot_round"
}

func toSlotRound(rec table.Record) *SlotRound {
	return &SlotRound{
		RoundID:      rec.RoundID,
		TableID:      rec.TableID,
		GameID:       rec.GameID,
		Status:       rec.Status,
		Reason:       rec.Reason,
		Bet:          rec.Bet.StringFixed(4),
		Win:          rec.Win.StringFixed(4),
		BuyFeature:   rec.BuyFeature,
		FeatureSpins: rec.FeatureSpins,
		DurationMs:   rec.Duration.Milliseconds(),
		EndedAt:      rec.EndedAt,
	}
}

func (s *SlotRound) record() table.Record {
	bet, _ := decimal.NewFromString(s.Bet)
	win, _ := decimal.NewFromString(s.Win)
	return table.Record{
		RoundID:      s.RoundID,
		TableID:      s.TableID,
		GameID:       s.GameID,
		Status:       s.Status,
		Reason:       s.Reason,
		Bet:          bet,
		Win:          win,
		BuyFeature:   s.BuyFeature,
		FeatureSpins: s.FeatureSpins,
		Duration:     time.Duration(s.DurationMs) * time.Millisecond,
		EndedAt:      s.EndedAt,
	}
}

// SaveRound 实现 DataRepo；未配置数据库时丢弃
func (r *dataRepo) SaveRound(ctx context.Context, rec table.Record) error {
	if r.data.db == nil {
		return nil
	}
	if _, err := r.data.db.Context(ctx).Insert(toSlotRound(rec)); err != nil {
		return errors.Newf(500, "DB_INSERT_FAILED", "insert round %s: %v", rec.RoundID, err)
	}
	return nil
}

// ListRounds 按条件倒序查询牌局历史
func (r *dataRepo) ListRounds(ctx context.Context, filter biz.RoundFilter) ([]table.Record, error) {
	if r.data.db == nil {
		return nil, errors.New(503, "DB_NOT_CONFIGURED", "round history database not configured")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultRoundLimit
	}
	if limit > maxRoundLimit {
		limit = maxRoundLimit
	}

	session := r.data.db.Context(ctx).Desc("id").Limit(limit)
	if filter.GameID > 0 {
		session = session.Where("game_id = ?", filter.GameID)
	}
	if filter.TableID != "" {
		session = session.And("table_id = ?", filter.TableID)
	}
	if !filter.StartTime.IsZero() {
		session = session.And("ended_at >= ?", filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		session = session.And("ended_at < ?", filter.EndTime)
	}

	var rows []SlotRound
	if err := session.Find(&rows); err != nil {
		return nil, errors.Newf(500, "DB_QUERY_FAILED", "list rounds: %v", err)
	}
	out := make([]table.Record, len(rows))
	for i := range rows {
		out[i] = rows[i].record()
	}
	return out, nil
}
