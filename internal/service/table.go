package service

import (
	"context"
	"strings"
	"time"

	"reelflow/internal/biz"
	"reelflow/internal/biz/table"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/shopspring/decimal"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewTableService)

var ErrTableIDEmpty = errors.New(400, "TABLE_ID_EMPTY", "table id is empty")

type Game struct {
	GameID  int64     `json:"gameId"`
	Name    string    `json:"name"`
	Rows    int       `json:"rows"`
	Columns int       `json:"columns"`
	Lines   int       `json:"lines"`
	BetSize []float64 `json:"betSize"`
}

type ListGamesReply struct {
	Games []Game `json:"games"`
	Total int    `json:"total"`
}

type CreateTableRequest struct {
	GameID   int64           `json:"gameId"`
	Bet      decimal.Decimal `json:"bet"`
	Turbo    bool            `json:"turbo"`
	Autoplay bool            `json:"autoplay"`
	Rounds   int             `json:"rounds"`
}

type TableRequest struct {
	TableID string `json:"tableId"`
}

type ToggleRequest struct {
	TableID string `json:"tableId"`
	On      bool   `json:"on"`
	Rounds  int    `json:"rounds"`
}

type SetBetRequest struct {
	TableID string          `json:"tableId"`
	Bet     decimal.Decimal `json:"bet"`
}

type TableSummary struct {
	TableID   string    `json:"tableId"`
	GameID    int64     `json:"gameId"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListTablesReply struct {
	Tables []TableSummary `json:"tables"`
	Total  int            `json:"total"`
}

type CommandReply struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ExportJournalReply struct {
	Url string `json:"url"`
}

type ListRoundsRequest struct {
	GameID    int64  `json:"gameId"`
	TableID   string `json:"tableId"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	Limit     int    `json:"limit"`
}

type ListRoundsReply struct {
	Rounds  []table.Record   `json:"rounds"`
	Summary biz.RoundSummary `json:"summary"`
}

// TableService 牌桌接口：开桌、下发玩家操作、查询快照与历史
type TableService struct {
	uc  *biz.UseCase
	log *log.Helper
}

func NewTableService(uc *biz.UseCase, logger log.Logger) *TableService {
	return &TableService{
		uc:  uc,
		log: log.NewHelper(log.With(logger, "module", "service/table")),
	}
}

// ListGames 获取游戏列表
func (s *TableService) ListGames(ctx context.Context, _ *struct{}) (*ListGamesReply, error) {
	all := s.uc.ListGames()
	games := make([]Game, len(all))
	for i, g := range all {
		games[i] = Game{
			GameID:  g.GameID(),
			Name:    g.Name(),
			Rows:    g.Rows(),
			Columns: g.Columns(),
			Lines:   len(g.Paylines()),
			BetSize: g.BetSize(),
		}
	}
	return &ListGamesReply{Games: games, Total: len(games)}, nil
}

func (s *TableService) ListTables(ctx context.Context, _ *struct{}) (*ListTablesReply, error) {
	all := s.uc.ListTables()
	tables := make([]TableSummary, len(all))
	for i, t := range all {
		tables[i] = TableSummary{TableID: t.ID(), GameID: t.GameID(), CreatedAt: t.CreatedAt()}
	}
	return &ListTablesReply{Tables: tables, Total: len(tables)}, nil
}

// CreateTable 开桌
func (s *TableService) CreateTable(ctx context.Context, in *CreateTableRequest) (*table.Snapshot, error) {
	snap, err := s.uc.CreateTable(ctx, biz.CreateTableRequest{
		GameID:   in.GameID,
		Bet:      in.Bet,
		Turbo:    in.Turbo,
		Autoplay: in.Autoplay,
		Rounds:   in.Rounds,
	})
	if err != nil {
		s.log.Warnf("CreateTable game=%d: %v", in.GameID, err)
		return nil, err
	}
	return &snap, nil
}

// GetTable 桌子快照
func (s *TableService) GetTable(ctx context.Context, in *TableRequest) (*table.Snapshot, error) {
	id, err := tableID(in.TableID)
	if err != nil {
		return nil, err
	}
	snap, err := s.uc.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *TableService) DeleteTable(ctx context.Context, in *TableRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.DeleteTable(ctx, id) })
}

func (s *TableService) Spin(ctx context.Context, in *TableRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.Spin(ctx, id) })
}

func (s *TableService) BuyFeature(ctx context.Context, in *TableRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.BuyFeature(ctx, id) })
}

func (s *TableService) StartFeature(ctx context.Context, in *TableRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.StartFeature(ctx, id) })
}

func (s *TableService) Skip(ctx context.Context, in *TableRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.Skip(ctx, id) })
}

func (s *TableService) Reset(ctx context.Context, in *TableRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.Reset(ctx, id) })
}

func (s *TableService) SetTurbo(ctx context.Context, in *ToggleRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.SetTurbo(ctx, id, in.On) })
}

func (s *TableService) SetAutoplay(ctx context.Context, in *ToggleRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.SetAutoplay(ctx, id, in.On, in.Rounds) })
}

func (s *TableService) SetBet(ctx context.Context, in *SetBetRequest) (*CommandReply, error) {
	return s.command(in.TableID, func(id string) error { return s.uc.SetBet(ctx, id, in.Bet) })
}

// ExportJournal 上传最近牌局，返回下载地址
func (s *TableService) ExportJournal(ctx context.Context, in *TableRequest) (*ExportJournalReply, error) {
	id, err := tableID(in.TableID)
	if err != nil {
		return nil, err
	}
	url, err := s.uc.ExportJournal(ctx, id)
	if err != nil {
		s.log.Errorf("ExportJournal table=%s: %v", id, err)
		return nil, err
	}
	return &ExportJournalReply{Url: url}, nil
}

// ListRounds 牌局历史，时间为 unix 秒
func (s *TableService) ListRounds(ctx context.Context, in *ListRoundsRequest) (*ListRoundsReply, error) {
	f := biz.RoundFilter{GameID: in.GameID, TableID: strings.TrimSpace(in.TableID), Limit: in.Limit}
	if in.StartTime > 0 {
		f.StartTime = time.Unix(in.StartTime, 0)
	}
	if in.EndTime > 0 {
		f.EndTime = time.Unix(in.EndTime, 0)
	}
	recs, summary, err := s.uc.ListRounds(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListRoundsReply{Rounds: recs, Summary: summary}, nil
}

// command 操作被拒绝时返回业务错误码，不作为传输错误
func (s *TableService) command(raw string, fn func(id string) error) (*CommandReply, error) {
	id, err := tableID(raw)
	if err != nil {
		return nil, err
	}
	if err := fn(id); err != nil {
		se := errors.FromError(err)
		if se.Code == 404 {
			return nil, err
		}
		s.log.Debugf("table=%s command rejected: %v", id, err)
		return &CommandReply{Code: int(se.Code), Message: se.Reason}, nil
	}
	return &CommandReply{Code: 0, Message: "success"}, nil
}

func tableID(raw string) (string, error) {
	if id := strings.TrimSpace(raw); id != "" {
		return id, nil
	}
	return "", ErrTableIDEmpty
}
