package biz

import (
	"context"
	"fmt"
	"time"

	"reelflow/internal/biz/flow"
	"reelflow/internal/biz/game"
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/metrics"
	"reelflow/internal/biz/table"
	"reelflow/internal/conf"
	"reelflow/internal/notify"
	"reelflow/pkg/clock"
	"reelflow/pkg/xgo"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	jsoniter "github.com/json-iterator/go"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(game.NewPool, NewUseCase)

// 业务常量
const (
	archiveTimeout  = 30 * time.Second
	archiveParallel = 8
	journalRecent   = 20
)

var (
	ErrGameNotFound   = errors.New(404, "GAME_NOT_FOUND", "game not found")
	ErrTooManyTables  = errors.New(429, "TOO_MANY_TABLES", "table limit reached")
	ErrJournalExport  = errors.New(500, "JOURNAL_EXPORT_FAILED", "journal export failed")
	ErrSourceRequired = errors.New(500, "SOURCE_REQUIRED", "result source is required")
)

// RoundFilter 牌局历史查询条件
type RoundFilter struct {
	GameID    int64
	TableID   string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}

// RoundSummary 牌局历史汇总
type RoundSummary struct {
	Rounds   int64           `json:"rounds"`
	Fatal    int64           `json:"fatal"`
	TotalBet decimal.Decimal `json:"totalBet"`
	TotalWin decimal.Decimal `json:"totalWin"`
	RtpPct   float64         `json:"rtpPct"`
}

// DataRepo 数据层接口：桌号/牌局记录/快照归档/日志导出
type DataRepo interface {
	NextTableID(ctx context.Context, gameID int64) (string, error)
	SaveRound(ctx context.Context, rec table.Record) error
	ListRounds(ctx context.Context, filter RoundFilter) ([]table.Record, error)
	SaveSnapshot(ctx context.Context, snap table.Snapshot) error
	LoadSnapshot(ctx context.Context, tableID string) (*table.Snapshot, error)
	DeleteSnapshot(ctx context.Context, tableID string) error
	UploadJournal(ctx context.Context, key string, body []byte) (string, error)
}

// CreateTableRequest 开桌参数
type CreateTableRequest struct {
	GameID   int64
	Bet      decimal.Decimal
	Turbo    bool
	Autoplay bool
	Rounds   int
}

// UseCase 编排层：所有桌子共享一条帧线程，外部命令经 loop.Call 串行执行
type UseCase struct {
	ctx    context.Context
	cancel context.CancelFunc

	repo      DataRepo
	log       *log.Helper
	logger    log.Logger
	c         *conf.Engine
	gamePool  *game.Pool
	tablePool *table.Pool
	loop      *clock.Loop
	workers   *ants.Pool
	deps      table.Deps
}

// NewUseCase 创建 UseCase 并启动帧线程与空桌清理
func NewUseCase(repo DataRepo, source table.ResultSource, games *game.Pool, logger log.Logger, c *conf.Engine, n notify.Notifier) (*UseCase, func(), error) {
	if source == nil {
		return nil, nil, ErrSourceRequired
	}
	c = c.Normalize()
	if err := games.Validate(); err != nil {
		return nil, nil, err
	}
	for _, b := range c.BetSizes {
		if err := games.SetBetSize(b.GameId, b.Sizes); err != nil {
			return nil, nil, err
		}
	}
	workers, err := ants.NewPool(int(c.Workers))
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := clock.NewLoop(int(c.FrameRate))
	uc := &UseCase{
		ctx:       ctx,
		cancel:    cancel,
		repo:      repo,
		log:       log.NewHelper(log.With(logger, "module", "usecase")),
		logger:    logger,
		c:         c,
		gamePool:  games,
		tablePool: table.NewPool(),
		loop:      loop,
		workers:   workers,
	}
	uc.deps = table.Deps{
		Sched:    loop,
		Poster:   loop,
		Source:   source,
		Store:    repo,
		Workers:  workers,
		Notifier: n,
		Engine:   c,
		Logger:   logger,
	}

	go loop.Run(ctx)
	go uc.tablePool.StartAutoCleanup(ctx, logger, c.TableIdleTTL.AsDuration(), c.CleanInterval.AsDuration(), uc.evict)

	cleanup := func() {
		uc.archiveAll()
		uc.cancel()
		uc.loop.Stop()
		uc.workers.Release()
	}
	return uc, cleanup, nil
}

// GetGame 按 gameID 获取游戏
func (uc *UseCase) GetGame(gameID int64) (base.IGame, bool) {
	return uc.gamePool.Get(gameID)
}

// ListGames 返回游戏列表副本（按 GameID 升序）
func (uc *UseCase) ListGames() []base.IGame {
	return uc.gamePool.List()
}

// ListTables 返回所有桌子（按创建时间倒序）
func (uc *UseCase) ListTables() []*table.Table {
	return uc.tablePool.List()
}

// CreateTable 开桌，返回初始快照
func (uc *UseCase) CreateTable(ctx context.Context, req CreateTableRequest) (table.Snapshot, error) {
	g, ok := uc.gamePool.Get(req.GameID)
	if !ok {
		return table.Snapshot{}, ErrGameNotFound.WithMetadata(map[string]string{"game_id": fmt.Sprint(req.GameID)})
	}
	if !req.Bet.IsPositive() {
		return table.Snapshot{}, flow.ErrInvalidBet
	}
	if len(g.BetSize()) > 0 && !g.ValidBetMoney(req.Bet.InexactFloat64()) {
		return table.Snapshot{}, flow.ErrInvalidBet.WithMetadata(map[string]string{"bet": req.Bet.String()})
	}
	if uc.tablePool.Len() >= int(uc.c.MaxTables) {
		return table.Snapshot{}, ErrTooManyTables
	}

	id, err := uc.repo.NextTableID(ctx, req.GameID)
	if err != nil {
		return table.Snapshot{}, err
	}
	t := table.New(id, g, req.Bet, uc.deps)

	var snap table.Snapshot
	if err := uc.loop.Call(ctx, func() {
		if req.Turbo {
			t.Machine().SetTurbo(true)
		}
		if req.Autoplay {
			t.Machine().SetAutoplay(true, req.Rounds)
		}
		snap = t.Snapshot(0)
	}); err != nil {
		// 已注册帧回调，交给帧线程释放
		uc.loop.Post(t.Close)
		return table.Snapshot{}, err
	}
	uc.tablePool.Add(t)
	metrics.SetActiveTables(uc.tablePool.Len())
	uc.log.Infof("table %s created, game=%d bet=%s", id, req.GameID, req.Bet)
	return snap, nil
}

// Snapshot 在线桌子取实时快照，已清理的桌子取归档
func (uc *UseCase) Snapshot(ctx context.Context, id string) (table.Snapshot, error) {
	t, ok := uc.tablePool.Get(id)
	if !ok {
		archived, err := uc.repo.LoadSnapshot(ctx, id)
		if err != nil || archived == nil {
			return table.Snapshot{}, table.ErrTableNotFound
		}
		archived.Archived = true
		return *archived, nil
	}
	var snap table.Snapshot
	if err := uc.loop.Call(ctx, func() { snap = t.Snapshot(journalRecent) }); err != nil {
		return table.Snapshot{}, err
	}
	return snap, nil
}

func (uc *UseCase) Spin(ctx context.Context, id string) error {
	return uc.do(ctx, id, func(t *table.Table) error { return t.Machine().Spin() })
}

func (uc *UseCase) BuyFeature(ctx context.Context, id string) error {
	return uc.do(ctx, id, func(t *table.Table) error { return t.Machine().BuyFeature() })
}

func (uc *UseCase) StartFeature(ctx context.Context, id string) error {
	return uc.do(ctx, id, func(t *table.Table) error { return t.Machine().StartFeature() })
}

func (uc *UseCase) Skip(ctx context.Context, id string) error {
	return uc.do(ctx, id, func(t *table.Table) error {
		t.Machine().Skip()
		return nil
	})
}

// Reset 复位状态机，清除致命错误禁用
func (uc *UseCase) Reset(ctx context.Context, id string) error {
	return uc.do(ctx, id, func(t *table.Table) error {
		t.Machine().Reset()
		return nil
	})
}

func (uc *UseCase) SetTurbo(ctx context.Context, id string, on bool) error {
	return uc.do(ctx, id, func(t *table.Table) error {
		t.Machine().SetTurbo(on)
		return nil
	})
}

// SetAutoplay rounds<=0 表示不限局数
func (uc *UseCase) SetAutoplay(ctx context.Context, id string, on bool, rounds int) error {
	return uc.do(ctx, id, func(t *table.Table) error {
		t.Machine().SetAutoplay(on, rounds)
		return nil
	})
}

func (uc *UseCase) SetBet(ctx context.Context, id string, bet decimal.Decimal) error {
	return uc.do(ctx, id, func(t *table.Table) error {
		g := t.Game()
		if len(g.BetSize()) > 0 && !g.ValidBetMoney(bet.InexactFloat64()) {
			return flow.ErrInvalidBet
		}
		return t.Machine().SetBet(bet)
	})
}

// DeleteTable 关桌并删除归档快照
func (uc *UseCase) DeleteTable(ctx context.Context, id string) error {
	t, ok := uc.tablePool.Remove(id)
	if ok {
		if err := uc.loop.Call(ctx, t.Close); err != nil {
			return err
		}
		metrics.SetActiveTables(uc.tablePool.Len())
	}
	if err := uc.repo.DeleteSnapshot(ctx, id); err != nil {
		uc.log.Warnf("delete snapshot %s: %v", id, err)
	}
	if !ok {
		return table.ErrTableNotFound
	}
	uc.log.Infof("table %s deleted", id)
	return nil
}

// ExportJournal 导出本桌最近牌局，返回下载地址
func (uc *UseCase) ExportJournal(ctx context.Context, id string) (string, error) {
	t, ok := uc.tablePool.Get(id)
	if !ok {
		return "", table.ErrTableNotFound
	}
	var journal []table.Record
	if err := uc.loop.Call(ctx, func() { journal = t.Recorder().Journal() }); err != nil {
		return "", err
	}
	body, err := jsoniter.ConfigFastest.Marshal(journal)
	if err != nil {
		return "", ErrJournalExport.WithCause(err)
	}
	key := fmt.Sprintf("journal/%d/%s-%d.json", t.GameID(), id, time.Now().Unix())
	url, err := uc.repo.UploadJournal(ctx, key, body)
	if err != nil {
		return "", ErrJournalExport.WithCause(err)
	}
	return url, nil
}

// ListRounds 查询牌局历史
func (uc *UseCase) ListRounds(ctx context.Context, filter RoundFilter) ([]table.Record, RoundSummary, error) {
	recs, err := uc.repo.ListRounds(ctx, filter)
	if err != nil {
		return nil, RoundSummary{}, err
	}
	return recs, Summarize(recs), nil
}

// Summarize 汇总下注/赢分与 RTP，购买局不计下注
func Summarize(recs []table.Record) RoundSummary {
	s := RoundSummary{TotalBet: decimal.Zero, TotalWin: decimal.Zero}
	for _, r := range recs {
		if r.Status == table.StatusFatal {
			s.Fatal++
			continue
		}
		s.Rounds++
		if !r.BuyFeature {
			s.TotalBet = s.TotalBet.Add(r.Bet)
		}
		s.TotalWin = s.TotalWin.Add(r.Win)
	}
	s.RtpPct = xgo.RatioPct(s.TotalWin, s.TotalBet)
	return s
}

// do 在帧线程执行桌子命令
func (uc *UseCase) do(ctx context.Context, id string, fn func(t *table.Table) error) error {
	t, ok := uc.tablePool.Get(id)
	if !ok {
		return table.ErrTableNotFound
	}
	t.Touch()
	var err error
	if callErr := uc.loop.Call(ctx, func() { err = fn(t) }); callErr != nil {
		return callErr
	}
	return err
}

// evict 空闲桌子归档快照后关闭
func (uc *UseCase) evict(tables []*table.Table) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	uc.archive(ctx, tables)
	metrics.SetActiveTables(uc.tablePool.Len())
}

// archiveAll 停机前归档全部在线桌子
func (uc *UseCase) archiveAll() {
	tables := uc.tablePool.List()
	if len(tables) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	uc.archive(ctx, tables)
}

func (uc *UseCase) archive(ctx context.Context, tables []*table.Table) {
	snaps := make([]table.Snapshot, len(tables))
	if err := uc.loop.Call(ctx, func() {
		for i, t := range tables {
			snaps[i] = t.Snapshot(journalRecent)
			t.Close()
		}
	}); err != nil {
		uc.log.Warnf("archive %d tables: %v", len(tables), err)
		return
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(archiveParallel)
	for _, snap := range snaps {
		eg.Go(func() error {
			return uc.repo.SaveSnapshot(ctx, snap)
		})
	}
	if err := eg.Wait(); err != nil {
		uc.log.Warnf("archive snapshots: %v", err)
		return
	}
	uc.log.Infof("archived %d tables", len(snaps))
}
