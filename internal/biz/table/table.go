package table

import (
	"context"
	"sync/atomic"
	"time"

	"reelflow/internal/biz/event"
	"reelflow/internal/biz/flow"
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/metrics"
	"reelflow/internal/biz/reel"
	"reelflow/internal/biz/round"
	"reelflow/internal/biz/win"
	"reelflow/internal/conf"
	"reelflow/internal/notify"
	"reelflow/pkg/clock"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
)

var ErrTableNotFound = errors.New(404, "TABLE_NOT_FOUND", "table not found")

// SpinOrder 发往结果源的一次转动请求
type SpinOrder struct {
	TableID      string          `json:"tableId"`
	GameID       int64           `json:"gameId"`
	Seq          int64           `json:"seq"`
	Bet          decimal.Decimal `json:"bet"`
	Scene        base.Scene      `json:"scene"`
	BuyFeature   bool            `json:"buyFeature"`
	FeatureIndex int             `json:"featureIndex"`
}

// ResultSource 转动结果来源：远端 RGS 或本地模拟
type ResultSource interface {
	Spin(ctx context.Context, order SpinOrder) (*round.Result, error)
}

// RoundStore 牌局记录落库
type RoundStore interface {
	SaveRound(ctx context.Context, rec Record) error
}

// Poster 把回调投递回帧线程
type Poster interface {
	Post(fn func())
}

// Deps 桌子共享的依赖，UseCase 持有一份
type Deps struct {
	Sched    clock.Scheduler
	Poster   Poster
	Source   ResultSource
	Store    RoundStore
	Workers  *ants.Pool
	Notifier notify.Notifier
	Engine   *conf.Engine
	Logger   log.Logger
	// Journal 每桌保留的最近牌局数，<=0 用默认值
	Journal int
}

// Table 一个座位：状态机 + 转轮 + 中奖展示，共用一条事件总线。
// 除 ID/GameID/Touch/Idle 外的方法都须在帧线程调用
type Table struct {
	id        string
	game      base.IGame
	bus       *event.Bus
	set       *reel.Set
	presenter *win.Sequencer
	machine   *flow.Machine
	recorder  *Recorder
	unsub     []func()

	createdAt  time.Time
	lastActive atomic.Int64
}

// New 组装一张桌子，d.Engine 需已经过 Normalize
func New(id string, game base.IGame, bet decimal.Decimal, d Deps) *Table {
	logger := log.With(d.Logger, "table", id)
	t := &Table{
		id:        id,
		game:      game,
		bus:       event.NewBus(),
		createdAt: time.Now(),
	}
	t.Touch()

	engine := reel.NewEngine(game, nil, logger)
	engine.OnFallbackPay = func(int, int) { metrics.IncFallback(game.GameID()) }
	normal, turbo := reel.KineticsFromConf(d.Engine.Reel), reel.KineticsFromConf(d.Engine.Turbo)
	t.set = reel.NewSet(engine, normal, turbo, d.Sched, t.bus, logger)
	t.presenter = win.NewSequencer(d.Sched, t.bus, win.TimingFromConf(d.Engine))

	requester := newRequester(id, game.GameID(), d, logger)
	reporter := newReporter(id, game.GameID(), d, logger)
	t.machine = flow.NewMachine(d.Sched, t.bus, t.set, t.presenter, requester, reporter, bet, flow.OptionsFromConf(d.Engine), logger)
	requester.bind(t.machine)
	t.set.OnAllStopped(t.machine.OnAllStopped)

	t.recorder = newRecorder(id, game.GameID(), t.machine, d, logger)
	t.unsub = append(t.unsub,
		t.recorder.attach(t.bus),
		t.bus.Subscribe(event.StateChanged, func(e event.Event) { metrics.IncTransition(e.State.String()) }),
		t.bus.Subscribe(event.RoundEnded, func(event.Event) { t.Touch() }),
	)
	return t
}

func (t *Table) ID() string { return t.id }
func (t *Table) GameID() int64 { return t.game.GameID() }
func (t *Table) Game() base.IGame { return t.game }
func (t *Table) Bus() *event.Bus { return t.bus }
func (t *Table) Machine() *flow.Machine { return t.machine }
func (t *Table) Reels() *reel.Set { return t.set }
func (t *Table) Presenter() *win.Sequencer { return t.presenter }
func (t *Table) Recorder() *Recorder { return t.recorder }
func (t *Table) CreatedAt() time.Time { return t.createdAt }

// Touch 记录最近一次玩家操作
func (t *Table) Touch() {
	t.lastActive.Store(time.Now().UnixNano())
}

// Idle 距最近一次操作或结算超过 ttl
func (t *Table) Idle(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.Unix(0, t.lastActive.Load())) > ttl
}

// Close 释放帧回调与定时器，之后不可再用
func (t *Table) Close() {
	for _, fn := range t.unsub {
		fn()
	}
	t.unsub = nil
	t.machine.Close()
	t.presenter.Reset()
	t.set.Reset()
}
