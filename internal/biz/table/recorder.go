package table

import (
	"context"
	"time"

	"reelflow/internal/biz/event"
	"reelflow/internal/biz/flow"
	"reelflow/internal/biz/metrics"
	"reelflow/internal/biz/reel"
	"reelflow/internal/biz/round"
	"reelflow/pkg/clock"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
)

const (
	defaultJournal = 200
	saveTimeout    = 5 * time.Second
)

// 牌局记录状态
const (
	StatusSettled = "settled"
	StatusFatal   = "fatal"
)

// Record 一局的结算摘要
type Record struct {
	RoundID      string          `json:"roundId"`
	TableID      string          `json:"tableId"`
	GameID       int64           `json:"gameId"`
	Status       string          `json:"status"`
	Reason       string          `json:"reason,omitempty"`
	Bet          decimal.Decimal `json:"bet"`
	Win          decimal.Decimal `json:"win"`
	BuyFeature   bool            `json:"buyFeature"`
	FeatureSpins int             `json:"featureSpins"`
	Duration     time.Duration   `json:"duration"`
	EndedAt      time.Time       `json:"endedAt"`
}

// viewer 读取上下文快照，flow.Machine 实现
type viewer interface {
	View() flow.View
}

// Recorder 订阅结算事件，维护本桌最近牌局并异步落库
type Recorder struct {
	tableID string
	gameID  int64
	machine viewer
	sched   clock.Scheduler
	store   RoundStore
	workers *ants.Pool
	log     *log.Helper

	startedAt time.Duration
	journal   *reel.Ring[Record]
	rounds    int64
}

func newRecorder(tableID string, gameID int64, machine viewer, d Deps, logger log.Logger) *Recorder {
	n := d.Journal
	if n <= 0 {
		n = defaultJournal
	}
	return &Recorder{
		tableID: tableID,
		gameID:  gameID,
		machine: machine,
		sched:   d.Sched,
		store:   d.Store,
		workers: d.Workers,
		log:     log.NewHelper(log.With(logger, "module", "recorder")),
		journal: reel.NewRing[Record](n),
	}
}

// attach 订阅总线，返回取消函数
func (r *Recorder) attach(bus *event.Bus) func() {
	cancels := []func(){
		bus.Subscribe(event.SpinRequested, r.onSpin),
		bus.Subscribe(event.RoundEnded, r.onRoundEnded),
		bus.Subscribe(event.Fatal, r.onFatal),
	}
	return func() {
		for _, fn := range cancels {
			fn()
		}
	}
}

// Journal 最近的牌局，旧的在前
func (r *Recorder) Journal() []Record {
	return r.journal.Slice()
}

func (r *Recorder) Rounds() int64 { return r.rounds }

func (r *Recorder) onSpin(e event.Event) {
	// 免费转属于同一局，只在基础转记开局时间
	if e.State == round.Spinning {
		r.startedAt = r.sched.Now()
	}
}

func (r *Recorder) onRoundEnded(e event.Event) {
	v := r.machine.View()
	rec := r.record(e.RoundID, v)
	rec.Status = StatusSettled
	rec.Win = e.Credit
	r.rounds++
	metrics.ObserveRound(r.gameID, rec.Duration, rec.Win)
	r.keep(rec)
}

func (r *Recorder) onFatal(e event.Event) {
	v := r.machine.View()
	rec := r.record(e.RoundID, v)
	rec.Status = StatusFatal
	rec.Reason = errors.Reason(e.Err)
	rec.Win = v.RoundWin
	r.keep(rec)
}

func (r *Recorder) record(roundID string, v flow.View) Record {
	return Record{
		RoundID:      roundID,
		TableID:      r.tableID,
		GameID:       r.gameID,
		Bet:          v.Bet,
		BuyFeature:   v.BuyFeature,
		FeatureSpins: v.FeaturePlayed,
		Duration:     r.sched.Now() - r.startedAt,
		EndedAt:      time.Now(),
	}
}

func (r *Recorder) keep(rec Record) {
	if r.journal.Full() {
		r.journal.Shift()
	}
	r.journal.Push(rec)

	if r.store == nil {
		return
	}
	save := func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := r.store.SaveRound(ctx, rec); err != nil {
			r.log.Warnf("save round %s: %v", rec.RoundID, err)
		}
	}
	if r.workers == nil {
		go save()
		return
	}
	if err := r.workers.Submit(save); err != nil {
		r.log.Warnf("save round %s submit: %v", rec.RoundID, err)
	}
}
