package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/reel"
	"reelflow/internal/biz/round"
	"reelflow/internal/conf"
	"reelflow/internal/notify"
	"reelflow/pkg/clock"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
)

type chanPoster chan func()

func (p chanPoster) Post(fn func()) { p <- fn }

type stubSource struct {
	err error
}

func (s stubSource) Spin(_ context.Context, o SpinOrder) (*round.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &round.Result{RoundID: "r-1", RngPerColumn: []int{2, 9, 17}}, nil
}

type chanStore chan Record

func (s chanStore) SaveRound(_ context.Context, rec Record) error {
	s <- rec
	return nil
}

type chanNotifier chan *notify.Message

func (n chanNotifier) Send(_ context.Context, msg *notify.Message) error {
	n <- msg
	return nil
}

func testGame() base.IGame {
	strip := make(base.Strip, 20)
	for i := range strip {
		strip[i] = base.SymbolID(i + 1)
	}
	return base.NewBaseGame(1, "test", base.Config{
		Rows:    3,
		Columns: 3,
		Base:    []base.Strip{strip, strip, strip},
		Bands: base.Bands{
			Wild:    base.Band{From: 1, To: 1},
			Scatter: base.Band{From: 2, To: 2},
			High:    base.Band{From: 3, To: 10},
			Low:     base.Band{From: 11, To: 20},
		},
	})
}

type harness struct {
	clk      *clock.Fake
	poster   chanPoster
	store    chanStore
	notifier chanNotifier
	table    *Table
}

func newHarness(t *testing.T, source ResultSource) *harness {
	workers, err := ants.NewPool(4)
	if err != nil {
		t.Fatalf("ants: %v", err)
	}
	t.Cleanup(workers.Release)
	h := &harness{
		clk:      clock.NewFake(),
		poster:   make(chanPoster, 4),
		store:    make(chanStore, 4),
		notifier: make(chanNotifier, 4),
	}
	h.table = New("t-1", testGame(), decimal.NewFromInt(1), Deps{
		Sched:    h.clk,
		Poster:   h.poster,
		Source:   source,
		Store:    h.store,
		Workers:  workers,
		Notifier: h.notifier,
		Engine:   (*conf.Engine)(nil).Normalize(),
		Logger:   log.DefaultLogger,
		Journal:  2,
	})
	return h
}

// deliver 等待 worker 投递的结果并在“帧线程”执行
func (h *harness) deliver(t *testing.T) {
	t.Helper()
	select {
	case fn := <-h.poster:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatalf("result was not posted")
	}
}

func TestTableRoundSettles(t *testing.T) {
	h := newHarness(t, stubSource{})
	m := h.table.Machine()
	if err := m.Spin(); err != nil {
		t.Fatalf("spin: %v", err)
	}
	h.deliver(t)
	if m.Current() != round.Stopping {
		t.Fatalf("state=%s want stopping", m.Current())
	}
	h.clk.Advance(10 * time.Second)
	if m.Current() != round.Idle {
		t.Fatalf("state=%s want idle", m.Current())
	}

	select {
	case rec := <-h.store:
		if rec.RoundID != "r-1" || rec.Status != StatusSettled || rec.TableID != "t-1" {
			t.Fatalf("saved record=%+v", rec)
		}
		if rec.Duration <= 0 {
			t.Fatalf("duration=%v", rec.Duration)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("round was not saved")
	}

	snap := h.table.Snapshot(5)
	if snap.State != round.Idle.String() || snap.Rounds != 1 || len(snap.LastRounds) != 1 {
		t.Fatalf("snapshot state=%s rounds=%d last=%d", snap.State, snap.Rounds, len(snap.LastRounds))
	}
	if snap.Window[0][0] != 2 || snap.Window[1][0] != 9 || snap.Window[2][0] != 17 {
		t.Fatalf("window=%v", snap.Window)
	}
	for i, c := range snap.Columns {
		if c.Phase != reel.Stopped.String() {
			t.Fatalf("column %d phase=%s", i, c.Phase)
		}
	}
}

func TestTableJournalBounded(t *testing.T) {
	h := newHarness(t, stubSource{})
	m := h.table.Machine()
	for i := 0; i < 3; i++ {
		if err := m.Spin(); err != nil {
			t.Fatalf("spin %d: %v", i, err)
		}
		h.deliver(t)
		h.clk.Advance(10 * time.Second)
		<-h.store
	}
	j := h.table.Recorder().Journal()
	if len(j) != 2 || h.table.Recorder().Rounds() != 3 {
		t.Fatalf("journal=%d rounds=%d", len(j), h.table.Recorder().Rounds())
	}
}

func TestTableSourceFailureAlarms(t *testing.T) {
	h := newHarness(t, stubSource{err: errors.New("rgs down")})
	m := h.table.Machine()
	if err := m.Spin(); err != nil {
		t.Fatalf("spin: %v", err)
	}
	h.clk.Advance(31 * time.Second)
	if !m.Disabled() {
		t.Fatalf("machine not disabled after watchdog")
	}

	select {
	case msg := <-h.notifier:
		if msg.Title != "牌局告警 SPIN_TIMEOUT" {
			t.Fatalf("alarm title=%q", msg.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("alarm not sent")
	}
	select {
	case rec := <-h.store:
		if rec.Status != StatusFatal || rec.Reason != "SPIN_TIMEOUT" {
			t.Fatalf("fatal record=%+v", rec)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fatal round was not saved")
	}
	select {
	case <-h.poster:
		t.Fatalf("failed spin must not post a result")
	default:
	}
}

func TestPoolCleanupIdle(t *testing.T) {
	h := newHarness(t, stubSource{})
	p := NewPool()
	p.Add(h.table)
	other := newHarness(t, stubSource{}).table
	other.id = "t-2"
	p.Add(other)
	if p.Len() != 2 {
		t.Fatalf("len=%d", p.Len())
	}

	now := time.Now()
	h.table.lastActive.Store(now.Add(-time.Hour).UnixNano())
	removed := p.CleanupIdle(now, 30*time.Minute)
	if len(removed) != 1 || removed[0].ID() != "t-1" {
		t.Fatalf("removed=%v", removed)
	}
	if _, ok := p.Get("t-1"); ok {
		t.Fatalf("idle table still pooled")
	}
	if _, ok := p.Remove("t-2"); !ok || p.Len() != 0 {
		t.Fatalf("remove failed, len=%d", p.Len())
	}
	h.table.Close()
	other.Close()
}
