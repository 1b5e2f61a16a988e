package data

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/reel"
	"reelflow/internal/biz/round"
	"reelflow/internal/biz/table"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

func seqStrip() base.Strip {
	strip := make(base.Strip, 20)
	for i := range strip {
		strip[i] = base.SymbolID(i + 1)
	}
	return strip
}

var testBands = base.Bands{
	Wild:    base.Band{From: 1, To: 1},
	Scatter: base.Band{From: 2, To: 2},
	High:    base.Band{From: 3, To: 10},
	Low:     base.Band{From: 11, To: 20},
}

func newTestGame(strips []base.Strip) *base.Default {
	return base.NewBaseGame(7, "test", base.Config{
		Rows:         3,
		Columns:      3,
		Base:         strips,
		Bands:        testBands,
		Paylines:     [][]int{{0, 0, 0}, {1, 1, 1}},
		PayTable:     map[base.SymbolID][]int64{5: {0, 0, 10}},
		FeatureAward: map[int]int{3: 8},
	})
}

func TestDealMatchesReelLanding(t *testing.T) {
	g := newTestGame([]base.Strip{seqStrip(), seqStrip(), seqStrip()})
	for seed := uint64(1); seed <= 20; seed++ {
		res := Deal(g, table.SpinOrder{GameID: 7, Bet: decimal.NewFromInt(2)}, rand.New(rand.NewPCG(seed, 2)))

		e := reel.NewEngine(g, rand.New(rand.NewPCG(seed, 3)), log.DefaultLogger)
		if err := e.Seed(res); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for col := 0; col < g.Columns(); col++ {
			e.LandNow(col)
		}
		want := visible(g.Strips(base.SceneBase), res.RngPerColumn, g.Rows())
		got := e.Visible()
		for col := range want {
			for row := range want[col] {
				if got[col][row] != want[col][row] {
					t.Fatalf("seed %d rng=%v cell[%d][%d]=%d want %d", seed, res.RngPerColumn, col, row, got[col][row], want[col][row])
				}
			}
		}
		if len(res.PayByPosition) != 3 || len(res.PayByPosition[0]) != 3 {
			t.Fatalf("pay grid=%v", res.PayByPosition)
		}
	}
}

func TestDealLineCredit(t *testing.T) {
	five := base.Strip{5, 5, 5, 5, 5}
	g := newTestGame([]base.Strip{five, five, five})
	res := Deal(g, table.SpinOrder{GameID: 7, Bet: decimal.NewFromInt(2)}, rand.New(rand.NewPCG(1, 1)))

	if len(res.Lines) != 2 {
		t.Fatalf("lines=%d want 2", len(res.Lines))
	}
	for _, l := range res.Lines {
		if !l.Credit.Equal(decimal.NewFromInt(10)) || l.IsFiveLine || l.ChangesLayout || len(l.Positions) != 3 {
			t.Fatalf("line=%+v", l)
		}
	}
	if !res.TotalCredit.Equal(decimal.NewFromInt(20)) || res.WinType != round.WinNormal {
		t.Fatalf("total=%s type=%v", res.TotalCredit, res.WinType)
	}
	for col, slow := range res.SlowColumns {
		if slow {
			t.Fatalf("column %d slow without scatters", col)
		}
	}
}

func TestDealSlowColumnsAfterTwoScatters(t *testing.T) {
	scatter := base.Strip{2, 2, 2, 2, 2}
	g := newTestGame([]base.Strip{scatter, scatter, seqStrip()})
	res := Deal(g, table.SpinOrder{GameID: 7, Bet: decimal.NewFromInt(1)}, rand.New(rand.NewPCG(4, 4)))

	if res.SlowColumns[0] || !res.SlowColumns[1] || !res.SlowColumns[2] {
		t.Fatalf("slow=%v", res.SlowColumns)
	}
	if res.FeatureSpins != 8 || !res.BonusTriggered() || res.WinType != round.WinBonus {
		t.Fatalf("feature=%d type=%v", res.FeatureSpins, res.WinType)
	}
}

func TestDealBuyFeatureForcesTrigger(t *testing.T) {
	// 每条带只有一个分散，几乎不可能自然触发
	sparse := make(base.Strip, 40)
	for i := range sparse {
		sparse[i] = base.SymbolID(11 + i%10)
	}
	sparse[17] = 2
	g := newTestGame([]base.Strip{sparse, sparse, sparse})

	for seed := uint64(1); seed <= 5; seed++ {
		order := table.SpinOrder{GameID: 7, Bet: decimal.NewFromInt(1), BuyFeature: true}
		res := Deal(g, order, rand.New(rand.NewPCG(seed, 9)))
		if !res.BonusTriggered() || res.FeatureSpins != 8 {
			t.Fatalf("seed %d: buy feature did not trigger, rng=%v", seed, res.RngPerColumn)
		}
	}
}

func TestClassifyBetOrder(t *testing.T) {
	cases := []struct {
		msg      string
		relaunch bool
		relogin  bool
		sleep    time.Duration
	}{
		{msg: "Invalid Token", relaunch: true},
		{msg: " internal error ", relaunch: true, sleep: time.Second},
		{msg: "连接失效", relaunch: true},
		{msg: "rate limit", relogin: true, sleep: 3 * time.Second},
		{msg: "insufficient balance"},
	}
	for _, c := range cases {
		e := classifyBetOrder(1, c.msg)
		if e.NeedRelaunch != c.relaunch || e.NeedRelogin != c.relogin || e.SleepDuration != c.sleep {
			t.Fatalf("%q => %+v", c.msg, e)
		}
	}
}

func TestDailySeqWithoutRedis(t *testing.T) {
	d := &Data{}
	date := time.Now().Format("20060102")
	first, err := d.dailySeq(context.Background(), tableSeqPrefix, 7)
	if err != nil {
		t.Fatalf("seq: %v", err)
	}
	second, _ := d.dailySeq(context.Background(), tableSeqPrefix, 7)
	if first != date+"-7-L1" || second != date+"-7-L2" {
		t.Fatalf("first=%s second=%s", first, second)
	}
}

func TestSnapshotInMemory(t *testing.T) {
	r := &dataRepo{data: &Data{}, log: log.NewHelper(log.DefaultLogger)}
	ctx := context.Background()

	if snap, err := r.LoadSnapshot(ctx, "t-1"); err != nil || snap != nil {
		t.Fatalf("missing snapshot=%v err=%v", snap, err)
	}
	if err := r.SaveSnapshot(ctx, table.Snapshot{TableID: "t-1", GameID: 7, State: "idle", Rounds: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, err := r.LoadSnapshot(ctx, "t-1")
	if err != nil || snap == nil || snap.Rounds != 3 || snap.State != "idle" {
		t.Fatalf("load=%+v err=%v", snap, err)
	}
	if err := r.DeleteSnapshot(ctx, "t-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if snap, _ := r.LoadSnapshot(ctx, "t-1"); snap != nil {
		t.Fatalf("snapshot survived delete")
	}
}

func TestUploadJournalWithoutBucket(t *testing.T) {
	r := &dataRepo{data: &Data{}, log: log.NewHelper(log.DefaultLogger)}
	_, err := r.UploadJournal(context.Background(), "j.json", []byte("[]"))
	if err == nil || !strings.Contains(err.Error(), "S3_NOT_CONFIGURED") {
		t.Fatalf("err=%v", err)
	}
}
