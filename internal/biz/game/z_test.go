package game

import (
	"testing"

	"reelflow/internal/biz/game/base"
)

func TestRegisteredGamesValid(t *testing.T) {
	p := NewPool()
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	list := p.List()
	if len(list) != len(gameInstances) {
		t.Fatalf("list = %d, want %d", len(list), len(gameInstances))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].GameID() >= list[i].GameID() {
			t.Fatalf("list not sorted: %d >= %d", list[i-1].GameID(), list[i].GameID())
		}
	}
	for _, g := range list {
		got, ok := p.Get(g.GameID())
		if !ok || got.Name() != g.Name() {
			t.Errorf("Get(%d) = %v, %v", g.GameID(), got, ok)
		}
		for _, scene := range []base.Scene{base.SceneBase, base.SceneFeature} {
			if n := len(g.Strips(scene)); n != g.Columns() {
				t.Errorf("game %d %s strips = %d", g.GameID(), scene, n)
			}
		}
		if len(g.BetSize()) == 0 || !g.ValidBetMoney(g.BetSize()[0]) {
			t.Errorf("game %d bet sizes broken", g.GameID())
		}
	}
	if _, ok := p.Get(1); ok {
		t.Fatal("unknown game found")
	}
}

func TestStripIndexWraps(t *testing.T) {
	s := base.Strip{10, 11, 12, 13, 14}
	cases := []struct {
		in   int
		want base.SymbolID
	}{
		{0, 10}, {4, 14}, {5, 10}, {-1, 14}, {-6, 14}, {12, 12},
	}
	for _, c := range cases {
		if got := s.At(c.in); got != c.want {
			t.Errorf("At(%d) = %d, want %d", c.in, got, c.want)
		}
		if idx := s.Index(c.in); idx < 0 || idx >= s.Len() {
			t.Errorf("Index(%d) = %d out of range", c.in, idx)
		}
	}
	w := s.Window(3, 4)
	want := []base.SymbolID{13, 14, 10, 11}
	for i := range want {
		if w[i] != want[i] {
			t.Fatalf("window = %v, want %v", w, want)
		}
	}
}

func TestBandsValidate(t *testing.T) {
	ok := base.Bands{
		Wild:    base.Band{From: 1, To: 1},
		Scatter: base.Band{From: 2, To: 2},
		High:    base.Band{From: 3, To: 6},
		Low:     base.Band{From: 7, To: 11},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid bands rejected: %v", err)
	}
	if c := ok.Classify(5); c != base.ClassHigh {
		t.Errorf("classify 5 = %s", c)
	}
	if c := ok.Classify(12); c != base.ClassUnknown {
		t.Errorf("classify 12 = %s", c)
	}

	gap := ok
	gap.Low = base.Band{From: 8, To: 11}
	if err := gap.Validate(); err == nil {
		t.Fatal("gap between bands accepted")
	}
}

func TestEvaluateWildSubstitution(t *testing.T) {
	g, _ := NewPool().Get(18912)
	// 列优先：wild 在中间列第二行，中线 7-1-7 成线
	window := [][]base.SymbolID{
		{6, 7, 8},
		{9, 1, 6},
		{9, 7, 8},
	}
	ev := base.Evaluate(g, window)
	if len(ev.Hits) != 1 {
		t.Fatalf("hits = %+v", ev.Hits)
	}
	h := ev.Hits[0]
	if h.Line != 0 || h.Symbol != 7 || h.Count != 3 || h.Multiplier != 5 {
		t.Fatalf("hit = %+v", h)
	}
	if ev.Multiplier != 5 {
		t.Fatalf("multiplier = %d", ev.Multiplier)
	}
}

func TestEvaluateScatterCountAndAward(t *testing.T) {
	g, _ := NewPool().Get(18890)
	window := [][]base.SymbolID{
		{2, 7, 8},
		{9, 10, 11},
		{7, 2, 8},
		{9, 10, 11},
		{8, 9, 2},
	}
	ev := base.Evaluate(g, window)
	if ev.Scatters != 3 {
		t.Fatalf("scatters = %d", ev.Scatters)
	}
	if spins := g.FeatureSpins(ev.Scatters); spins != 10 {
		t.Fatalf("feature spins = %d", spins)
	}
	if spins := g.FeatureSpins(2); spins != 0 {
		t.Fatalf("feature spins for 2 scatters = %d", spins)
	}
}

func TestPoolSetBetSize(t *testing.T) {
	g := base.NewBaseGame(9, "bets", base.Config{Rows: 3, Columns: 3, BetSize: []float64{1, 2}})
	p := newPool([]base.IGame{g})

	if err := p.SetBetSize(9, []float64{5, 0.5, 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := g.BetSize(); len(got) != 3 || got[0] != 0.5 || got[2] != 5 {
		t.Fatalf("bet sizes = %v", got)
	}
	if !g.ValidBetMoney(0.5) || g.ValidBetMoney(2) {
		t.Fatal("override not applied to bet validation")
	}
	if err := p.SetBetSize(10, []float64{1}); err == nil {
		t.Fatal("unknown game accepted")
	}
	if err := p.SetBetSize(9, []float64{0, 1}); err == nil {
		t.Fatal("zero bet size accepted")
	}
	if err := p.SetBetSize(9, nil); err == nil {
		t.Fatal("empty bet sizes accepted")
	}
	if got := g.BetSize(); len(got) != 3 {
		t.Fatalf("rejected override changed sizes: %v", got)
	}
}
