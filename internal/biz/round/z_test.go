package round

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStateNames(t *testing.T) {
	for _, s := range States() {
		if s.String() == "unknown" || s.String() == "" {
			t.Errorf("state %d has no name", s)
		}
	}
	if State(99).Valid() {
		t.Fatal("99 should be invalid")
	}
	if !FeatureSpin.IsFeature() || Spinning.IsFeature() {
		t.Fatal("IsFeature wrong")
	}
	if !Stopping.IsSpinning() || ShowWin.IsSpinning() {
		t.Fatal("IsSpinning wrong")
	}
}

func TestWinGroupCursor(t *testing.T) {
	g := NewWinGroup([]WinLine{
		{Credit: decimal.NewFromInt(2)},
		{Credit: decimal.NewFromInt(3)},
	})
	if _, ok := g.Next(); !ok {
		t.Fatal("first next failed")
	}
	if _, ok := g.Next(); !ok {
		t.Fatal("second next failed")
	}
	if _, ok := g.Next(); ok {
		t.Fatal("exhausted group returned a line")
	}
	g.Reset()
	if g.Cursor() != 0 {
		t.Fatalf("cursor = %d", g.Cursor())
	}
	if !g.Total().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("total = %s", g.Total())
	}
}

func TestClassifyBigWin(t *testing.T) {
	th := []float64{10, 25, 50, 100, 200}
	bet := decimal.NewFromInt(2)
	cases := []struct {
		win  int64
		want BigWinTier
	}{
		{0, TierNone},
		{19, TierNone},
		{20, TierBig},
		{60, TierMega},
		{100, TierSuper},
		{250, TierUltra},
		{400, TierUltimate},
		{100000, TierUltimate},
	}
	for _, c := range cases {
		if got := ClassifyBigWin(decimal.NewFromInt(c.win), bet, th); got != c.want {
			t.Errorf("win %d: tier %s, want %s", c.win, got, c.want)
		}
	}
	if got := ClassifyBigWin(decimal.NewFromInt(100), decimal.Zero, th); got != TierNone {
		t.Errorf("zero bet tier = %s", got)
	}
}

func TestResultPayAt(t *testing.T) {
	r := &Result{PayByPosition: [][]int64{{1, 2, 3}, {4}}}
	if v, ok := r.PayAt(0, 2); !ok || v != 3 {
		t.Fatalf("PayAt(0,2) = %d,%v", v, ok)
	}
	if _, ok := r.PayAt(1, 1); ok {
		t.Fatal("short column should be undefined")
	}
	if _, ok := r.PayAt(2, 0); ok {
		t.Fatal("missing column should be undefined")
	}
	var nilRes *Result
	if _, ok := nilRes.PayAt(0, 0); ok {
		t.Fatal("nil result defined")
	}
}

func TestParseState(t *testing.T) {
	for _, s := range States() {
		got, ok := ParseState(s.String())
		if !ok || got != s {
			t.Fatalf("ParseState(%q)=%s,%v", s.String(), got, ok)
		}
	}
	if _, ok := ParseState("nope"); ok {
		t.Fatal("unknown name parsed")
	}
}

func TestResultWithoutCredit(t *testing.T) {
	res := &Result{
		RoundID:      "r1",
		RngPerColumn: []int{4, 5, 6},
		Lines:        []WinLine{{Symbol: 3, Credit: decimal.NewFromInt(9)}},
		WinType:      WinBonus,
		FeatureSpins: 8,
		TotalCredit:  decimal.NewFromInt(9),
		Jackpot:      decimal.NewFromInt(1),
	}
	cp := res.WithoutCredit()
	if !cp.Payout().IsZero() || len(cp.Lines) != 0 {
		t.Fatalf("payout=%s lines=%d", cp.Payout(), len(cp.Lines))
	}
	if !cp.BonusTriggered() || len(cp.RngPerColumn) != 3 || cp.RoundID != "r1" {
		t.Fatalf("copy lost round data: %+v", cp)
	}
	if !res.Payout().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("original modified: %s", res.Payout())
	}
}
