package flow

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"reelflow/internal/biz/event"
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/reel"
	"reelflow/internal/biz/round"
	"reelflow/internal/biz/win"
	"reelflow/pkg/clock"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/looplab/fsm"
	"github.com/shopspring/decimal"
)

type fakeReels struct {
	started []bool
	seeded  int
	scenes  []base.Scene
	resets  int
	halts   int
	turbo   []bool
}

func (r *fakeReels) StartSpin(turbo bool) { r.started = append(r.started, turbo) }
func (r *fakeReels) SetTurbo(on bool) { r.turbo = append(r.turbo, on) }
func (r *fakeReels) SetScene(scene base.Scene) { r.scenes = append(r.scenes, scene) }
func (r *fakeReels) Reset() { r.resets++ }
func (r *fakeReels) Halt() { r.halts++ }

func (r *fakeReels) Seed(res *round.Result) error {
	if res == nil || len(res.RngPerColumn) == 0 {
		return reel.ErrMalformedRNG
	}
	r.seeded++
	return nil
}

type fakeRequester struct {
	reqs []SpinRequest
}

func (q *fakeRequester) RequestSpin(req SpinRequest) { q.reqs = append(q.reqs, req) }

type fakeReporter struct {
	alarms []error
	warns  []error
}

func (p *fakeReporter) Alarm(_ View, err error) { p.alarms = append(p.alarms, err) }
func (p *fakeReporter) Warn(_ View, err error) { p.warns = append(p.warns, err) }

func testOptions() Options {
	return Options{
		SpinTimeout:      30 * time.Second,
		MaxCredit:        decimal.NewFromInt(1_000_000),
		WinIdleDelay:     2500 * time.Millisecond,
		NoWinIdleDelay:   800 * time.Millisecond,
		FeatureDelay:     time.Second,
		FeatureTrigger:   2 * time.Second,
		FeatureTranslate: 1500 * time.Millisecond,
		FeatureRetrigger: 2 * time.Second,
		FeatureResult:    3 * time.Second,
		ShowJackpot:      3 * time.Second,
		ShowRedPacket:    2 * time.Second,
		ShowUserCoin:     2 * time.Second,
	}
}

func testTiming() win.Timing {
	return win.Timing{
		LineDelay:     1200 * time.Millisecond,
		LayoutDelay:   2 * time.Second,
		FiveLineDelay: 2500 * time.Millisecond,
		TierDuration:  1500 * time.Millisecond,
		Thresholds:    []float64{10, 25, 50, 100, 200},
	}
}

type harness struct {
	clk    *clock.Fake
	bus    *event.Bus
	m      *Machine
	reels  *fakeReels
	req    *fakeRequester
	rep    *fakeReporter
	events []event.Event
}

func newHarness() *harness {
	return newHarnessWith(testOptions())
}

func newHarnessWith(opts Options) *harness {
	h := &harness{
		clk:   clock.NewFake(),
		bus:   event.NewBus(),
		reels: &fakeReels{},
		req:   &fakeRequester{},
		rep:   &fakeReporter{},
	}
	h.bus.SubscribeAll(func(e event.Event) { h.events = append(h.events, e) })
	seq := win.NewSequencer(h.clk, h.bus, testTiming())
	h.m = NewMachine(h.clk, h.bus, h.reels, seq, h.req, h.rep, decimal.NewFromInt(10), opts, log.DefaultLogger)
	return h
}

func (h *harness) states() []round.State {
	var out []round.State
	for _, e := range h.events {
		if e.Kind == event.StateChanged {
			out = append(out, e.State)
		}
	}
	return out
}

func (h *harness) count(kind event.Kind) int {
	n := 0
	for _, e := range h.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (h *harness) expect(t *testing.T, want round.State) {
	t.Helper()
	if got := h.m.Current(); got != want {
		t.Fatalf("state=%s want %s", got, want)
	}
}

func plain(id string, credit int64) *round.Result {
	res := &round.Result{RoundID: id, RngPerColumn: []int{1, 2, 3}, TotalCredit: decimal.NewFromInt(credit)}
	if credit > 0 {
		res.Lines = []round.WinLine{{Symbol: 7, Credit: decimal.NewFromInt(credit)}}
	}
	return res
}

func bonus(id string, spins int) *round.Result {
	return &round.Result{RoundID: id, RngPerColumn: []int{1, 2, 3}, WinType: round.WinBonus, FeatureSpins: spins}
}

func TestSuccessorTotal(t *testing.T) {
	for _, s := range round.States() {
		if _, ok := gates[s]; !ok {
			t.Errorf("state %s has no gate", s)
		}
		for _, p := range allPredicates() {
			next := Successor(s, p)
			if !next.Valid() {
				t.Errorf("Successor(%s,%+v)=%s invalid", s, p, next)
			}
			if next == s {
				t.Errorf("Successor(%s,%+v) loops to itself", s, p)
			}
		}
	}
}

func TestSuccessorBranches(t *testing.T) {
	cases := []struct {
		s    round.State
		p    Predicates
		want round.State
	}{
		{round.Wait, Predicates{}, round.EndGame},
		{round.Wait, Predicates{BonusTriggered: true}, round.FeatureTrigger},
		{round.FeatureShowWin, Predicates{}, round.FeatureWait},
		{round.FeatureShowWin, Predicates{BonusTriggered: true}, round.FeatureRetrigger},
		{round.FeatureWait, Predicates{}, round.FeatureSpin},
		{round.FeatureWait, Predicates{BonusFinished: true}, round.FeatureCheckResult},
		{round.FeatureCheckResult, Predicates{}, round.EndGame},
		{round.EndGame, Predicates{}, round.Idle},
	}
	for _, c := range cases {
		if got := Successor(c.s, c.p); got != c.want {
			t.Errorf("Successor(%s,%+v)=%s want %s", c.s, c.p, got, c.want)
		}
	}
}

func TestEdgesFollowSuccessorTable(t *testing.T) {
	edges := newEdges(nil)
	if !edges.Can(round.Spinning.String()) {
		t.Fatalf("idle should reach spinning")
	}
	if edges.Can(round.ShowWin.String()) {
		t.Fatalf("idle must not reach show_win")
	}
}

func TestEdgesHoldMachineState(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	if got := h.m.edges.Current(); got != round.Spinning.String() {
		t.Fatalf("fsm state=%s", got)
	}
	// 直接驱动 fsm 同样执行进入动作
	h.m.edges.SetState(round.Wait.String())
	h.m.ctx.result = plain("r1", 0)
	if err := h.m.edges.Event(context.Background(), round.EndGame.String()); err != nil {
		t.Fatalf("event: %v", err)
	}
	h.expect(t, round.EndGame)
	if h.m.Previous() != round.Wait || h.count(event.RoundEnded) != 1 {
		t.Fatalf("previous=%s ended=%d", h.m.Previous(), h.count(event.RoundEnded))
	}
	if err := h.m.edges.Event(context.Background(), round.ShowWin.String()); err == nil {
		t.Fatalf("end_game -> show_win accepted")
	}
	h.expect(t, round.EndGame)
}

func TestEdgesRejectedWhileDisabled(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	h.clk.Advance(31 * time.Second)
	if !h.m.Disabled() {
		t.Fatal("watchdog did not fire")
	}
	err := h.m.edges.Event(context.Background(), round.Stopping.String())
	var canceled fsm.CanceledError
	if !errors.As(err, &canceled) || !errors.Is(canceled.Err, ErrMachineDisabled) {
		t.Fatalf("err=%v", err)
	}
	h.expect(t, round.Spinning)
}

func TestBaseRoundNoWin(t *testing.T) {
	h := newHarness()
	if err := h.m.Spin(); err != nil {
		t.Fatalf("spin: %v", err)
	}
	h.expect(t, round.Spinning)
	if len(h.req.reqs) != 1 || h.req.reqs[0].Seq != 1 || h.req.reqs[0].Scene != base.SceneBase {
		t.Fatalf("requests=%+v", h.req.reqs)
	}
	if err := h.m.OnResult(1, plain("r1", 0)); err != nil {
		t.Fatalf("result: %v", err)
	}
	h.expect(t, round.Stopping)
	h.m.OnAllStopped()
	h.expect(t, round.Idle)

	want := []round.State{
		round.Spinning, round.Stopping, round.ShowWin, round.ShowJackpot, round.ShowRedPacket,
		round.ShowUserCoin, round.Wait, round.EndGame, round.Idle,
	}
	got := h.states()
	if len(got) != len(want) {
		t.Fatalf("states=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("states[%d]=%s want %s", i, got[i], want[i])
		}
	}
	if h.m.Previous() != round.EndGame {
		t.Fatalf("previous=%s want end_game", h.m.Previous())
	}
	if h.count(event.RoundEnded) != 1 {
		t.Fatalf("round ended events=%d", h.count(event.RoundEnded))
	}
}

func TestBaseRoundWinAndJackpot(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	res := plain("r1", 5)
	res.Jackpot = decimal.NewFromInt(1)
	if err := h.m.OnResult(1, res); err != nil {
		t.Fatalf("result: %v", err)
	}
	h.m.OnAllStopped()
	h.expect(t, round.ShowWin)

	h.clk.Advance(1200 * time.Millisecond)
	h.expect(t, round.ShowJackpot)
	h.clk.Advance(2999 * time.Millisecond)
	h.expect(t, round.ShowJackpot)
	h.clk.Advance(time.Millisecond)
	h.expect(t, round.Idle)

	v := h.m.View()
	if !v.LastWin.Equal(decimal.NewFromInt(6)) || !v.TotalWin.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("lastWin=%s totalWin=%s want 6", v.LastWin, v.TotalWin)
	}
	if v.RoundWin.IsPositive() {
		t.Fatalf("round win not cleared: %s", v.RoundWin)
	}
}

func TestSkipDuringShowWin(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	res := plain("r1", 5)
	res.Lines = append(res.Lines, round.WinLine{Symbol: 8, Credit: decimal.NewFromInt(1)})
	_ = h.m.OnResult(1, res)
	h.m.OnAllStopped()
	h.expect(t, round.ShowWin)
	h.m.Skip()
	h.expect(t, round.Idle)
}

func TestAutoplayIdleDelays(t *testing.T) {
	h := newHarness()
	h.m.SetAutoplay(true, 0)

	h.clk.Advance(799 * time.Millisecond)
	h.expect(t, round.Idle)
	h.clk.Advance(time.Millisecond)
	h.expect(t, round.Spinning)

	// 本局有赢分，下一次自动转动等待更久
	_ = h.m.OnResult(1, plain("r1", 3))
	h.m.OnAllStopped()
	h.clk.Advance(1200 * time.Millisecond)
	h.expect(t, round.Idle)

	h.clk.Advance(2499 * time.Millisecond)
	h.expect(t, round.Idle)
	h.clk.Advance(time.Millisecond)
	h.expect(t, round.Spinning)

	_ = h.m.OnResult(2, plain("r2", 0))
	h.m.OnAllStopped()
	h.expect(t, round.Idle)
	h.clk.Advance(800 * time.Millisecond)
	h.expect(t, round.Spinning)
}

func TestAutoplayLimitedRounds(t *testing.T) {
	h := newHarness()
	h.m.SetAutoplay(true, 1)
	h.clk.Advance(800 * time.Millisecond)
	h.expect(t, round.Spinning)
	_ = h.m.OnResult(1, plain("r1", 0))
	h.m.OnAllStopped()
	h.clk.Advance(10 * time.Second)
	h.expect(t, round.Idle)
	if h.m.View().Autoplay {
		t.Fatalf("autoplay should stop after the last counted round")
	}
}

func TestAutoplayCancel(t *testing.T) {
	h := newHarness()
	h.m.SetAutoplay(true, 0)
	h.m.SetAutoplay(false, 0)
	h.clk.Advance(5 * time.Second)
	h.expect(t, round.Idle)
}

func TestWatchdogFatalOnce(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	h.clk.Advance(29900 * time.Millisecond)
	if h.m.Disabled() {
		t.Fatalf("disabled before timeout")
	}
	h.clk.Advance(200 * time.Millisecond)
	if !h.m.Disabled() {
		t.Fatalf("watchdog did not fire")
	}
	if len(h.rep.alarms) != 1 || !errors.Is(h.rep.alarms[0], ErrSpinTimeout) {
		t.Fatalf("alarms=%v", h.rep.alarms)
	}
	h.clk.Advance(time.Minute)
	if len(h.rep.alarms) != 1 || h.count(event.Fatal) != 1 {
		t.Fatalf("fatal raised more than once")
	}
	h.expect(t, round.Spinning)
	if h.reels.halts != 1 {
		t.Fatalf("reels not halted on fatal, halts=%d", h.reels.halts)
	}

	if err := h.m.OnResult(1, plain("late", 0)); !errors.Is(err, ErrMachineDisabled) {
		t.Fatalf("late result err=%v", err)
	}
	if err := h.m.Spin(); !errors.Is(err, ErrMachineDisabled) {
		t.Fatalf("spin err=%v", err)
	}

	h.m.Reset()
	h.expect(t, round.Idle)
	if h.m.Disabled() || h.reels.resets != 1 {
		t.Fatalf("reset did not re-enable machine")
	}
	if err := h.m.Spin(); err != nil {
		t.Fatalf("spin after reset: %v", err)
	}
	h.expect(t, round.Spinning)
}

func TestWatchdogResetsEachSpin(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	h.clk.Advance(20 * time.Second)
	_ = h.m.OnResult(1, plain("r1", 0))
	h.m.OnAllStopped()
	_ = h.m.Spin()
	h.clk.Advance(20 * time.Second)
	if h.m.Disabled() {
		t.Fatalf("watchdog carried over between rounds")
	}
}

func TestMalformedRNGStallsUntilWatchdog(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	res := plain("bad", 0)
	res.RngPerColumn = nil
	if err := h.m.OnResult(1, res); !errors.Is(err, reel.ErrMalformedRNG) {
		t.Fatalf("err=%v want malformed", err)
	}
	h.expect(t, round.Spinning)
	if len(h.rep.warns) != 1 || h.count(event.Warning) != 1 {
		t.Fatalf("warning not raised")
	}
	h.clk.Advance(31 * time.Second)
	if !h.m.Disabled() || len(h.rep.alarms) != 1 {
		t.Fatalf("stalled spin should end in the fatal timeout")
	}
}

func TestOverflowCreditDiscardedRoundContinues(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	before := h.m.View()
	if err := h.m.OnResult(1, plain("huge", 2_000_000)); err != nil {
		t.Fatalf("overflow result err=%v", err)
	}
	if len(h.rep.warns) != 1 || !errors.Is(h.rep.warns[0], ErrCreditOverflow) {
		t.Fatalf("warns=%v", h.rep.warns)
	}
	h.expect(t, round.Stopping)
	if h.reels.seeded != 1 {
		t.Fatalf("reels not seeded, seeded=%d", h.reels.seeded)
	}
	after := h.m.View()
	if !after.TotalWin.Equal(before.TotalWin) || !after.RoundWin.Equal(before.RoundWin) {
		t.Fatalf("credit applied: total=%s round=%s", after.TotalWin, after.RoundWin)
	}

	h.m.OnAllStopped()
	h.expect(t, round.Idle)
	h.clk.Advance(31 * time.Second)
	if h.m.Disabled() || len(h.rep.alarms) != 0 {
		t.Fatalf("overflow escalated: disabled=%v alarms=%v", h.m.Disabled(), h.rep.alarms)
	}
	if v := h.m.View(); !v.LastWin.IsZero() || h.count(event.RoundEnded) != 1 {
		t.Fatalf("lastWin=%s ended=%d", v.LastWin, h.count(event.RoundEnded))
	}
	if err := h.m.Spin(); err != nil {
		t.Fatalf("next spin: %v", err)
	}
}

func TestSmallWinsPastCreditLimitAllSettle(t *testing.T) {
	opts := testOptions()
	opts.MaxCredit = decimal.NewFromInt(100)
	h := newHarnessWith(opts)
	for seq := int64(1); seq <= 4; seq++ {
		if err := h.m.Spin(); err != nil {
			t.Fatalf("round %d spin: %v", seq, err)
		}
		if err := h.m.OnResult(seq, plain("r", 40)); err != nil {
			t.Fatalf("round %d result: %v", seq, err)
		}
		h.m.OnAllStopped()
		h.clk.Advance(1200 * time.Millisecond)
		h.expect(t, round.Idle)
	}
	if len(h.rep.warns) != 0 {
		t.Fatalf("warns=%v", h.rep.warns)
	}
	if v := h.m.View(); !v.TotalWin.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("totalWin=%s want 160", v.TotalWin)
	}
}

func TestTurboPerRound(t *testing.T) {
	h := newHarness()
	h.m.SetTurbo(true)
	_ = h.m.Spin()
	if !h.reels.started[0] || !h.m.View().RoundTurbo {
		t.Fatalf("turbo not applied to round")
	}
	_ = h.m.OnResult(1, plain("r1", 0))
	h.m.OnAllStopped()

	if err := h.m.BuyFeature(); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if h.reels.started[1] || h.m.View().RoundTurbo {
		t.Fatalf("buy feature must disable turbo")
	}
	if !h.req.reqs[1].BuyFeature {
		t.Fatalf("request missing buy flag")
	}
	h.m.SetTurbo(true)
	if len(h.reels.turbo) != 0 {
		t.Fatalf("turbo toggled reels during buy-feature round")
	}
}

func TestGateRejection(t *testing.T) {
	h := newHarness()
	if err := h.m.OnResult(0, plain("x", 0)); !errors.Is(err, ErrGateRejected) {
		t.Fatalf("result in idle err=%v", err)
	}
	if err := h.m.StartFeature(); !errors.Is(err, ErrGateRejected) {
		t.Fatalf("start feature in idle err=%v", err)
	}
	h.m.OnAllStopped()
	h.expect(t, round.Idle)

	_ = h.m.Spin()
	if err := h.m.Spin(); !errors.Is(err, ErrGateRejected) {
		t.Fatalf("double spin err=%v", err)
	}
	if err := h.m.OnResult(7, plain("stale", 0)); !errors.Is(err, ErrGateRejected) {
		t.Fatalf("stale result err=%v", err)
	}
	h.m.OnAllStopped()
	h.expect(t, round.Spinning)
	if err := h.m.SetBet(decimal.NewFromInt(20)); !errors.Is(err, ErrGateRejected) {
		t.Fatalf("bet change mid-round err=%v", err)
	}
}

func TestFeatureRound(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	_ = h.m.OnResult(1, bonus("r1", 2))
	h.m.OnAllStopped()
	h.expect(t, round.FeatureTrigger)
	if v := h.m.View(); v.FeatureGranted != 2 || v.FeaturePlayed != 0 {
		t.Fatalf("feature counters=%d/%d", v.FeaturePlayed, v.FeatureGranted)
	}

	h.clk.Advance(2 * time.Second)
	h.expect(t, round.FeatureTranslate)
	if len(h.reels.scenes) != 1 || h.reels.scenes[0] != base.SceneFeature {
		t.Fatalf("scenes=%v", h.reels.scenes)
	}
	h.clk.Advance(1500 * time.Millisecond)
	h.expect(t, round.FeatureWaitStart)
	h.clk.Advance(10 * time.Second)
	h.expect(t, round.FeatureWaitStart)

	if err := h.m.StartFeature(); err != nil {
		t.Fatalf("start feature: %v", err)
	}
	h.expect(t, round.FeatureSpin)
	if r := h.req.reqs[1]; r.FeatureIndex != 1 || r.Scene != base.SceneFeature || r.BuyFeature {
		t.Fatalf("feature request=%+v", r)
	}

	// 第一转再触发 1 次，带一条线
	re := bonus("f1", 1)
	re.TotalCredit = decimal.NewFromInt(3)
	re.Lines = []round.WinLine{{Symbol: 2, Credit: decimal.NewFromInt(3)}}
	_ = h.m.OnResult(2, re)
	h.m.OnAllStopped()
	h.expect(t, round.FeatureShowWin)
	trigger := false
	for _, e := range h.events {
		if e.Kind == event.Sound && e.Sound == event.SoundTrigger {
			trigger = true
		}
	}
	if !trigger {
		t.Fatalf("retrigger line should play trigger sound")
	}
	h.clk.Advance(1200 * time.Millisecond)
	h.expect(t, round.FeatureRetrigger)
	if h.m.View().FeatureGranted != 3 {
		t.Fatalf("granted=%d want 3", h.m.View().FeatureGranted)
	}
	h.clk.Advance(2 * time.Second)
	h.expect(t, round.FeatureWait)
	h.clk.Advance(time.Second)
	h.expect(t, round.FeatureSpin)

	for seq := int64(3); seq <= 4; seq++ {
		_ = h.m.OnResult(seq, plain("f", 0))
		h.m.OnAllStopped()
		h.expect(t, round.FeatureWait)
		h.clk.Advance(time.Second)
	}
	h.expect(t, round.FeatureCheckResult)
	if last := h.reels.scenes[len(h.reels.scenes)-1]; last != base.SceneBase {
		t.Fatalf("scene not restored: %v", h.reels.scenes)
	}
	h.clk.Advance(3 * time.Second)
	h.expect(t, round.Idle)

	v := h.m.View()
	if v.FeaturePlayed != 0 || v.Scene != base.SceneBase {
		t.Fatalf("feature state leaked: %+v", v)
	}
	if !v.LastWin.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("lastWin=%s want 3", v.LastWin)
	}
	if h.count(event.RoundEnded) != 1 {
		t.Fatalf("round ended %d times", h.count(event.RoundEnded))
	}
}

func TestBuyFeatureAutoStarts(t *testing.T) {
	h := newHarness()
	h.m.SetTurbo(true)
	_ = h.m.BuyFeature()
	_ = h.m.OnResult(1, bonus("b1", 1))
	h.m.OnAllStopped()
	h.clk.Advance(3500 * time.Millisecond)
	h.expect(t, round.FeatureWaitStart)
	h.clk.Advance(time.Second)
	h.expect(t, round.FeatureSpin)
	if h.reels.started[0] || h.reels.started[1] {
		t.Fatalf("feature spin of a bought round must not use turbo")
	}
}

func TestResetMidPresentation(t *testing.T) {
	h := newHarness()
	_ = h.m.Spin()
	_ = h.m.OnResult(1, plain("r1", 5))
	h.m.OnAllStopped()
	h.expect(t, round.ShowWin)
	h.m.Reset()
	h.clk.Advance(10 * time.Second)
	h.expect(t, round.Idle)
	if h.count(event.RoundEnded) != 0 {
		t.Fatalf("reset should not end the round through the presenter")
	}
}

type scheduledRequester struct {
	clk *clock.Fake
	m   *Machine
	res func(seq int64) *round.Result
}

func (q *scheduledRequester) RequestSpin(req SpinRequest) {
	q.clk.ScheduleOnce(300*time.Millisecond, func() {
		_ = q.m.OnResult(req.Seq, q.res(req.Seq))
	})
}

func TestRoundWithRealReels(t *testing.T) {
	strip := make(base.Strip, 20)
	for i := range strip {
		strip[i] = base.SymbolID(i + 1)
	}
	game := base.NewBaseGame(1, "test", base.Config{
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
	clk := clock.NewFake()
	bus := event.NewBus()
	engine := reel.NewEngine(game, rand.New(rand.NewPCG(1, 2)), log.DefaultLogger)
	normal, turbo := reel.DefaultKinetics()
	set := reel.NewSet(engine, normal, turbo, clk, bus, log.DefaultLogger)
	req := &scheduledRequester{clk: clk, res: func(seq int64) *round.Result {
		return &round.Result{RoundID: "real", RngPerColumn: []int{2, 9, 17}}
	}}
	m := NewMachine(clk, bus, set, win.NewSequencer(clk, bus, testTiming()), req, &fakeReporter{}, decimal.NewFromInt(1), testOptions(), log.DefaultLogger)
	req.m = m
	set.OnAllStopped(m.OnAllStopped)

	ended := 0
	bus.Subscribe(event.RoundEnded, func(event.Event) { ended++ })
	if err := m.Spin(); err != nil {
		t.Fatalf("spin: %v", err)
	}
	clk.Advance(10 * time.Second)
	if m.Current() != round.Idle || ended != 1 {
		t.Fatalf("state=%s ended=%d", m.Current(), ended)
	}
	visible := engine.Visible()
	if visible[0][0] != 2 || visible[1][0] != 9 || visible[2][0] != 17 {
		t.Fatalf("landed window=%v", visible)
	}
}
