package flow

import (
	"context"
	"time"

	"reelflow/internal/biz/event"
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/round"
	"reelflow/internal/biz/win"
	"reelflow/pkg/clock"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/looplab/fsm"
	"github.com/shopspring/decimal"
)

// Reels 转轮侧协作者，reel.Set 实现
type Reels interface {
	StartSpin(turbo bool)
	Seed(res *round.Result) error
	SetTurbo(on bool)
	SetScene(scene base.Scene)
	Halt()
	Reset()
}

// Presenter 中奖展示协作者，win.Sequencer 实现
type Presenter interface {
	Start(p win.Play, onComplete func())
	Skip()
	SetTurbo(on bool)
	Reset()
}

// SpinRequest 一次转动请求，结果须带同一 Seq 回到 OnResult
type SpinRequest struct {
	Seq          int64
	Bet          decimal.Decimal
	Scene        base.Scene
	BuyFeature   bool
	FeatureIndex int
}

// Requester 异步拉取转动结果
type Requester interface {
	RequestSpin(req SpinRequest)
}

// Reporter 错误上报协作者
type Reporter interface {
	Alarm(v View, err error)
	Warn(v View, err error)
}

const maxHops = 32

// Machine 牌局状态机。非并发安全，所有调用须在帧线程
type Machine struct {
	sched     clock.Scheduler
	bus       *event.Bus
	reels     Reels
	presenter Presenter
	requester Requester
	reporter  Reporter
	opts      Options
	log       *log.Helper

	ctx      *RoundContext
	edges    *fsm.FSM
	previous round.State

	epoch      uint64
	timer      clock.Timer
	disabled   bool
	busy       bool
	again      bool
	through    bool
	cancelTick func()
}

func NewMachine(
	sched clock.Scheduler,
	bus *event.Bus,
	reels Reels,
	presenter Presenter,
	requester Requester,
	reporter Reporter,
	bet decimal.Decimal,
	opts Options,
	logger log.Logger,
) *Machine {
	m := &Machine{
		sched:     sched,
		bus:       bus,
		reels:     reels,
		presenter: presenter,
		requester: requester,
		reporter:  reporter,
		opts:      opts,
		log:       log.NewHelper(log.With(logger, "module", "flow")),
		ctx:       newRoundContext(bet),
		previous:  round.Idle,
	}
	m.edges = newEdges(fsm.Callbacks{
		"before_event": m.beforeEdge,
		"enter_state":  m.enterEdge,
	})
	m.cancelTick = sched.EveryTick(m.tick)
	return m
}

// newEdges 以目标状态为事件名，Src 由后继表在全部谓词组合下推导
func newEdges(callbacks fsm.Callbacks) *fsm.FSM {
	srcs := make(map[round.State][]string)
	for _, s := range round.States() {
		seen := make(map[round.State]bool)
		for _, p := range allPredicates() {
			dst := Successor(s, p)
			if seen[dst] {
				continue
			}
			seen[dst] = true
			srcs[dst] = append(srcs[dst], s.String())
		}
	}
	events := make(fsm.Events, 0, len(srcs))
	for _, dst := range round.States() {
		if len(srcs[dst]) == 0 {
			continue
		}
		events = append(events, fsm.EventDesc{Name: dst.String(), Src: srcs[dst], Dst: dst.String()})
	}
	return fsm.NewFSM(round.Idle.String(), events, callbacks)
}

// Current 当前状态以 fsm 为准
func (m *Machine) Current() round.State {
	s, _ := round.ParseState(m.edges.Current())
	return s
}

func (m *Machine) Previous() round.State { return m.previous }
func (m *Machine) Disabled() bool { return m.disabled }

// View 上下文快照，附带当前状态名
func (m *Machine) View() View {
	v := m.ctx.View()
	v.State = m.edges.Current()
	return v
}

// Close 取消看门狗帧回调与挂起定时器
func (m *Machine) Close() {
	m.stopTimer()
	if m.cancelTick != nil {
		m.cancelTick()
		m.cancelTick = nil
	}
}

// SetBet 仅空闲时可改注
func (m *Machine) SetBet(bet decimal.Decimal) error {
	if !bet.IsPositive() {
		return ErrInvalidBet
	}
	if m.Current() != round.Idle {
		return ErrGateRejected
	}
	m.ctx.bet = bet
	return nil
}

// Spin 玩家发起转动
func (m *Machine) Spin() error {
	return m.spin(SourceInput, false)
}

// BuyFeature 购买免费游戏，本局强制关闭极速
func (m *Machine) BuyFeature() error {
	return m.spin(SourceInput, true)
}

func (m *Machine) spin(src Source, buy bool) error {
	if m.disabled {
		return ErrMachineDisabled
	}
	if cur := m.Current(); cur != round.Idle || !Allows(cur, src) {
		m.log.Warnf("spin rejected state=%s source=%s", cur, src)
		return ErrGateRejected
	}
	if !m.ctx.bet.IsPositive() {
		return ErrInvalidBet
	}
	m.ctx.buyFeature = buy
	return m.advance(src)
}

// StartFeature 玩家确认开始免费游戏
func (m *Machine) StartFeature() error {
	if m.Current() != round.FeatureWaitStart {
		return ErrGateRejected
	}
	return m.advance(SourceInput)
}

// Skip 跳过中奖展示
func (m *Machine) Skip() {
	if m.disabled {
		return
	}
	switch m.Current() {
	case round.ShowWin, round.FeatureShowWin:
		m.presenter.Skip()
	}
}

// SetTurbo 切换极速；购买免费游戏的局不对转轮生效
func (m *Machine) SetTurbo(on bool) {
	m.ctx.turbo = on
	if m.ctx.buyFeature {
		return
	}
	if m.Current().IsSpinning() {
		m.ctx.roundTurbo = on
		m.reels.SetTurbo(on)
	}
	m.presenter.SetTurbo(on)
}

// SetAutoplay 开关自动转动，rounds<=0 表示不限局数
func (m *Machine) SetAutoplay(on bool, rounds int) {
	m.ctx.autoplay = on
	m.ctx.autoLeft = -1
	if rounds > 0 {
		m.ctx.autoLeft = rounds
	}
	if m.disabled {
		return
	}
	switch m.Current() {
	case round.Idle:
		m.stopTimer()
		m.epoch++
		m.enterIdle()
	case round.FeatureWaitStart:
		if on && m.timer == nil {
			m.after(m.opts.FeatureDelay)
		}
	}
}

// OnResult 服务端结果到达；seq 不匹配的过期结果直接丢弃。
// 单次入账超过 MaxCredit 时只丢弃入账，牌局照常停轮结算
func (m *Machine) OnResult(seq int64, res *round.Result) error {
	if m.disabled {
		return ErrMachineDisabled
	}
	cur := m.Current()
	if !Allows(cur, SourceResult) {
		m.log.Warnf("result rejected state=%s seq=%d", cur, seq)
		return ErrGateRejected
	}
	if seq != m.ctx.spins {
		m.log.Warnf("stale result seq=%d want=%d", seq, m.ctx.spins)
		return ErrGateRejected
	}
	payout := res.Payout()
	if payout.GreaterThan(m.opts.MaxCredit) {
		m.log.Warnf("discard credit round=%s credit=%s", res.RoundID, payout)
		m.warn(ErrCreditOverflow.WithMetadata(map[string]string{"credit": payout.String()}))
		res = res.WithoutCredit()
		payout = decimal.Zero
	}
	if err := m.reels.Seed(res); err != nil {
		// 转轮留在自由滚动，由看门狗兜底
		m.log.Warnf("seed failed round=%s err=%v", res.RoundID, err)
		m.warn(err)
		return err
	}
	m.ctx.result = res
	m.ctx.roundID = res.RoundID
	m.ctx.roundWin = m.ctx.roundWin.Add(payout)
	m.ctx.totalWin = m.ctx.totalWin.Add(payout)
	if cur == round.FeatureSpin {
		m.ctx.featureWin = m.ctx.featureWin.Add(payout)
	}
	m.bus.Publish(event.Event{Kind: event.ResultReceived, State: cur, Credit: payout, RoundID: res.RoundID})
	return m.advance(SourceResult)
}

// OnAllStopped 全部列停稳的屏障回调
func (m *Machine) OnAllStopped() {
	if err := m.advance(SourceReels); err != nil {
		m.log.Warnf("all-stopped ignored state=%s err=%v", m.Current(), err)
	}
}

// Reset 外部复位：中止一切并回到空闲，解除看门狗禁用
func (m *Machine) Reset() {
	m.stopTimer()
	m.epoch++
	m.presenter.Reset()
	m.reels.Reset()
	m.reels.SetScene(base.SceneBase)
	m.ctx.reset()
	m.previous = m.Current()
	m.edges.SetState(round.Idle.String())
	m.disabled = false
	m.busy = false
	m.again = false
	m.bus.Publish(event.Event{Kind: event.StateChanged, State: round.Idle, Previous: m.previous})
}

// advance 唯一的推进入口：查后继交给 fsm 迁移，进入动作在 enter_state 回调里执行，穿透态继续推进
func (m *Machine) advance(src Source) error {
	if m.disabled {
		return ErrMachineDisabled
	}
	if cur := m.Current(); !Allows(cur, src) {
		m.log.Warnf("advance rejected state=%s source=%s", cur, src)
		return ErrGateRejected
	}
	if m.busy {
		// 进入动作内同步回调，交给外层循环继续
		m.again = true
		return nil
	}
	m.busy = true
	defer func() { m.busy = false }()

	for hops := 0; ; hops++ {
		if hops >= maxHops {
			m.fatal(ErrTransitionLoop)
			return ErrTransitionLoop
		}
		cur := m.Current()
		next := Successor(cur, m.ctx.predicates())
		m.again = false
		m.through = false
		if err := m.edges.Event(context.Background(), next.String()); err != nil {
			m.log.Errorf("illegal edge %s -> %s: %v", cur, next, err)
			return err
		}
		if m.disabled {
			return nil
		}
		if !m.through && !m.again {
			return nil
		}
	}
}

// beforeEdge 禁用后拒绝一切迁移
func (m *Machine) beforeEdge(_ context.Context, e *fsm.Event) {
	if m.disabled {
		e.Cancel(ErrMachineDisabled)
	}
}

// enterEdge fsm 已切到 e.Dst：清掉旧状态的定时器，广播后执行进入动作
func (m *Machine) enterEdge(_ context.Context, e *fsm.Event) {
	next, _ := round.ParseState(e.Dst)
	m.stopTimer()
	m.epoch++
	m.previous, _ = round.ParseState(e.Src)
	m.bus.Publish(event.Event{Kind: event.StateChanged, State: next, Previous: m.previous, RoundID: m.ctx.roundID})
	m.through = m.enter(next)
}

// enter 进入动作，返回 true 表示无需等待直接穿透
func (m *Machine) enter(s round.State) bool {
	switch s {
	case round.Idle:
		m.enterIdle()
		return false
	case round.Spinning, round.FeatureSpin:
		m.enterSpin(s == round.FeatureSpin)
		return false
	case round.Stopping, round.FeatureStopping:
		return false
	case round.ShowWin, round.FeatureShowWin:
		return m.enterShowWin(s == round.FeatureShowWin)
	case round.ShowJackpot:
		return m.show(m.ctx.result.Jackpot, m.opts.ShowJackpot)
	case round.ShowRedPacket:
		return m.show(m.ctx.result.RedPacket, m.opts.ShowRedPacket)
	case round.ShowUserCoin:
		return m.show(m.ctx.result.UserCoin, m.opts.ShowUserCoin)
	case round.Wait:
		return true
	case round.EndGame:
		m.endGame()
		return true
	case round.FeatureTrigger:
		m.ctx.featurePlayed = 0
		m.ctx.featureGranted = m.ctx.result.FeatureSpins
		m.ctx.featureWin = decimal.Zero
		return m.after(m.opts.FeatureTrigger)
	case round.FeatureTranslate:
		m.setScene(base.SceneFeature)
		return m.after(m.opts.FeatureTranslate)
	case round.FeatureWaitStart:
		if m.ctx.autoplay || m.ctx.buyFeature {
			return m.after(m.opts.FeatureDelay)
		}
		return false
	case round.FeatureRetrigger:
		m.ctx.featureGranted += m.ctx.result.FeatureSpins
		return m.after(m.opts.FeatureRetrigger)
	case round.FeatureWait:
		return m.after(m.opts.FeatureDelay)
	case round.FeatureCheckResult:
		m.setScene(base.SceneBase)
		return m.after(m.opts.FeatureResult)
	}
	return false
}

func (m *Machine) enterIdle() {
	if !m.ctx.autoplay || m.ctx.autoLeft == 0 {
		return
	}
	delay := m.opts.NoWinIdleDelay
	if m.ctx.lastWin.IsPositive() {
		delay = m.opts.WinIdleDelay
	}
	token := m.epoch
	m.timer = m.sched.ScheduleOnce(delay, func() {
		if token != m.epoch || !m.ctx.autoplay {
			return
		}
		m.timer = nil
		if err := m.spin(SourceTimer, false); err != nil {
			m.log.Warnf("autoplay spin failed: %v", err)
		}
	})
}

func (m *Machine) enterSpin(feature bool) {
	m.ctx.spins++
	m.ctx.result = nil
	m.ctx.watchdog = 0
	m.ctx.roundTurbo = m.ctx.turbo && !m.ctx.buyFeature
	index := 0
	if feature {
		m.ctx.featurePlayed++
		index = m.ctx.featurePlayed
	} else {
		m.ctx.roundWin = decimal.Zero
		m.ctx.roundID = ""
	}
	m.reels.StartSpin(m.ctx.roundTurbo)
	m.bus.Publish(event.Event{Kind: event.SpinRequested, State: m.Current()})
	m.requester.RequestSpin(SpinRequest{
		Seq:          m.ctx.spins,
		Bet:          m.ctx.bet,
		Scene:        m.ctx.scene,
		BuyFeature:   m.ctx.buyFeature && !feature,
		FeatureIndex: index,
	})
}

func (m *Machine) enterShowWin(feature bool) bool {
	res := m.ctx.result
	if res == nil || len(res.Lines) == 0 {
		return true
	}
	token := m.epoch
	m.presenter.Start(win.Play{
		RoundID:   res.RoundID,
		Lines:     res.Lines,
		Bet:       m.ctx.bet,
		Win:       res.TotalCredit,
		Turbo:     m.ctx.roundTurbo,
		Retrigger: feature && res.BonusTriggered(),
	}, func() {
		if token != m.epoch {
			return
		}
		if err := m.advance(SourcePresenter); err != nil {
			m.log.Warnf("presenter completion ignored: %v", err)
		}
	})
	return false
}

// show 有内容时按时长展示，否则穿透
func (m *Machine) show(credit decimal.Decimal, d time.Duration) bool {
	if !credit.IsPositive() {
		return true
	}
	return m.after(d)
}

func (m *Machine) endGame() {
	m.bus.Publish(event.Event{Kind: event.RoundEnded, State: round.EndGame, Credit: m.ctx.roundWin, RoundID: m.ctx.roundID})
	m.ctx.endRound()
}

func (m *Machine) setScene(scene base.Scene) {
	if m.ctx.scene == scene {
		return
	}
	m.ctx.scene = scene
	m.reels.SetScene(scene)
}

// after 定时推进；过期 token 的回调被忽略。d<=0 直接穿透
func (m *Machine) after(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	token := m.epoch
	m.timer = m.sched.ScheduleOnce(d, func() {
		if token != m.epoch {
			return
		}
		m.timer = nil
		if err := m.advance(SourceTimer); err != nil {
			m.log.Warnf("timer advance ignored: %v", err)
		}
	})
	return false
}

func (m *Machine) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// tick 看门狗：转动态累计帧时长，超限上报一次致命错误并禁用状态机
func (m *Machine) tick(dt time.Duration) {
	if m.disabled || !m.Current().IsSpinning() {
		return
	}
	m.ctx.watchdog += dt
	if m.opts.SpinTimeout > 0 && m.ctx.watchdog >= m.opts.SpinTimeout {
		m.fatal(ErrSpinTimeout)
	}
}

// fatal 禁用状态机并停下转轮，窗口保持原样直到 Reset
func (m *Machine) fatal(err error) {
	if m.disabled {
		return
	}
	m.disabled = true
	m.stopTimer()
	m.epoch++
	m.reels.Halt()
	cur := m.Current()
	m.log.Errorf("fatal state=%s round=%s err=%v", cur, m.ctx.roundID, err)
	m.bus.Publish(event.Event{Kind: event.Fatal, State: cur, RoundID: m.ctx.roundID, Err: err})
	if m.reporter != nil {
		m.reporter.Alarm(m.View(), err)
	}
}

func (m *Machine) warn(err error) {
	m.bus.Publish(event.Event{Kind: event.Warning, State: m.Current(), RoundID: m.ctx.roundID, Err: err})
	if m.reporter != nil {
		m.reporter.Warn(m.View(), err)
	}
}
