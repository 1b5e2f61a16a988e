package reel

import (
	"fmt"
	"math/rand/v2"

	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/round"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// hiddenRows 可见区上下各一行缓冲
const hiddenRows = 2

// fallbackPays 格子分值缺失时抛硬币取其一
var fallbackPays = [2]int64{1, 2}

// ErrMalformedRNG 停轮位置缺失/越界/列数不符
var ErrMalformedRNG = errors.New(422, "MALFORMED_RNG", "malformed rng payload")

// Cell 窗口中的一格
type Cell struct {
	Symbol base.SymbolID `json:"symbol"`
	Pay    int64         `json:"pay"`
}

// Column 单列状态：滚轴带、游标、可视窗口、停轮脚本
type Column struct {
	index  int
	strip  base.Strip
	cursor int
	window *Ring[Cell]

	script    []Cell
	injected  int
	hasScript bool
	rng       int
}

func (c *Column) Index() int { return c.index }
func (c *Column) Cursor() int { return c.cursor }
func (c *Column) HasScript() bool { return c.hasScript }

// Landed 停轮脚本已全部写入窗口
func (c *Column) Landed() bool {
	return c.hasScript && c.injected >= len(c.script)
}

// Window 从上到下的窗口格子（含上下缓冲行）
func (c *Column) Window() []Cell {
	return c.window.Slice()
}

// Script 停轮脚本副本
func (c *Column) Script() []Cell {
	return append([]Cell(nil), c.script...)
}

// Engine 管理 N 列滚轴的自由滚动与停轮脚本
type Engine struct {
	game    base.IGame
	scene   base.Scene
	rows    int
	columns []*Column
	rnd     *rand.Rand
	result  *round.Result
	log     *log.Helper

	// OnFallbackPay 格子分值走了抛硬币兜底
	OnFallbackPay func(col, row int)
}

// NewEngine rnd 为 nil 时使用随机种子
func NewEngine(game base.IGame, rnd *rand.Rand, logger log.Logger) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e := &Engine{
		game: game,
		rows: game.Rows(),
		rnd:  rnd,
		log:  log.NewHelper(logger),
	}
	e.columns = make([]*Column, game.Columns())
	for i := range e.columns {
		e.columns[i] = &Column{index: i, window: NewRing[Cell](e.rows + hiddenRows)}
	}
	e.SetScene(base.SceneBase)
	return e
}

func (e *Engine) Rows() int { return e.rows }
func (e *Engine) Columns() int { return len(e.columns) }
func (e *Engine) Scene() base.Scene { return e.scene }
func (e *Engine) Column(i int) *Column { return e.columns[i] }

// SetScene 切换滚轴带，窗口从新滚轴带的游标处重新填满
func (e *Engine) SetScene(scene base.Scene) {
	e.scene = scene
	strips := e.game.Strips(scene)
	for i, c := range e.columns {
		c.strip = strips[i]
		c.cursor = c.strip.Index(c.cursor)
		c.window.Reset()
		for k := 0; k < e.rows+hiddenRows; k++ {
			id := c.strip.At(c.cursor + k)
			c.window.Push(Cell{Symbol: id, Pay: e.randomPay(id)})
		}
		c.clearScript()
	}
}

func (c *Column) clearScript() {
	c.script = c.script[:0]
	c.injected = 0
	c.hasScript = false
	c.rng = 0
}

// AdvanceFreeScroll 自由滚动一格：游标递减取模，新符号从顶部进入，底部丢弃
func (e *Engine) AdvanceFreeScroll(col int) base.SymbolID {
	c := e.columns[col]
	c.cursor = c.strip.Index(c.cursor - 1)
	id := c.strip[c.cursor]
	c.window.Rotate(Cell{Symbol: id, Pay: e.randomPay(id)})
	return id
}

// SetResult 登记已知结果，停轮格子分值取结果值
func (e *Engine) SetResult(res *round.Result) {
	e.result = res
}

// Seed 登记结果并写入停轮脚本
func (e *Engine) Seed(res *round.Result) error {
	if res == nil {
		e.log.Warn("seed: nil result")
		return ErrMalformedRNG
	}
	e.SetResult(res)
	return e.SeedStopScript(res.RngPerColumn)
}

// SeedStopScript 每列落点窗口 strip[(rng-2+len)%len ..+rows+2]，payload 有误则整体跳过
func (e *Engine) SeedStopScript(rngPerColumn []int) error {
	if len(rngPerColumn) != len(e.columns) {
		e.log.Warnf("seed: rng columns=%d, want %d", len(rngPerColumn), len(e.columns))
		return ErrMalformedRNG.WithCause(fmt.Errorf("rng columns=%d, want %d", len(rngPerColumn), len(e.columns)))
	}
	for i, c := range e.columns {
		if n := c.strip.Len(); rngPerColumn[i] < 0 || rngPerColumn[i] >= n {
			e.log.Warnf("seed: column %d rng=%d outside [0,%d)", i, rngPerColumn[i], n)
			return ErrMalformedRNG.WithCause(fmt.Errorf("column %d rng=%d outside [0,%d)", i, rngPerColumn[i], n))
		}
	}

	size := e.rows + hiddenRows
	for i, c := range e.columns {
		rng := rngPerColumn[i]
		n := c.strip.Len()
		start := (rng - 2 + n) % n

		c.script = c.script[:0]
		for k := 0; k < size; k++ {
			id := c.strip[(start+k)%n]
			c.script = append(c.script, Cell{Symbol: id, Pay: e.scriptPay(i, k, id)})
		}
		c.injected = 0
		c.hasScript = true
		c.rng = rng
	}
	return nil
}

// InjectNext 停轮阶段写入一格脚本（自底向上），全部写完返回 true
func (e *Engine) InjectNext(col int) bool {
	c := e.columns[col]
	if !c.hasScript {
		e.AdvanceFreeScroll(col)
		return false
	}
	if c.injected >= len(c.script) {
		return true
	}
	k := len(c.script) - 1 - c.injected
	c.window.Rotate(c.script[k])
	c.injected++
	if c.injected == len(c.script) {
		// 后续自由滚动从落点窗口顶部继续
		c.cursor = c.strip.Index(c.rng - 2)
		return true
	}
	return false
}

// LandNow 直接把窗口置为停轮脚本
func (e *Engine) LandNow(col int) {
	if !e.columns[col].hasScript {
		return
	}
	for !e.InjectNext(col) {
	}
}

// Visible 可见区符号 [列][行]
func (e *Engine) Visible() [][]base.SymbolID {
	out := make([][]base.SymbolID, len(e.columns))
	for i, c := range e.columns {
		row := make([]base.SymbolID, e.rows)
		for r := 0; r < e.rows; r++ {
			row[r] = c.window.At(r + 1).Symbol
		}
		out[i] = row
	}
	return out
}

// Reset 局间复位：清脚本与结果，窗口按当前游标重填
func (e *Engine) Reset() {
	e.result = nil
	e.SetScene(e.scene)
}

// EndRound 一局结束，丢弃结果与停轮脚本，窗口保持落点
func (e *Engine) EndRound() {
	e.result = nil
	for _, c := range e.columns {
		c.clearScript()
	}
}

// scriptPay 可见行取结果分值，缺失时兜底；缓冲行随机
func (e *Engine) scriptPay(col, k int, id base.SymbolID) int64 {
	if k == 0 || k == e.rows+1 || e.result == nil {
		return e.randomPay(id)
	}
	if pay, ok := e.result.PayAt(col, k-1); ok {
		return pay
	}
	// TODO: confirm with the math service whether an undefined slot can legitimately carry zero pay
	if e.OnFallbackPay != nil {
		e.OnFallbackPay(col, k-1)
	}
	return fallbackPays[e.rnd.IntN(2)]
}

// randomPay 按符号分类的权重表抽取展示分值
func (e *Engine) randomPay(id base.SymbolID) int64 {
	return base.PickPay(e.rnd, e.game.RandomPay(id))
}
