package base

import (
	"fmt"
)

// IGame 游戏模块接口：盘面尺寸、滚轴带、赔付表
type IGame interface {
	GameID() int64
	Name() string
	Rows() int
	Columns() int
	Strips(scene Scene) []Strip
	RandomPay(id SymbolID) []PayWeight
	Bands() Bands
	Paylines() [][]int
	PayTable() map[SymbolID][]int64
	FeatureSpins(scatters int) int
	BetSize() []float64
	SetBetSize(betSize []float64)
	ValidBetMoney(money float64) bool
}

// Config 游戏模块静态数据
type Config struct {
	Rows     int
	Columns  int
	Base     []Strip
	Feature  []Strip
	Bands    Bands
	Paylines [][]int
	// PayTable 符号 -> 连线数 1..Columns 的倍数（下标 = 连线数-1）
	PayTable map[SymbolID][]int64
	// ClassPay 各分类符号的随机展示分值权重表
	ClassPay map[SymbolClass][]PayWeight
	// FeatureAward 分散数 -> 免费次数
	FeatureAward map[int]int
	BetSize      []float64
}

// Default 基础游戏实现，提供默认行为
type Default struct {
	gameID  int64
	name    string
	cfg     Config
	betSize []float64
}

// NewBaseGame 创建基础游戏实例
func NewBaseGame(gameID int64, name string, cfg Config) *Default {
	if len(cfg.Feature) == 0 {
		cfg.Feature = cfg.Base
	}
	return &Default{
		gameID:  gameID,
		name:    name,
		cfg:     cfg,
		betSize: cfg.BetSize,
	}
}

// Validate 校验静态数据完整性
func (g *Default) Validate() error {
	if g.cfg.Rows <= 0 || g.cfg.Columns <= 0 {
		return fmt.Errorf("game %d: invalid layout %dx%d", g.gameID, g.cfg.Columns, g.cfg.Rows)
	}
	if err := g.cfg.Bands.Validate(); err != nil {
		return fmt.Errorf("game %d: %w", g.gameID, err)
	}
	for _, scene := range []Scene{SceneBase, SceneFeature} {
		strips := g.Strips(scene)
		if len(strips) != g.cfg.Columns {
			return fmt.Errorf("game %d: %s strips=%d, columns=%d", g.gameID, scene, len(strips), g.cfg.Columns)
		}
		for i, s := range strips {
			if s.Len() < g.cfg.Rows+2 {
				return fmt.Errorf("game %d: %s strip %d too short (%d)", g.gameID, scene, i, s.Len())
			}
			for _, id := range s {
				if g.cfg.Bands.Classify(id) == ClassUnknown {
					return fmt.Errorf("game %d: %s strip %d has unknown symbol %d", g.gameID, scene, i, id)
				}
			}
		}
	}
	for i, line := range g.cfg.Paylines {
		if len(line) != g.cfg.Columns {
			return fmt.Errorf("game %d: payline %d has %d cells", g.gameID, i, len(line))
		}
		for _, row := range line {
			if row < 0 || row >= g.cfg.Rows {
				return fmt.Errorf("game %d: payline %d row %d out of range", g.gameID, i, row)
			}
		}
	}
	return nil
}

func (g *Default) GameID() int64 {
	return g.gameID
}

func (g *Default) Name() string {
	return g.name
}

func (g *Default) Rows() int {
	return g.cfg.Rows
}

func (g *Default) Columns() int {
	return g.cfg.Columns
}

func (g *Default) Strips(scene Scene) []Strip {
	if scene == SceneFeature {
		return g.cfg.Feature
	}
	return g.cfg.Base
}

func (g *Default) RandomPay(id SymbolID) []PayWeight {
	return g.cfg.ClassPay[g.cfg.Bands.Classify(id)]
}

func (g *Default) Bands() Bands {
	return g.cfg.Bands
}

func (g *Default) Paylines() [][]int {
	return g.cfg.Paylines
}

func (g *Default) PayTable() map[SymbolID][]int64 {
	return g.cfg.PayTable
}

// FeatureSpins 分散数对应的免费次数，取不超过 scatters 的最高档
func (g *Default) FeatureSpins(scatters int) int {
	best := 0
	for n, spins := range g.cfg.FeatureAward {
		if scatters >= n && spins > best {
			best = spins
		}
	}
	return best
}

func (g *Default) BetSize() []float64 {
	return g.betSize
}

func (g *Default) SetBetSize(betSize []float64) {
	g.betSize = betSize
}

func (g *Default) ValidBetMoney(money float64) bool {
	for _, bet := range g.betSize {
		if money == bet {
			return true
		}
	}
	return false
}
