package game

import (
	"fmt"
	"sort"
	"sync"

	"reelflow/internal/biz/game/base"
)

// Pool 游戏模块表，按模块 ID 索引
type Pool struct {
	mu   sync.RWMutex
	byID map[int64]base.IGame
	list []base.IGame
}

func NewPool() *Pool {
	return newPool(gameInstances)
}

func newPool(games []base.IGame) *Pool {
	p := &Pool{
		byID: make(map[int64]base.IGame),
		list: make([]base.IGame, 0, len(games)),
	}
	for _, g := range games {
		p.byID[g.GameID()] = g
		p.list = append(p.list, g)
	}
	sort.Slice(p.list, func(i, j int) bool {
		return p.list[i].GameID() < p.list[j].GameID()
	})
	return p
}

func (p *Pool) Get(gameID int64) (base.IGame, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	g, ok := p.byID[gameID]
	return g, ok
}

func (p *Pool) List() []base.IGame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cpy := append([]base.IGame{}, p.list...)
	return cpy
}

// SetBetSize 用配置覆盖模块的下注档位，档位须为正数，按升序保存
func (p *Pool) SetBetSize(gameID int64, sizes []float64) error {
	if len(sizes) == 0 {
		return fmt.Errorf("game %d: empty bet sizes", gameID)
	}
	cpy := append([]float64(nil), sizes...)
	sort.Float64s(cpy)
	if cpy[0] <= 0 {
		return fmt.Errorf("game %d: bet size %v must be positive", gameID, cpy[0])
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.byID[gameID]
	if !ok {
		return fmt.Errorf("game %d: not registered", gameID)
	}
	g.SetBetSize(cpy)
	return nil
}

type validator interface {
	Validate() error
}

// Validate 校验所有模块静态数据，启动时调用
func (p *Pool) Validate() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, g := range p.list {
		v, ok := g.(validator)
		if !ok {
			continue
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("game %d(%s): %w", g.GameID(), g.Name(), err)
		}
	}
	return nil
}
