package data

import (
	"context"
	"math/rand/v2"

	"reelflow/internal/biz"
	"reelflow/internal/biz/game"
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/round"
	"reelflow/internal/biz/table"
	"reelflow/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

// forceTries 购买免费时随机重抽的次数，仍未触发则直接摆放分散
const forceTries = 64

// LocalSource 本地结果源：按滚轴带均匀抽停轮位置并结算连线
type LocalSource struct {
	games *game.Pool
	seq   func(ctx context.Context, gameID int64) (string, error)
	log   *log.Helper
}

var _ table.ResultSource = (*LocalSource)(nil)

// NewResultSource 配置了 RGS 地址时走远端，否则本地模拟
func NewResultSource(c *conf.Data, d *Data, games *game.Pool, logger log.Logger) (table.ResultSource, func(), error) {
	if c != nil && c.Rgs.GetApiUrl() != "" {
		rgs := NewRGSClient(c.Rgs, logger)
		return rgs, rgs.Close, nil
	}
	log.NewHelper(logger).Info("rgs not configured, using local result source")
	return NewLocalSource(games, d, logger), func() {}, nil
}

func NewLocalSource(games *game.Pool, d *Data, logger log.Logger) *LocalSource {
	return &LocalSource{
		games: games,
		seq: func(ctx context.Context, gameID int64) (string, error) {
			return d.dailySeq(ctx, roundSeqPrefix, gameID)
		},
		log: log.NewHelper(log.With(logger, "module", "local-source")),
	}
}

// Spin 实现 table.ResultSource
func (s *LocalSource) Spin(ctx context.Context, order table.SpinOrder) (*round.Result, error) {
	g, ok := s.games.Get(order.GameID)
	if !ok {
		return nil, biz.ErrGameNotFound
	}
	roundID, err := s.seq(ctx, order.GameID)
	if err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	res := Deal(g, order, rnd)
	res.RoundID = roundID
	s.log.Debugf("table=%s seq=%d round=%s rng=%v win=%s", order.TableID, order.Seq, roundID, res.RngPerColumn, res.TotalCredit)
	return res, nil
}

// Deal 抽停轮位置并结算，结果可直接喂给转轮
func Deal(g base.IGame, order table.SpinOrder, rnd *rand.Rand) *round.Result {
	strips := g.Strips(order.Scene)
	rows := g.Rows()
	bands := g.Bands()
	minScatters := minTriggerScatters(g)
	forceFeature := order.BuyFeature && order.Scene == base.SceneBase && minScatters > 0

	rng := drawStops(strips, rnd)
	window := visible(strips, rng, rows)
	if forceFeature {
		for i := 0; i < forceTries && countScatters(bands, window) < minScatters; i++ {
			rng = drawStops(strips, rnd)
			window = visible(strips, rng, rows)
		}
		if countScatters(bands, window) < minScatters {
			placeScatters(strips, bands, rng, minScatters)
			window = visible(strips, rng, rows)
		}
	}

	ev := base.Evaluate(g, window)
	res := &round.Result{
		RngPerColumn:  rng,
		PayByPosition: make([][]int64, len(window)),
		SlowColumns:   make([]bool, len(window)),
		TotalCredit:   decimal.Zero,
		Jackpot:       decimal.Zero,
		RedPacket:     decimal.Zero,
		UserCoin:      decimal.Zero,
	}

	lineBet := order.Bet
	if n := len(g.Paylines()); n > 0 {
		lineBet = order.Bet.Div(decimal.NewFromInt(int64(n)))
	}
	for _, hit := range ev.Hits {
		line := round.WinLine{
			Symbol:     int32(hit.Symbol),
			Credit:     lineBet.Mul(decimal.NewFromInt(hit.Multiplier)),
			IsFiveLine: hit.Count == 5,
		}
		for _, cell := range hit.Cells {
			line.Positions = append(line.Positions, round.Position{Column: cell[0], Row: cell[1]})
			if bands.IsWild(window[cell[0]][cell[1]]) {
				line.ChangesLayout = true
			}
		}
		res.Lines = append(res.Lines, line)
		res.TotalCredit = res.TotalCredit.Add(line.Credit)
	}

	seen := 0
	for col, ids := range window {
		res.SlowColumns[col] = seen >= 2
		pays := make([]int64, len(ids))
		for row, id := range ids {
			pays[row] = base.PickPay(rnd, g.RandomPay(id))
			if bands.IsScatter(id) {
				seen++
			}
		}
		res.PayByPosition[col] = pays
	}

	res.FeatureSpins = g.FeatureSpins(ev.Scatters)
	switch {
	case res.FeatureSpins > 0:
		res.WinType = round.WinBonus
	case len(res.Lines) > 0:
		res.WinType = round.WinNormal
	default:
		res.WinType = round.WinNone
	}
	return res
}

func drawStops(strips []base.Strip, rnd *rand.Rand) []int {
	rng := make([]int, len(strips))
	for i, s := range strips {
		rng[i] = rnd.IntN(s.Len())
	}
	return rng
}

// visible 可见区 [列][行]，第 0 行是 strip[rng-1]
func visible(strips []base.Strip, rng []int, rows int) [][]base.SymbolID {
	out := make([][]base.SymbolID, len(strips))
	for i, s := range strips {
		out[i] = s.Window(rng[i]-1, rows)
	}
	return out
}

func countScatters(bands base.Bands, window [][]base.SymbolID) int {
	n := 0
	for _, ids := range window {
		for _, id := range ids {
			if bands.IsScatter(id) {
				n++
			}
		}
	}
	return n
}

// placeScatters 把前 n 列的停轮位置挪到分散符号上（落在第 0 行）
func placeScatters(strips []base.Strip, bands base.Bands, rng []int, n int) {
	placed := 0
	for col, s := range strips {
		if placed >= n {
			return
		}
		for i, id := range s {
			if bands.IsScatter(id) {
				rng[col] = s.Index(i + 1)
				placed++
				break
			}
		}
	}
}

// minTriggerScatters 触发免费游戏所需的最少分散数，0 表示该游戏没有免费游戏
func minTriggerScatters(g base.IGame) int {
	for n := 1; n <= g.Columns()*g.Rows(); n++ {
		if g.FeatureSpins(n) > 0 {
			return n
		}
	}
	return 0
}
