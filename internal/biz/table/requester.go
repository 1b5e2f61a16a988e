package table

import (
	"context"
	"time"

	"reelflow/internal/biz/flow"
	"reelflow/internal/biz/metrics"
	"reelflow/internal/biz/round"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/panjf2000/ants/v2"
)

const defaultSpinTimeout = 10 * time.Second

// resultSink OnResult 的接收方，flow.Machine 实现
type resultSink interface {
	OnResult(seq int64, res *round.Result) error
}

// Requester 在 worker 池里调用结果源，结果投递回帧线程。
// 请求失败只记日志，由状态机看门狗兜底
type Requester struct {
	tableID string
	gameID  int64
	source  ResultSource
	workers *ants.Pool
	poster  Poster
	timeout time.Duration
	sink    resultSink
	log     *log.Helper
}

func newRequester(tableID string, gameID int64, d Deps, logger log.Logger) *Requester {
	timeout := defaultSpinTimeout
	if d.Engine != nil && d.Engine.SpinTimeout.AsDuration() > 0 {
		timeout = d.Engine.SpinTimeout.AsDuration()
	}
	return &Requester{
		tableID: tableID,
		gameID:  gameID,
		source:  d.Source,
		workers: d.Workers,
		poster:  d.Poster,
		timeout: timeout,
		log:     log.NewHelper(log.With(logger, "module", "requester")),
	}
}

func (r *Requester) bind(sink resultSink) {
	r.sink = sink
}

// RequestSpin flow.Requester 实现，不阻塞帧线程
func (r *Requester) RequestSpin(req flow.SpinRequest) {
	order := SpinOrder{
		TableID:      r.tableID,
		GameID:       r.gameID,
		Seq:          req.Seq,
		Bet:          req.Bet,
		Scene:        req.Scene,
		BuyFeature:   req.BuyFeature,
		FeatureIndex: req.FeatureIndex,
	}
	task := func() { r.fetch(order) }
	if r.workers == nil {
		go task()
		return
	}
	if err := r.workers.Submit(task); err != nil {
		r.log.Errorf("submit spin seq=%d: %v", order.Seq, err)
		metrics.IncError("SUBMIT_FAILED")
	}
}

func (r *Requester) fetch(order SpinOrder) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	res, err := r.source.Spin(ctx, order)
	if err != nil {
		r.log.Warnf("spin seq=%d failed: %v", order.Seq, err)
		metrics.IncError(errors.Reason(err))
		return
	}
	metrics.ObserveSpin(r.gameID, time.Since(start))

	r.poster.Post(func() {
		if r.sink == nil {
			return
		}
		if err := r.sink.OnResult(order.Seq, res); err != nil {
			r.log.Warnf("result seq=%d dropped: %v", order.Seq, err)
		}
	})
}
