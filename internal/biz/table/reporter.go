package table

import (
	"context"
	"time"

	"reelflow/internal/biz/flow"
	"reelflow/internal/biz/metrics"
	"reelflow/internal/notify"
	"reelflow/pkg/xgo"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/panjf2000/ants/v2"
)

const notifyTimeout = 10 * time.Second

// Reporter 状态机错误出口：日志 + 计数，致命错误额外推送告警
type Reporter struct {
	tableID  string
	gameID   int64
	notifier notify.Notifier
	workers  *ants.Pool
	log      *log.Helper
}

func newReporter(tableID string, gameID int64, d Deps, logger log.Logger) *Reporter {
	n := d.Notifier
	if n == nil {
		n = notify.Noop{}
	}
	return &Reporter{
		tableID:  tableID,
		gameID:   gameID,
		notifier: n,
		workers:  d.Workers,
		log:      log.NewHelper(log.With(logger, "module", "reporter")),
	}
}

// Alarm flow.Reporter 实现，每次致命错误只会调用一次
func (r *Reporter) Alarm(v flow.View, err error) {
	reason := errors.Reason(err)
	r.log.Errorf("alarm game=%d reason=%s: %v context=%s", r.gameID, reason, err, xgo.ToJSON(v))
	metrics.IncError(reason)

	msg := notify.BuildAlarmMessage(&notify.AlarmReport{
		TableID:  r.tableID,
		GameID:   r.gameID,
		RoundID:  v.RoundID,
		State:    v.State,
		Reason:   reason,
		Detail:   err.Error(),
		Bet:      v.Bet.String(),
		Spins:    v.Spins,
		Watchdog: v.Watchdog,
	})
	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := r.notifier.Send(ctx, msg); err != nil {
			r.log.Warnf("alarm notify: %v", err)
		}
	}
	if r.workers == nil {
		go send()
		return
	}
	if err := r.workers.Submit(send); err != nil {
		r.log.Warnf("alarm submit: %v", err)
	}
}

func (r *Reporter) Warn(v flow.View, err error) {
	reason := errors.Reason(err)
	r.log.Warnf("warn game=%d round=%s reason=%s: %v", r.gameID, v.RoundID, reason, err)
	metrics.IncError(reason)
}
