package data

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
)

const (
	tableSeqPrefix = "reelflow:table"
	roundSeqPrefix = "reelflow:round"
	counterTimeout = 5 * time.Second
)

// NextTableID 实现 DataRepo：桌号 YYYYMMDD-gameID-n
func (r *dataRepo) NextTableID(ctx context.Context, gameID int64) (string, error) {
	return r.data.dailySeq(ctx, tableSeqPrefix, gameID)
}

// dailySeq Redis Hash <prefix>:YYYYMMDD，field=gameID，过期为次日 0 点；未配置 Redis 时用进程内计数
func (d *Data) dailySeq(ctx context.Context, prefix string, gameID int64) (string, error) {
	now := time.Now()
	date := now.Format("20060102")
	if d.rdb == nil {
		return fmt.Sprintf("%s-%d-L%d", date, gameID, d.localSeq.Add(1)), nil
	}

	ctx, cancel := context.WithTimeout(ctx, counterTimeout)
	defer cancel()

	key := fmt.Sprintf("%s:%s", prefix, date)
	field := strconv.FormatInt(gameID, 10)

	count, err := d.rdb.HIncrBy(ctx, key, field, 1).Result()
	if err != nil {
		return "", errors.Newf(500, "REDIS_COUNTER_FAILED", "redis counter: %v", err)
	}

	if count == 1 {
		tomorrow := now.AddDate(0, 0, 1)
		midnight := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, now.Location())
		_ = d.rdb.ExpireAt(ctx, key, midnight).Err()
	}

	return fmt.Sprintf("%s-%d-%d", date, gameID, count), nil
}
