package data

import (
	"context"
	"fmt"
	"time"

	"reelflow/internal/biz/table"

	"github.com/go-kratos/kratos/v2/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const (
	snapshotTTL     = 24 * time.Hour
	snapshotTimeout = 5 * time.Second
)

func snapshotKey(tableID string) string {
	return fmt.Sprintf("reelflow:snapshot:%s", tableID)
}

// SaveSnapshot 归档桌子快照，保留 24 小时
func (r *dataRepo) SaveSnapshot(ctx context.Context, snap table.Snapshot) error {
	body, err := jsoniter.ConfigFastest.Marshal(snap)
	if err != nil {
		return err
	}
	if r.data.rdb == nil {
		r.data.snapshots.Store(snap.TableID, body)
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	if err := r.data.rdb.Set(ctx, snapshotKey(snap.TableID), body, snapshotTTL).Err(); err != nil {
		return errors.Newf(500, "REDIS_SNAPSHOT_FAILED", "save snapshot %s: %v", snap.TableID, err)
	}
	return nil
}

// LoadSnapshot 不存在返回 nil, nil
func (r *dataRepo) LoadSnapshot(ctx context.Context, tableID string) (*table.Snapshot, error) {
	var body []byte
	if r.data.rdb == nil {
		v, ok := r.data.snapshots.Load(tableID)
		if !ok {
			return nil, nil
		}
		body = v.([]byte)
	} else {
		ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
		defer cancel()
		b, err := r.data.rdb.Get(ctx, snapshotKey(tableID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, errors.Newf(500, "REDIS_SNAPSHOT_FAILED", "load snapshot %s: %v", tableID, err)
		}
		body = b
	}
	var snap table.Snapshot
	if err := jsoniter.ConfigFastest.Unmarshal(body, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *dataRepo) DeleteSnapshot(ctx context.Context, tableID string) error {
	if r.data.rdb == nil {
		r.data.snapshots.Delete(tableID)
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	return r.data.rdb.Del(ctx, snapshotKey(tableID)).Err()
}
