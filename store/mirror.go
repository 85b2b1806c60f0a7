package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/judgegodwins/chess-rooms/game"
	"github.com/judgegodwins/chess-rooms/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Mirror receives every committed room view. Implementations must not block:
// they are called while a room's lock is held.
type Mirror interface {
	Publish(view game.View)
	Forget(roomID string)
}

type NopMirror struct{}

func (NopMirror) Publish(game.View) {}
func (NopMirror) Forget(string)     {}

type mirrorOp struct {
	roomID string
	view   *game.View // nil means delete
}

// RedisMirror copies room views into room:<id> hashes for operators. It is
// write only: the coordinator never reads rooms back from Redis.
type RedisMirror struct {
	rdb   *redis.Client
	ttl   time.Duration
	queue chan mirrorOp
	log   zerolog.Logger
	now   func() time.Time
}

func NewRedisMirror(rdb *redis.Client, ttl time.Duration, buffer int, log zerolog.Logger) *RedisMirror {
	return &RedisMirror{
		rdb:   rdb,
		ttl:   ttl,
		queue: make(chan mirrorOp, buffer),
		log:   log.With().Str("component", "redis_mirror").Logger(),
		now:   time.Now,
	}
}

func (m *RedisMirror) Publish(view game.View) {
	m.enqueue(mirrorOp{roomID: view.Room.ID, view: &view})
}

func (m *RedisMirror) Forget(roomID string) {
	m.enqueue(mirrorOp{roomID: roomID})
}

func (m *RedisMirror) enqueue(op mirrorOp) {
	select {
	case m.queue <- op:
	default:
		m.log.Warn().Str("room_id", op.roomID).Msg("mirror queue full, dropping update")
	}
}

// Run writes queued updates in order until ctx is cancelled.
func (m *RedisMirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-m.queue:
			if err := m.write(ctx, op); err != nil {
				m.log.Error().Err(err).Str("room_id", op.roomID).Msg("error mirroring room")
			}
		}
	}
}

func (m *RedisMirror) write(ctx context.Context, op mirrorOp) error {
	roomKey := util.GetRoomKey(op.roomID)

	if op.view == nil {
		return m.rdb.Del(ctx, roomKey).Err()
	}

	players, err := json.Marshal(op.view.Players)
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		util.RoomIDKey:       op.view.Room.ID,
		util.RoomStatusKey:   string(op.view.Room.Status),
		util.RoomWinnerKey:   string(op.view.Room.Winner),
		util.RoomPositionKey: op.view.Room.Position,
		util.RoomHistoryKey:  op.view.Room.History,
		util.RoomPlayersKey:  string(players),
		util.RoomUpdatedKey:  m.now().UTC().Format(time.RFC3339),
	}

	_, err = m.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, roomKey, data)
		pipe.Expire(ctx, roomKey, m.ttl)
		return nil
	})

	return err
}
