package util

import "fmt"

// Fields of the room:<id> hash kept in Redis.
const (
	RoomIDKey       = "id"
	RoomStatusKey   = "status"
	RoomWinnerKey   = "winner"
	RoomPositionKey = "position"
	RoomHistoryKey  = "history"
	RoomPlayersKey  = "players"
	RoomUpdatedKey  = "updated_at"
)

func GetRoomKey(room string) string {
	return fmt.Sprintf("room:%v", room)
}
