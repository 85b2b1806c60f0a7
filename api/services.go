package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/judgegodwins/chess-rooms/game"
	"github.com/judgegodwins/chess-rooms/http_utils"
	"github.com/judgegodwins/chess-rooms/util"
)

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse("ok", gin.H{
		"rooms":       s.registry.Len(),
		"connections": s.wsManager.ClientCount(),
	}))
}

type getRoomRequest struct {
	RoomID string `uri:"id" json:"id" validate:"required,max=64"`
}

// GetRoom returns the current view of a known room. It does not list rooms.
func (s *Server) GetRoom(c *gin.Context) {
	var data getRoomRequest

	if err := c.ShouldBindUri(&data); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if res, ok := http_utils.ValidateStruct(util.Validate, data); !ok {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}

	var view game.View

	err := s.registry.Do(data.RoomID, func(room *game.Room) error {
		view = room.View()
		return nil
	})

	if errors.Is(err, game.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("room not found"))
		return
	}

	if err != nil {
		s.log.Error().Err(err).Str("room_id", data.RoomID).Msg("error reading room")
		c.JSON(http.StatusInternalServerError, errorResponse(ErrorMessage500))
		return
	}

	c.JSON(http.StatusOK, successResponse("room data", view))
}
