package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServeWS upgrades an HTTP request to a websocket stream for one challenge.
// userID may be empty for anonymous viewers of public challenges.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, challengeID uuid.UUID, userID string, logger zerolog.Logger) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upgrade stream connection")
		return err
	}

	client := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 8),
		userID:      userID,
		challengeID: challengeID,
		logger:      logger,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	return nil
}
