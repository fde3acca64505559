package http

import (
	"encoding/json"

	"candlearena.com/tradesim/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SessionFeedChannel is published by the session writer whenever a run
// finishes; the payload is the finished session as JSON.
const SessionFeedChannel = "leaderboard:sessions"

const liveSnapshotSize = 20

type liveMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleLiveFeed upgrades to a websocket, sends a snapshot of the most recent
// sessions, then forwards session-finished events from Redis. Without Redis
// the client only gets the snapshot.
func (h *LeaderboardHandler) HandleLiveFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	snapshot := h.service.GetRecentSessions(c.Request.Context(), liveSnapshotSize)
	payload, err := json.Marshal(snapshot)
	if err != nil {
		logger.Errorf("failed to marshal live snapshot: %v", err)
		return
	}
	if err := conn.WriteJSON(liveMessage{Type: "snapshot", Data: payload}); err != nil {
		logger.Errorf("failed to write live snapshot: %v", err)
		return
	}

	if h.redisClient == nil {
		logger.Warnf("redis client is nil, live feed serves snapshot only")
		return
	}

	pubsub := h.redisClient.Subscribe(c.Request.Context(), SessionFeedChannel)
	defer pubsub.Close()

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		logger.Errorf("failed to subscribe to %s: %v", SessionFeedChannel, err)
		return
	}

	ch := pubsub.Channel()

	// Signal client disconnect
	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			// Payload is already the session JSON, forward it as-is
			out := liveMessage{Type: "session", Data: json.RawMessage(msg.Payload)}
			if err := conn.WriteJSON(out); err != nil {
				logger.Errorf("failed to write message to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
