package http

import (
	"log"
	"net/http"

	"cybercase-service/internal/app"
	"cybercase-service/internal/domain"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	quiz     *app.QuizService
	feed     *app.LeaderboardFeed
	upgrader websocket.Upgrader
}

func NewWSHandler(quiz *app.QuizService, feed *app.LeaderboardFeed) *WSHandler {
	return &WSHandler{
		quiz: quiz,
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string                    `json:"type"`
	Payload []domain.LeaderboardEntry `json:"payload"`
}

// ServeLeaderboard streams leaderboard snapshots: the current standings on
// connect, then a push after every graded submission. The stream is one-way;
// the read loop exists only to notice the client going away.
func (h *WSHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	snapshot, err := h.quiz.Leaderboard(r.Context(), 0)
	if err != nil {
		log.Printf("ws initial snapshot failed: %v", err)
		return
	}

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	readerGone := make(chan struct{})
	go func() {
		defer close(readerGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: snapshot}); err != nil {
		return
	}

	for {
		select {
		case entries, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: entries}); err != nil {
				return
			}
		case <-readerGone:
			return
		}
	}
}
