package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/handlers/ws"
)

type HandlerTestSuite struct {
	suite.Suite
	hub    *broadcast.Hub
	bus    broadcast.Broadcaster
	server *httptest.Server
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	eventBus := events.NewBus()
	var err error
	s.hub, err = broadcast.NewHub(&broadcast.HubConfig{EventBus: eventBus})
	s.Require().NoError(err)
	s.bus, err = broadcast.NewBus(&broadcast.BusConfig{EventBus: eventBus})
	s.Require().NoError(err)

	h, err := ws.NewHandler(&ws.HandlerConfig{
		Hub:            s.hub,
		AllowedOrigins: []string{"http://table.example"},
	})
	s.Require().NoError(err)
	s.server = httptest.NewServer(ws.NewRouter(h))
}

func (s *HandlerTestSuite) TearDownTest() {
	s.server.Close()
	s.hub.Close()
}

func (s *HandlerTestSuite) wsURL(query string) string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws" + query
}

func (s *HandlerTestSuite) TestHealth() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *HandlerTestSuite) TestRequiresSessionID() {
	resp, err := http.Get(s.server.URL + "/ws")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerTestSuite) TestRejectsUnknownOrigin() {
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(s.wsURL("?session_id=session-a"), header)
	s.Require().Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *HandlerTestSuite) TestPushesSessionMessages() {
	header := http.Header{"Origin": []string{"http://table.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(s.wsURL("?session_id=session-a"), header)
	s.Require().NoError(err)
	defer conn.Close()

	s.Eventually(func() bool {
		return s.hub.Subscribers("session-a") == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.bus.Emit(context.Background(), &broadcast.Message{
		Event:     broadcast.EventCharacterUpdated,
		SessionID: "session-a",
		Payload:   map[string]any{"id": "char-elara"},
	})

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var msg broadcast.Message
	s.Require().NoError(conn.ReadJSON(&msg))
	s.Equal(broadcast.EventCharacterUpdated, msg.Event)
	s.Equal("session-a", msg.SessionID)
	s.Positive(msg.EmittedAt)

	s.Require().NoError(conn.Close())
	s.Eventually(func() bool {
		return s.hub.Subscribers("session-a") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
