package live_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/handlers/live"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/orchestrators/session"
	"github.com/KirkDiggler/certquest/internal/pkg/clock"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
	"github.com/KirkDiggler/certquest/internal/repositories/quizbank"
)

type LiveHandlerTestSuite struct {
	suite.Suite
	ctx       context.Context
	service   session.Service
	server    *httptest.Server
	sessionID string
}

func TestLiveHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LiveHandlerTestSuite))
}

func (s *LiveHandlerTestSuite) SetupTest() {
	s.ctx = context.Background()

	repo, err := quizbank.NewDefaultRepository()
	s.Require().NoError(err)

	s.service, err = session.NewOrchestrator(&session.Config{
		QuizRepo:    repo,
		Balance:     config.DefaultBalance(),
		IDGenerator: idgen.NewSequential("session"),
		EventBus:    events.NewBus(),
		Clock:       clock.NewManual(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)

	seed := uint64(3)
	out, err := s.service.StartSession(s.ctx, &session.StartSessionInput{Seed: &seed})
	s.Require().NoError(err)
	s.sessionID = out.SessionID

	handler, err := live.NewHandler(&live.HandlerConfig{
		SessionService: s.service,
		TickRate:       50,
	})
	s.Require().NoError(err)

	s.server = httptest.NewServer(http.HandlerFunc(handler.Handle))
}

func (s *LiveHandlerTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *LiveHandlerTestSuite) wsURL(sessionID string) string {
	u, err := url.Parse(s.server.URL)
	s.Require().NoError(err)
	u.Scheme = "ws"
	q := u.Query()
	if sessionID != "" {
		q.Set("session", sessionID)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *LiveHandlerTestSuite) dial() *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial(s.wsURL(s.sessionID), nil)
	if resp != nil {
		s.T().Cleanup(func() { _ = resp.Body.Close() })
	}
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

// next reads until a message of the wanted type arrives, skipping frames
func (s *LiveHandlerTestSuite) next(conn *websocket.Conn, want string) *live.ServerMessage {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		var msg live.ServerMessage
		s.Require().NoError(conn.ReadJSON(&msg))
		if msg.Type == want {
			return &msg
		}
	}
}

func (s *LiveHandlerTestSuite) TestNewHandlerValidation() {
	_, err := live.NewHandler(&live.HandlerConfig{})
	s.Error(err)

	_, err = live.NewHandler(&live.HandlerConfig{SessionService: s.service, TickRate: -1})
	s.Error(err)

	_, err = live.NewHandler(nil)
	s.Error(err)
}

func (s *LiveHandlerTestSuite) TestRejectsMissingAndUnknownSession() {
	resp, err := http.Get(s.server.URL)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(s.wsURL("missing"), nil)
	s.Require().Error(err)
	s.Require().NotNil(resp)
	_ = resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *LiveHandlerTestSuite) TestInitialFrame() {
	conn := s.dial()

	msg := s.next(conn, live.MessageFrame)
	s.Require().NotNil(msg.Snapshot)
	s.Equal(s.sessionID, msg.Snapshot.SessionID)
	s.Equal("town", msg.Snapshot.Area.Name)
}

func (s *LiveHandlerTestSuite) TestInputUpdatesAndEchoesSeq() {
	conn := s.dial()
	s.next(conn, live.MessageFrame)

	s.Require().NoError(conn.WriteJSON(&live.ClientMessage{
		Type:    live.MessageInput,
		Seq:     7,
		Intents: []string{"right"},
	}))

	msg := s.next(conn, live.MessageUpdate)
	s.Equal(uint64(7), msg.Seq)
	s.Require().NotNil(msg.Snapshot)
	s.Equal(6, msg.Snapshot.Player.TileX)
	s.Equal(uint64(1), msg.Snapshot.Tick)
}

func (s *LiveHandlerTestSuite) TestFramesFollowOtherWriters() {
	conn := s.dial()
	s.next(conn, live.MessageFrame)

	_, err := s.service.SendInput(s.ctx, &session.SendInputInput{
		SessionID: s.sessionID,
		Intents:   []string{"left"},
	})
	s.Require().NoError(err)

	msg := s.next(conn, live.MessageFrame)
	s.Equal(4, msg.Snapshot.Player.TileX)
}

func (s *LiveHandlerTestSuite) TestBadInputIsReported() {
	conn := s.dial()
	s.next(conn, live.MessageFrame)

	s.Require().NoError(conn.WriteJSON(&live.ClientMessage{Type: live.MessageInput, Intents: []string{"dance"}}))
	msg := s.next(conn, live.MessageError)
	s.Equal(string(errors.CodeInvalidArgument), msg.Code)

	s.Require().NoError(conn.WriteJSON(&live.ClientMessage{Type: "explode"}))
	msg = s.next(conn, live.MessageError)
	s.Equal(string(errors.CodeInvalidArgument), msg.Code)

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = s.next(conn, live.MessageError)
	s.Equal(string(errors.CodeInvalidArgument), msg.Code)
}

func (s *LiveHandlerTestSuite) TestReset() {
	conn := s.dial()
	s.next(conn, live.MessageFrame)

	s.Require().NoError(conn.WriteJSON(&live.ClientMessage{Type: live.MessageReset}))
	msg := s.next(conn, live.MessageUpdate)
	s.Require().Len(msg.Notices, 1)
	s.Equal(notice.KeyGameOver, msg.Notices[0].Key)
	s.Equal("center", msg.Snapshot.Area.Name)
}

func (s *LiveHandlerTestSuite) TestEndedSessionClosesFeed() {
	conn := s.dial()
	s.next(conn, live.MessageFrame)

	_, err := s.service.EndSession(s.ctx, &session.EndSessionInput{SessionID: s.sessionID})
	s.Require().NoError(err)

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		_, _, err = conn.ReadMessage()
		if err != nil {
			break
		}
	}
	s.True(websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
