package v1alpha1_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/handlers/narrative/v1alpha1"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/combat"
	combatmock "github.com/KirkDiggler/rpg-narrator/internal/orchestrators/combat/mock"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/turn"
	turnmock "github.com/KirkDiggler/rpg-narrator/internal/orchestrators/turn/mock"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
)

const sessionID = "session-handler-001"

type HandlerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	turnService   *turnmock.MockService
	combatService *combatmock.MockService
	hub           *broadcast.Hub
	bus           broadcast.Broadcaster

	server *grpc.Server
	conn   *grpc.ClientConn
	client *v1alpha1.GameServiceClient
	ctx    context.Context
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.turnService = turnmock.NewMockService(s.ctrl)
	s.combatService = combatmock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	eventBus := events.NewBus()
	var err error
	s.hub, err = broadcast.NewHub(&broadcast.HubConfig{EventBus: eventBus})
	s.Require().NoError(err)
	s.bus, err = broadcast.NewBus(&broadcast.BusConfig{EventBus: eventBus})
	s.Require().NoError(err)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		TurnService:   s.turnService,
		CombatService: s.combatService,
		Hub:           s.hub,
	})
	s.Require().NoError(err)

	lis := bufconn.Listen(1 << 20)
	s.server = grpc.NewServer()
	v1alpha1.RegisterGameServiceServer(s.server, handler)
	go func() {
		_ = s.server.Serve(lis) // nolint:errcheck // returns on Stop
	}()

	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.client = v1alpha1.NewGameServiceClient(s.conn)
}

func (s *HandlerTestSuite) TearDownTest() {
	_ = s.conn.Close() // nolint:errcheck // test cleanup
	s.server.Stop()
	s.hub.Close()
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) TestSubmitActionRoundTrip() {
	s.turnService.EXPECT().SubmitAction(gomock.Any(), &turn.SubmitActionInput{
		SessionID:   sessionID,
		CharacterID: "char-elara",
		Text:        "I read the runes",
	}).Return(&turn.SubmitActionOutput{
		Processed: true,
		Result: &turn.TurnResult{
			Turn:      3,
			Narration: "The runes glow. [XP: Elara +10]",
			Changes:   []*directives.Change{{Kind: directives.KindXP, CharacterID: "char-elara", Description: "+10 xp"}},
			Skipped:   []*directives.PartialTagError{{Tag: "HP", Entry: "Gandalf -3", Reason: "no party member matches Gandalf"}},
		},
	}, nil)

	resp, err := s.client.SubmitAction(s.ctx, &v1alpha1.SubmitActionRequest{
		SessionID:   sessionID,
		CharacterID: "char-elara",
		Text:        "I read the runes",
	})
	s.Require().NoError(err)
	s.True(resp.Processed)
	s.Require().NotNil(resp.Turn)
	s.Equal(3, resp.Turn.Turn)
	s.Require().Len(resp.Turn.Changes, 1)
	s.Equal(directives.KindXP, resp.Turn.Changes[0].Kind)
	s.Require().Len(resp.Turn.Skipped, 1)
	s.Equal("Gandalf -3", resp.Turn.Skipped[0].Entry)
}

func (s *HandlerTestSuite) TestSubmitActionWaiting() {
	s.turnService.EXPECT().SubmitAction(gomock.Any(), gomock.Any()).
		Return(&turn.SubmitActionOutput{Waiting: 2}, nil)

	resp, err := s.client.SubmitAction(s.ctx, &v1alpha1.SubmitActionRequest{
		SessionID:   sessionID,
		CharacterID: "char-elara",
		Text:        "I wait",
	})
	s.Require().NoError(err)
	s.False(resp.Processed)
	s.Equal(2, resp.Waiting)
	s.Nil(resp.Turn)
}

func (s *HandlerTestSuite) TestSubmitActionRequiresIDs() {
	_, err := s.client.SubmitAction(s.ctx, &v1alpha1.SubmitActionRequest{Text: "hello"})
	s.Require().Error(err)
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestConflictKeepsRetryableMeta() {
	s.turnService.EXPECT().ForceProcess(gomock.Any(), &turn.ForceProcessInput{SessionID: sessionID}).
		Return(nil, errors.Conflictf("session %s is processing a turn", sessionID))

	_, err := s.client.ForceProcess(s.ctx, &v1alpha1.SessionRequest{SessionID: sessionID})
	s.Require().Error(err)
	s.Equal(codes.Aborted, status.Code(err))

	converted := errors.FromGRPCError(err)
	s.True(errors.IsConflict(converted))
	s.True(errors.IsRetryable(converted))
}

func (s *HandlerTestSuite) TestNextTurnForActiveCombat() {
	s.combatService.EXPECT().GetActiveCombat(gomock.Any(), &combat.GetActiveCombatInput{SessionID: sessionID}).
		Return(&combat.GetActiveCombatOutput{Combat: &entities.Combat{ID: "cb_1", SessionID: sessionID, IsActive: true}}, nil)
	s.combatService.EXPECT().NextTurn(gomock.Any(), &combat.NextTurnInput{CombatID: "cb_1"}).
		Return(&combat.NextTurnOutput{Combat: &entities.Combat{ID: "cb_1", Round: 2}}, nil)

	active, err := s.client.GetActiveCombat(s.ctx, &v1alpha1.SessionRequest{SessionID: sessionID})
	s.Require().NoError(err)

	next, err := s.client.NextTurn(s.ctx, &v1alpha1.CombatRequest{CombatID: active.Combat.ID})
	s.Require().NoError(err)
	s.Equal(2, next.Combat.Round)
}

func (s *HandlerTestSuite) TestNotFoundMapsToGRPC() {
	s.turnService.EXPECT().GetSession(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFoundf("session %s not found", "missing"))

	_, err := s.client.GetSession(s.ctx, &v1alpha1.GetSessionRequest{SessionID: "missing"})
	s.Equal(codes.NotFound, status.Code(err))
}

func (s *HandlerTestSuite) TestWatchSessionStreamsMessages() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	stream, err := s.client.WatchSession(ctx, &v1alpha1.SessionRequest{SessionID: sessionID})
	s.Require().NoError(err)

	s.Eventually(func() bool {
		return s.hub.Subscribers(sessionID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.bus.Emit(s.ctx, &broadcast.Message{
		Event:     broadcast.EventCombatUpdated,
		SessionID: "session-other",
	})
	s.bus.Emit(s.ctx, &broadcast.Message{
		Event:     broadcast.EventNarration,
		SessionID: sessionID,
		Payload:   map[string]any{"text": "Thunder."},
	})

	msg, err := stream.Recv()
	s.Require().NoError(err)
	s.Equal(broadcast.EventNarration, msg.Event)
	s.Equal(sessionID, msg.SessionID)
	s.Equal(map[string]any{"text": "Thunder."}, msg.Payload)

	cancel()
	s.Eventually(func() bool {
		return s.hub.Subscribers(sessionID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *HandlerTestSuite) TestNewHandlerValidation() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}
