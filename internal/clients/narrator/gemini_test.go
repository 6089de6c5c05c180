package narrator

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/genai"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	return f.resp, f.err
}

func textResponse(text string, tokens int32) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{TotalTokenCount: tokens},
	}
}

type GeminiTestSuite struct {
	suite.Suite
	models *fakeModels
	client *geminiClient
	ctx    context.Context
}

func TestGeminiSuite(t *testing.T) {
	suite.Run(t, new(GeminiTestSuite))
}

func (s *GeminiTestSuite) SetupTest() {
	s.models = &fakeModels{}
	s.client = newGemini(s.models, "")
	s.ctx = context.Background()
}

func (s *GeminiTestSuite) TestMapsRolesAndSystemInstruction() {
	s.models.resp = textResponse("The door opens. [XP: Elara +10]", 321)

	out, err := s.client.Generate(s.ctx, &GenerateInput{
		Messages: []Message{
			{Role: RoleSystem, Content: "You are the narrator."},
			{Role: RoleSystem, Content: "Summary: the party entered the keep."},
			{Role: RoleUser, Content: "Elara: I open the door."},
			{Role: RoleAssistant, Content: "It is locked."},
			{Role: RoleUser, Content: "Elara: I pick the lock."},
		},
		MaxTokens: 512,
	})
	s.Require().NoError(err)
	s.Equal("The door opens. [XP: Elara +10]", out.Text)
	s.Equal(321, out.TokensUsed)

	s.Equal(DefaultGeminiModel, s.models.gotModel)
	s.Require().Len(s.models.gotContents, 3)
	s.Equal(genai.RoleUser, s.models.gotContents[0].Role)
	s.Equal(genai.RoleModel, s.models.gotContents[1].Role)
	s.Equal(int32(512), s.models.gotConfig.MaxOutputTokens)
	s.Require().NotNil(s.models.gotConfig.SystemInstruction)
	s.Equal("You are the narrator.\n\nSummary: the party entered the keep.",
		s.models.gotConfig.SystemInstruction.Parts[0].Text)
}

func (s *GeminiTestSuite) TestUpstreamFailure() {
	s.models.err = stderrors.New("503 overloaded")

	_, err := s.client.Generate(s.ctx, &GenerateInput{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	s.Require().Error(err)
	s.True(errors.IsUpstream(err))
	s.True(errors.IsRetryable(err))
}

func (s *GeminiTestSuite) TestEmptyTextIsUpstream() {
	s.models.resp = textResponse("   ", 0)

	_, err := s.client.Generate(s.ctx, &GenerateInput{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	s.True(errors.IsUpstream(err))
}

func (s *GeminiTestSuite) TestRequiresConversation() {
	_, err := s.client.Generate(s.ctx, &GenerateInput{
		Messages: []Message{{Role: RoleSystem, Content: "only rules"}},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *GeminiTestSuite) TestConfigValidation() {
	_, err := NewGemini(s.ctx, &GeminiConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *GeminiTestSuite) TestEcho() {
	out, err := NewEcho().Generate(s.ctx, &GenerateInput{
		Messages: []Message{
			{Role: RoleSystem, Content: "rules"},
			{Role: RoleUser, Content: "party snapshot\n\nElara: I light a torch"},
			{Role: RoleAssistant, Content: "ok"},
		},
	})
	s.Require().NoError(err)
	s.Equal("The world answers: Elara: I light a torch", out.Text)
	s.Zero(out.TokensUsed)
}
