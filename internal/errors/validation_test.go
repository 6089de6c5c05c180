package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationErrorIsSorted() {
	ve := errors.NewValidationError()
	ve.AddFieldError("text", "is required")
	ve.AddFieldError("character_id", "is required")

	s.True(ve.HasErrors())
	s.Equal("validation failed: character_id: is required; text: is required", ve.Error())

	err := ve.ToError()
	s.Equal(errors.CodeInvalidArgument, err.Code)
	s.NotNil(err.Meta["validation_errors"])
}

func (s *ValidationTestSuite) TestBuilder() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("session_id", "  ", vb)
	errors.ValidateMaxLength("text", "abcdef", 3, vb)
	errors.ValidatePositive("token_ceiling", 0, vb)
	errors.ValidateEnum("provider", "openai", []string{"gemini", "echo"}, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "session_id: is required")
	s.Contains(err.Error(), "text: must be no more than 3 characters")
	s.Contains(err.Error(), "provider: must be one of: gemini, echo")
}

func (s *ValidationTestSuite) TestBuilderNoErrors() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("session_id", "sess-1", vb)
	errors.ValidateEnum("provider", "echo", []string{"gemini", "echo"}, vb)
	s.NoError(vb.Build())
}
