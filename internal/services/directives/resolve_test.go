package directives_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
	"github.com/KirkDiggler/rpg-narrator/internal/testutils"
)

type ResolveTestSuite struct {
	suite.Suite
	party []*entities.Character
}

func TestResolveSuite(t *testing.T) {
	suite.Run(t, new(ResolveTestSuite))
}

func (s *ResolveTestSuite) SetupTest() {
	s.party = testutils.NewParty()
}

func (s *ResolveTestSuite) TestTiers() {
	testCases := []struct {
		name   string
		term   string
		wantID string
	}{
		{name: "exact", term: "Reinhard Lockeheart", wantID: testutils.TestReinhardID},
		{name: "exact ignores case", term: "elara", wantID: testutils.TestElaraID},
		{name: "first token", term: "Reinhard", wantID: testutils.TestReinhardID},
		{name: "substring of name", term: "einhard", wantID: testutils.TestReinhardID},
		{name: "prefix substring", term: "Elar", wantID: testutils.TestElaraID},
		{name: "name inside term", term: "Elara the Wise", wantID: testutils.TestElaraID},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := directives.Resolve(tc.term, s.party)
			s.Require().NoError(err)
			s.Equal(tc.wantID, got.ID)
		})
	}
}

func (s *ResolveTestSuite) TestNoMatch() {
	for _, term := range []string{"Gandalf", "", "   "} {
		_, err := directives.Resolve(term, s.party)
		s.ErrorIs(err, directives.ErrNoMatch)
	}
}

func (s *ResolveTestSuite) TestEarlierTierWins() {
	// "Ara" is a substring of "Elara" but the first token of "Ara Stone"
	party := []*entities.Character{
		testutils.NewCharacter("char-elara", testutils.TestSessionID, "Elara"),
		testutils.NewCharacter("char-ara", testutils.TestSessionID, "Ara Stone"),
	}

	got, err := directives.Resolve("Ara", party)
	s.Require().NoError(err)
	s.Equal("char-ara", got.ID)
}

func (s *ResolveTestSuite) TestExactBeatsFirstToken() {
	party := []*entities.Character{
		testutils.NewCharacter("char-long", testutils.TestSessionID, "Kit Marlowe"),
		testutils.NewCharacter("char-short", testutils.TestSessionID, "Kit"),
	}

	got, err := directives.Resolve("kit", party)
	s.Require().NoError(err)
	s.Equal("char-short", got.ID)
}
