package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nftfolio/templatepress/internal/models"
	"github.com/nftfolio/templatepress/internal/services"
)

type SessionServiceTestSuite struct {
	suite.Suite

	db       services.DBService
	sessions services.SessionService
}

func (suite *SessionServiceTestSuite) SetupTest() {
	db, err := services.NewDBService(":memory:")
	suite.Require().NoError(err)
	suite.db = db
	suite.sessions = services.NewSessionService(db.GetDB())
}

func (suite *SessionServiceTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *SessionServiceTestSuite) TestCreateAndGetSession() {
	session, err := suite.sessions.CreateSession("forgemaster", "wax", "swords")
	suite.Require().NoError(err)
	suite.NotEmpty(session.ID)

	loaded, err := suite.sessions.GetSession(session.ID)
	suite.Require().NoError(err)
	suite.Equal("forgemaster", loaded.Account)
	suite.Equal("wax", loaded.ChainKey)
	suite.Equal("swords", loaded.CollectionName)
	suite.Empty(loaded.SchemaName)
}

func (suite *SessionServiceTestSuite) TestGetSessionUnknownID() {
	_, err := suite.sessions.GetSession("nope")
	suite.Error(err)
}

func (suite *SessionServiceTestSuite) TestSaveAttributes() {
	session, err := suite.sessions.CreateSession("forgemaster", "wax", "swords")
	suite.Require().NoError(err)

	attrs := []models.SchemaAttribute{
		{Name: "title", Type: models.FieldTypeString, IsImmutable: true},
		{Name: "power", Type: models.FieldTypeUint64},
	}
	suite.Require().NoError(suite.sessions.SaveAttributes(session.ID, "weapons", attrs))

	loaded, err := suite.sessions.GetSession(session.ID)
	suite.Require().NoError(err)
	suite.Equal("weapons", loaded.SchemaName)
	suite.Equal(attrs, loaded.Attributes)
}

func (suite *SessionServiceTestSuite) TestSchemaChangeReplacesAttributes() {
	session, err := suite.sessions.CreateSession("forgemaster", "wax", "swords")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.sessions.SaveAttributes(session.ID, "weapons", []models.SchemaAttribute{
		{Name: "title", Type: models.FieldTypeString, IsImmutable: true},
	}))
	suite.Require().NoError(suite.sessions.SaveAttributes(session.ID, "shields", []models.SchemaAttribute{
		{Name: "title", Type: models.FieldTypeString},
		{Name: "defense", Type: models.FieldTypeDouble},
	}))

	loaded, err := suite.sessions.GetSession(session.ID)
	suite.Require().NoError(err)
	suite.Equal("shields", loaded.SchemaName)
	suite.Require().Len(loaded.Attributes, 2)
	suite.False(loaded.Attributes[0].IsImmutable, "flags from the previous schema are gone")
}

func (suite *SessionServiceTestSuite) TestDeleteSession() {
	session, err := suite.sessions.CreateSession("forgemaster", "wax", "swords")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.sessions.DeleteSession(session.ID))
	_, err = suite.sessions.GetSession(session.ID)
	suite.Error(err)
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
