package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicagent/types"
)

func newSessionApp(sessions *SessionStore) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewChatHandler(nil, nil, sessions)
	app.Get("/api/v1/chat/:session/info", h.HandleSessionInfo)
	app.Delete("/api/v1/chat/:session", h.HandleClearSession)
	return app
}

func TestHandleSessionInfo(t *testing.T) {
	sessions := NewSessionStore()
	sessions.Append("s1",
		types.ConversationTurn{Role: types.RoleUser, Content: "hi"},
		types.ConversationTurn{Role: types.RoleAgent, Content: "hello"},
	)
	app := newSessionApp(sessions)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/chat/s1/info", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out SessionInfoResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "s1", out.SessionID)
	assert.Equal(t, 2, out.TurnCount)
}

func TestHandleSessionInfoEmptySession(t *testing.T) {
	app := newSessionApp(NewSessionStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/chat/fresh/info", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out SessionInfoResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Zero(t, out.TurnCount)
}

func TestHandleClearSessionEndpoint(t *testing.T) {
	sessions := NewSessionStore()
	sessions.Append("s1", types.ConversationTurn{Role: types.RoleUser, Content: "hi"})
	app := newSessionApp(sessions)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/chat/s1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, sessions.History("s1"))
}
