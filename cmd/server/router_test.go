package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/handlers"
	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/internal/websocket"
	"github.com/thereayou/voxus/pkg/auth"
)

type memoryBlacklist struct {
	revoked map[string]bool
}

func (m *memoryBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	return m.revoked[token], nil
}

func (m *memoryBlacklist) Revoke(_ context.Context, token string, _ time.Time) error {
	m.revoked[token] = true
	return nil
}

type testEnv struct {
	srv   *httptest.Server
	jwt   *auth.JWTManager
	coord *coordinator.Coordinator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	bl := &memoryBlacklist{revoked: map[string]bool{}}
	hub := websocket.NewHub()
	coord := coordinator.New(hub, coordinator.Options{QuietPeriod: 50 * time.Millisecond})
	coord.EnsureRoom(coordinator.Room{Name: "General", Category: coordinator.CategoryGeneral, CreatedBy: "System"})

	router := gin.New()
	APIEndpoints(router, Handlers{
		Auth:      handlers.NewAuthHandler(jwtMgr, bl),
		Rooms:     handlers.NewRoomHandler(coord),
		Messages:  handlers.NewHTTPMessageHandler(coord),
		Users:     handlers.NewUserHandler(coord, nil),
		Uploads:   handlers.NewUploadHandler(nil),
		WebSocket: handlers.NewWebSocketHandler(hub, coord, nil, "General"),
	}, middleware.AuthMiddleware(jwtMgr, bl))

	go hub.Run()
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return &testEnv{srv: srv, jwt: jwtMgr, coord: coord}
}

func (e *testEnv) token(t *testing.T, id, name string) string {
	t.Helper()
	tok, err := e.jwt.Generate(id, name)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) dial(t *testing.T, token string) *gws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws?token=" + token
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func send(t *testing.T, conn *gws.Conn, msgType websocket.MessageType, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(websocket.Message{Type: msgType, Data: raw}))
}

// expect читает события, пока не встретит событие нужного типа, для которого match вернёт true
func expect(t *testing.T, conn *gws.Conn, msgType websocket.MessageType, match func(json.RawMessage) bool) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg websocket.Message
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", msgType)
		if msg.Type == msgType && (match == nil || match(msg.Data)) {
			return msg.Data
		}
	}
}

func rosterIs(names ...string) func(json.RawMessage) bool {
	return func(data json.RawMessage) bool {
		var p coordinator.UsersPayload
		if json.Unmarshal(data, &p) != nil || len(p.Users) != len(names) {
			return false
		}
		for i, u := range p.Users {
			if u.Username != names[i] {
				return false
			}
		}
		return true
	}
}

func TestGateway_ChatFlow(t *testing.T) {
	env := newTestEnv(t)
	aliceTok := env.token(t, "ua", "alice")
	bobTok := env.token(t, "ub", "bob")

	alice := env.dial(t, aliceTok)
	expect(t, alice, "update_users", rosterIs("alice"))
	expect(t, alice, "history", nil)

	bob := env.dial(t, bobTok)
	expect(t, bob, "update_users", rosterIs("alice", "bob"))
	expect(t, alice, "update_users", rosterIs("alice", "bob"))

	send(t, alice, websocket.TypeMessage, map[string]any{"room": "General", "content": "hello :smile:"})
	data := expect(t, bob, "message", nil)
	var msg coordinator.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "alice", msg.AuthorName)
	assert.True(t, strings.HasPrefix(msg.Body, "hello "))
	assert.NotContains(t, msg.Body, ":smile:")
	assert.Equal(t, uint64(1), msg.Seq)

	// правит чужое сообщение: ошибка только отправителю
	send(t, bob, websocket.TypeEditMessage, map[string]any{"messageId": msg.ID, "content": "hacked"})
	errData := expect(t, bob, "error", nil)
	assert.Contains(t, string(errData), `"code":"not_author"`)
	assert.Contains(t, string(errData), `"command":"edit_message"`)

	send(t, alice, websocket.TypeDeleteMessage, map[string]any{"messageId": msg.ID, "room": "General"})
	expect(t, bob, "message_deleted", nil)

	send(t, bob, "dance", nil)
	assert.Contains(t, string(expect(t, bob, "error", nil)), "unknown_command")

	for _, frame := range []string{"{not json", "", `{"type":"message","data":`} {
		require.NoError(t, bob.WriteMessage(gws.TextMessage, []byte(frame)))
		assert.Contains(t, string(expect(t, bob, "error", nil)), "invalid_message", "frame %q", frame)
	}

	// соединение пережило битые кадры
	send(t, bob, websocket.TypeMessage, map[string]any{"room": "General", "content": "still here"})
	expect(t, alice, "message", func(data json.RawMessage) bool {
		return strings.Contains(string(data), "still here")
	})

	bob.Close()
	expect(t, alice, "update_users", rosterIs("alice"))
}

func TestGateway_InviteFlow(t *testing.T) {
	env := newTestEnv(t)
	aTok := env.token(t, "ua", "A")
	cTok := env.token(t, "uc", "C")

	a := env.dial(t, aTok)
	expect(t, a, "update_users", rosterIs("A"))
	c := env.dial(t, cTok)
	expect(t, c, "update_users", rosterIs("A", "C"))

	resp := env.request(t, http.MethodPost, "/rooms", aTok, map[string]any{"name": "Study-Group", "category": "Study"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	expect(t, c, "room_created", nil)

	resp = env.request(t, http.MethodPost, "/rooms", aTok, map[string]any{"name": "Study-Group"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	send(t, a, websocket.TypeJoin, map[string]any{"room": "Study-Group"})
	expect(t, a, "update_users", rosterIs("A"))

	send(t, a, websocket.TypeInvite, map[string]any{"toUser": "C", "room": "Study-Group"})
	inv := expect(t, c, "invited", nil)
	assert.Contains(t, string(inv), `"from":"A"`)

	send(t, c, websocket.TypeInviteResponse, map[string]any{"room": "Study-Group", "accept": true})
	expect(t, a, "update_users", rosterIs("A", "C"))

	room, ok := env.coord.CurrentRoom("uc")
	require.True(t, ok)
	assert.Equal(t, "Study-Group", room)

	resp = env.request(t, http.MethodGet, "/rooms", aTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dir map[string]struct {
		UsersCount int    `json:"usersCount"`
		Category   string `json:"category"`
		CreatedBy  string `json:"createdBy"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dir))
	assert.Equal(t, 0, dir["General"].UsersCount)
	assert.Equal(t, 2, dir["Study-Group"].UsersCount)
	assert.Equal(t, "Study", dir["Study-Group"].Category)
	assert.Equal(t, "A", dir["Study-Group"].CreatedBy)
}

func TestGateway_Auth(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "ua", "alice")

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/ws"
	_, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/me", tok, nil).StatusCode)
	assert.Equal(t, http.StatusOK, env.request(t, http.MethodPost, "/auth/logout", tok, nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, env.request(t, http.MethodGet, "/me", tok, nil).StatusCode)

	assert.Equal(t, http.StatusServiceUnavailable, env.request(t, http.MethodPost, "/upload", env.token(t, "ub", "bob"), nil).StatusCode)
}
