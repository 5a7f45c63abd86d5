package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"partyline/domain"
)

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (h *harness) wsURL(token string) string {
	return "ws" + strings.TrimPrefix(h.ts.URL, "http") + "/ws?token=" + token
}

func (h *harness) login(t *testing.T, username string) string {
	t.Helper()
	resp := h.do(t, http.MethodPost, "/sessions", map[string]string{
		"username": username, "credentialRef": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session struct {
		Token string `json:"token"`
	}
	decodeInto(t, resp, &session)
	return session.Token
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, event, id string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"event": event, "data": id}))
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame wsFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func Test_Websocket_RejectsInvalidToken(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	_, resp, err := websocket.DefaultDialer.Dial(h.wsURL("garbage"), nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func Test_Websocket_RealtimeFlow(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	ann := h.registerUser(t, "Ann")
	bob := h.registerUser(t, "Bob")

	// Given a direct chat between Ann and Bob
	resp := h.do(t, http.MethodPost, "/chats", map[string]any{
		"type": "direct", "participants": []string{ann.ID, bob.ID},
	})
	req.Equal(http.StatusOK, resp.StatusCode)
	var chat domain.Chat
	decodeInto(t, resp, &chat)

	// When Ann connects and joins her chat and personal topics. Frames on
	// one socket are handled in order, so once presence is visible the chat
	// subscription sent before it is in place too.
	conn := dialWS(t, h.wsURL(h.login(t, "Ann")))
	sendFrame(t, conn, "join_chat", chat.ID)
	sendFrame(t, conn, "join_user", ann.ID)
	req.Eventually(func() bool { return h.registry.IsUserOnline(ann.ID) },
		5*time.Second, 10*time.Millisecond)

	// Then Bob's message reaches her as message_new
	resp = h.do(t, http.MethodPost, "/chats/"+chat.ID+"/messages", map[string]string{
		"senderId": bob.ID, "type": "text", "content": "hey ann",
	})
	req.Equal(http.StatusOK, resp.StatusCode)

	frame := readFrame(t, conn)
	req.Equal("message_new", frame.Event)
	var msg domain.Message
	req.NoError(json.Unmarshal(frame.Data, &msg))
	req.Equal("hey ann", msg.Content)
	req.Equal(uint64(1), msg.Sequence)

	// And a friend request lands on her personal topic
	resp = h.do(t, http.MethodPost, "/friends/request", map[string]string{
		"fromUserId": bob.ID, "toUsername": "Ann",
	})
	req.Equal(http.StatusOK, resp.StatusCode)

	frame = readFrame(t, conn)
	req.Equal("friend_request", frame.Event)
	var from domain.PublicProfile
	req.NoError(json.Unmarshal(frame.Data, &from))
	req.Equal(bob.ID, from.ID)
}

func Test_Websocket_JoinRules(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	ann := h.registerUser(t, "Ann")
	bob := h.registerUser(t, "Bob")
	eve := h.registerUser(t, "Eve")

	resp := h.do(t, http.MethodPost, "/chats", map[string]any{
		"type": "direct", "participants": []string{ann.ID, bob.ID},
	})
	req.Equal(http.StatusOK, resp.StatusCode)
	var chat domain.Chat
	decodeInto(t, resp, &chat)

	conn := dialWS(t, h.wsURL(h.login(t, "Eve")))

	// Eve may not listen on Ann's personal topic
	sendFrame(t, conn, "join_user", ann.ID)
	frame := readFrame(t, conn)
	req.Equal("error", frame.Event)

	// Nor on a chat she is not part of
	sendFrame(t, conn, "join_chat", chat.ID)
	frame = readFrame(t, conn)
	req.Equal("error", frame.Event)

	// Her own personal topic is fine
	sendFrame(t, conn, "join_user", eve.ID)
	req.Eventually(func() bool { return h.registry.IsUserOnline(eve.ID) },
		5*time.Second, 10*time.Millisecond)
}
