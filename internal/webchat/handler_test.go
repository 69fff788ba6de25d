package webchat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marser321/punta-360-sub001/internal/leadchat"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

type nopSink struct {
	captures int
}

func (s *nopSink) CaptureLead(_ context.Context, _, _, _ string, _ leadchat.IntentSnapshot) error {
	s.captures++
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *nopSink) {
	t.Helper()
	sink := &nopSink{}
	engine := leadchat.NewEngine(leadchat.NewMemorySessionStore(), sink, nil, nil, nil, logging.New("error"))
	return NewHandler(engine, logging.New("error")), sink
}

func TestHandleMessage_StartsSession(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"property_id":"prop-1","text":""}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleMessage(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, leadchat.IntentOptions, resp.Reply.Options)
}

func TestHandleMessage_FullTurn(t *testing.T) {
	h, _ := newTestHandler(t)

	// Start, then answer the intent question on the same session.
	start := httptest.NewRecorder()
	h.HandleMessage(start, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, start.Code)
	var started MessageResponse
	require.NoError(t, json.NewDecoder(start.Body).Decode(&started))

	body := `{"session_id":"` + started.SessionID + `","text":"Vivir"}`
	w := httptest.NewRecorder()
	h.HandleMessage(w, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, leadchat.TimelineOptions, resp.Reply.Options)
}

func TestHandleMessage_CapturesContact(t *testing.T) {
	h, sink := newTestHandler(t)

	start := httptest.NewRecorder()
	h.HandleMessage(start, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{}`)))
	var started MessageResponse
	require.NoError(t, json.NewDecoder(start.Body).Decode(&started))

	body := `{"session_id":"` + started.SessionID + `","text":"ana@mail.com"}`
	w := httptest.NewRecorder()
	h.HandleMessage(w, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sink.captures)
}

func TestHandleMessage_UnknownSession(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"session_id":"nope","text":"hola"}`
	w := httptest.NewRecorder()
	h.HandleMessage(w, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleMessage_RequiresText(t *testing.T) {
	h, _ := newTestHandler(t)

	// Existing session but blank text: nothing to answer.
	start := httptest.NewRecorder()
	h.HandleMessage(start, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{}`)))
	var started MessageResponse
	require.NoError(t, json.NewDecoder(start.Body).Decode(&started))

	body := `{"session_id":"` + started.SessionID + `","text":"  "}`
	w := httptest.NewRecorder()
	h.HandleMessage(w, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHistory(t *testing.T) {
	h, _ := newTestHandler(t)

	start := httptest.NewRecorder()
	h.HandleMessage(start, httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{}`)))
	var started MessageResponse
	require.NoError(t, json.NewDecoder(start.Body).Decode(&started))

	req := httptest.NewRequest(http.MethodGet, "/chat/history?session="+started.SessionID, nil)
	w := httptest.NewRecorder()
	h.HandleHistory(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]HistoryMessage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp["messages"], 1)
	assert.Equal(t, "assistant", resp["messages"][0].Role)
	assert.Equal(t, leadchat.IntentOptions, resp["messages"][0].Options)
}

func TestHandleHistory_MissingSession(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleHistory(w, httptest.NewRequest(http.MethodGet, "/chat/history", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.HandleHistory(w, httptest.NewRequest(http.MethodGet, "/chat/history?session=nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleWidgetJS(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/widget.js", nil)
	w := httptest.NewRecorder()
	h.HandleWidgetJS(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/javascript", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "p360-chat")
}
