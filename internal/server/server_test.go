package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/feed"
	"github.com/localpulse/localpulse/internal/gateway"
	"github.com/localpulse/localpulse/internal/llm"
	"github.com/localpulse/localpulse/internal/session"
	"github.com/localpulse/localpulse/internal/types"
)

// scriptedClient returns canned model replies for handler tests.
type scriptedClient struct {
	jsonReply string
	textReply string
	chatReply string
	imageBlob *llm.ImageBlob
	err       error

	mu             sync.Mutex
	lastJSONPrompt string
}

func (c *scriptedClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return c.textReply, c.err
}

func (c *scriptedClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	c.mu.Lock()
	c.lastJSONPrompt = prompt
	c.mu.Unlock()
	return c.jsonReply, c.err
}

func (c *scriptedClient) jsonPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastJSONPrompt
}

func (c *scriptedClient) GenerateVision(context.Context, string, []byte, string, llm.ModelTier) (string, error) {
	return c.textReply, c.err
}

func (c *scriptedClient) GenerateImage(context.Context, string) (*llm.ImageBlob, error) {
	return c.imageBlob, c.err
}

func (c *scriptedClient) Chat(context.Context, string, []types.Turn, string, llm.ModelTier) (string, error) {
	return c.chatReply, c.err
}

func (c *scriptedClient) Close() error { return nil }

func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()

	store, err := feed.NewStaticStore()
	require.NoError(t, err)

	srv, err := New(Config{
		Addr:       ":0",
		Gateway:    gateway.New(client, "Minneapolis-St. Paul Metro"),
		Store:      store,
		Sessions:   session.NewMemoryStore(time.Minute),
		SessionTTL: 0, // no background sweeper in tests
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListOpportunities_DefaultView(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodGet, "/api/opportunities", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Opportunities []types.Opportunity `json:"opportunities"`
	}
	decodeBody(t, rec, &body)

	// Default view: Immediate or Within 24h, legitimacy >= 80
	require.NotEmpty(t, body.Opportunities)
	for _, opp := range body.Opportunities {
		assert.Contains(t, []types.UrgencyLevel{types.UrgencyImmediate, types.UrgencyWithin24h}, opp.Urgency)
		assert.GreaterOrEqual(t, opp.LegitimacyScore, 80)
	}
	for i := 1; i < len(body.Opportunities); i++ {
		assert.GreaterOrEqual(t, body.Opportunities[i-1].CreatedUTC, body.Opportunities[i].CreatedUTC,
			"feed must be newest first")
	}
}

func TestListOpportunities_QueryFilters(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodGet, "/api/opportunities?urgency=Ongoing&min_legitimacy=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Opportunities []types.Opportunity `json:"opportunities"`
	}
	decodeBody(t, rec, &body)

	require.NotEmpty(t, body.Opportunities)
	for _, opp := range body.Opportunities {
		assert.Equal(t, types.UrgencyOngoing, opp.Urgency)
	}
}

func TestListOpportunities_BadQuery(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodGet, "/api/opportunities?urgency=Yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/opportunities?min_legitimacy=150", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOpportunity(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodGet, "/api/opportunities/1f3k9a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var opp types.Opportunity
	decodeBody(t, rec, &opp)
	assert.Equal(t, "1f3k9a", opp.ID)
	assert.Equal(t, types.UrgencyImmediate, opp.Urgency)
}

func TestGetOpportunity_Unknown(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodGet, "/api/opportunities/zzzzzz", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnrichOpportunity(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{jsonReply: `{
		"enrichment_version": "2.0",
		"processed_at": "2024-08-01T12:00:00Z",
		"gig_category": "Handyman",
		"value_score": 80
	}`})

	rec := doJSON(t, srv, http.MethodPost, "/api/opportunities/1f3k9a/enrich", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var enriched types.EnrichedOpportunity
	decodeBody(t, rec, &enriched)
	assert.Equal(t, "2.0", enriched.EnrichmentVersion)
	require.NotNil(t, enriched.GigCategory)
	assert.Equal(t, "Handyman", *enriched.GigCategory)
}

// blockingClient counts GenerateJSON calls and holds them until released.
type blockingClient struct {
	scriptedClient
	started   chan struct{}
	release   chan struct{}
	startOnce sync.Once
	calls     atomic.Int32
}

func (c *blockingClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	c.calls.Add(1)
	c.startOnce.Do(func() { close(c.started) })
	<-c.release
	return c.scriptedClient.GenerateJSON(ctx, prompt, tier)
}

func TestEnrichOpportunity_ConcurrentRequestsShareOneCall(t *testing.T) {
	client := &blockingClient{
		scriptedClient: scriptedClient{jsonReply: `{
			"enrichment_version": "2.0",
			"processed_at": "2024-08-01T12:00:00Z"
		}`},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	srv := newTestServer(t, client)

	var wg sync.WaitGroup
	codes := make([]int, 3)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := doJSON(t, srv, http.MethodPost, "/api/opportunities/1f3k9a/enrich", nil)
			codes[i] = rec.Code
		}(i)
	}

	// Wait for the first call to reach the model, give the rest time to
	// pile onto the same flight, then let it finish.
	<-client.started
	time.Sleep(50 * time.Millisecond)
	close(client.release)
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, int32(1), client.calls.Load(), "duplicate requests must share one model call")
}

// cancelableClient blocks in the model call and fails it if the context
// it was given is canceled first.
type cancelableClient struct {
	scriptedClient
	started   chan struct{}
	release   chan struct{}
	startOnce sync.Once
}

func (c *cancelableClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	c.startOnce.Do(func() { close(c.started) })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.release:
	}
	return c.scriptedClient.GenerateJSON(ctx, prompt, tier)
}

func TestEnrichOpportunity_StarterDisconnectDoesNotFailSharedCall(t *testing.T) {
	client := &cancelableClient{
		scriptedClient: scriptedClient{jsonReply: `{
			"enrichment_version": "2.0",
			"processed_at": "2024-08-01T12:00:00Z"
		}`},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	srv := newTestServer(t, client)

	// First client starts the flight, then goes away
	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		req := httptest.NewRequest(http.MethodPost, "/api/opportunities/1f3k9a/enrich", nil).WithContext(firstCtx)
		srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}()
	<-client.started

	// Second client joins the same flight
	secondRec := httptest.NewRecorder()
	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		req := httptest.NewRequest(http.MethodPost, "/api/opportunities/1f3k9a/enrich", nil)
		srv.Handler().ServeHTTP(secondRec, req)
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	time.Sleep(50 * time.Millisecond)
	close(client.release)
	<-firstDone
	<-secondDone

	// The surviving client still gets the enrichment
	assert.Equal(t, http.StatusOK, secondRec.Code,
		"one caller leaving must not fail the shared call: %s", secondRec.Body.String())

	var enriched types.EnrichedOpportunity
	require.NoError(t, json.Unmarshal(secondRec.Body.Bytes(), &enriched))
	assert.Equal(t, "2.0", enriched.EnrichmentVersion)
}

func TestEnrichOpportunity_UpstreamFailureIs502(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{err: errors.New("quota exceeded")})

	rec := doJSON(t, srv, http.MethodPost, "/api/opportunities/1f3k9a/enrich", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEnrichOpportunity_UnknownIDIs404(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodPost, "/api/opportunities/zzzzzz/enrich", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftResponse(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{jsonReply: `{
		"formal": "Good afternoon, I can help with your pipe repair.",
		"casual": "Hey! I can come fix that pipe today.",
		"recommended_tone": "casual"
	}`})

	rec := doJSON(t, srv, http.MethodPost, "/api/opportunities/1f3k9a/draft",
		map[string]string{"user_skills": "Plumbing, Handyman"})
	require.Equal(t, http.StatusOK, rec.Code)

	var draft types.DraftedResponse
	decodeBody(t, rec, &draft)
	assert.Equal(t, "casual", draft.RecommendedTone)
}

func TestDraftResponse_ModelFailureStillReturns200(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{err: errors.New("network down")})

	rec := doJSON(t, srv, http.MethodPost, "/api/opportunities/1f3k9a/draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var draft types.DraftedResponse
	decodeBody(t, rec, &draft)
	assert.NotEmpty(t, draft.Formal)
	assert.Equal(t, types.ToneFormal, draft.RecommendedTone)
}

func TestAnalyzeImage(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{textReply: "A water-damaged ceiling."})

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze-image", map[string]string{
		"prompt":       "What damage is shown?",
		"image_base64": base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8}),
		"mime_type":    "image/jpeg",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "A water-damaged ceiling.", body["text"])
}

func TestAnalyzeImage_MissingFieldsRejected(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze-image", map[string]string{
		"prompt": "What is this?",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeImage_BadBase64Rejected(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze-image", map[string]string{
		"prompt":       "What is this?",
		"image_base64": "not-base64!!!",
		"mime_type":    "image/png",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateImage(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{
		imageBlob: &llm.ImageBlob{MIMEType: "image/jpeg", Data: []byte("fakejpeg")},
	})

	rec := doJSON(t, srv, http.MethodPost, "/api/generate-image",
		map[string]string{"prompt": "logo for a lawn care business"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["image_url"], "data:image/jpeg;base64,")
}

func TestGenerateImage_FailureYieldsEmptyURL(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{err: errors.New("quota")})

	rec := doJSON(t, srv, http.MethodPost, "/api/generate-image",
		map[string]string{"prompt": "logo"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Empty(t, body["image_url"])
}

func TestChatFlow(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{chatReply: "Check the Opportunities tab."})

	// Create a session
	rec := doJSON(t, srv, http.MethodPost, "/api/chat/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	decodeBody(t, rec, &created)
	id := created["session_id"]
	require.NotEmpty(t, id)

	// First message on a fresh session yields exactly one reply
	rec = doJSON(t, srv, http.MethodPost, "/api/chat/sessions/"+id+"/messages",
		map[string]string{"message": "where do I find gigs?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply map[string]string
	decodeBody(t, rec, &reply)
	assert.Equal(t, "Check the Opportunities tab.", reply["reply"])

	// Both turns are now on the transcript
	history, err := srv.sessions.History(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, types.RoleModel, history[1].Role)

	// Reset drops the transcript
	rec = doJSON(t, srv, http.MethodDelete, "/api/chat/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = srv.sessions.History(context.Background(), id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestDraftResponse_ChunkedBodyKeepsSkills(t *testing.T) {
	client := &scriptedClient{jsonReply: `{
		"formal": "a", "casual": "b", "recommended_tone": "formal"
	}`}
	srv := newTestServer(t, client)

	// A reader of unknown length makes ContentLength -1, as a chunked
	// upload would
	body := struct{ io.Reader }{strings.NewReader(`{"user_skills": "Tile work"}`)}
	req := httptest.NewRequest(http.MethodPost, "/api/opportunities/1f3k9a/draft", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, client.jsonPrompt(), "Tile work")
}

func TestResetChatSession_ReleasesSessionLock(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{chatReply: "hi"})

	rec := doJSON(t, srv, http.MethodPost, "/api/chat/sessions/abc/messages",
		map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	_, held := srv.sessionLocks.Load("abc")
	require.True(t, held)

	rec = doJSON(t, srv, http.MethodDelete, "/api/chat/sessions/abc", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, held = srv.sessionLocks.Load("abc")
	assert.False(t, held, "reset must drop the per-session mutex")
}

func TestClose_Idempotent(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	srv.Close()
	srv.Close() // second call must not panic
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{})

	rec := doJSON(t, srv, http.MethodPost, "/api/chat/sessions/abc/messages",
		map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiscoveryMapReport(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{jsonReply: `{
		"discovery_map_version": "2.0",
		"last_updated": "2024-08-01T12:00:00Z",
		"market_area": "Minneapolis-St. Paul Metro",
		"data_sources": {},
		"keyword_intelligence": {},
		"filtering_rules": {},
		"implementation_roadmap": []
	}`})

	rec := doJSON(t, srv, http.MethodPost, "/api/reports/discovery-map", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report types.DiscoveryMapData
	decodeBody(t, rec, &report)
	assert.Equal(t, "Minneapolis-St. Paul Metro", report.MarketArea)
}

func TestDesignSystemReport(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{textReply: "# Design System\n\n## Colors"})

	rec := doJSON(t, srv, http.MethodPost, "/api/reports/design-system", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["markdown"], "# Design System")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrOpportunityNotFound{ID: "x"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "body"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&gateway.InputError{Field: "prompt"}))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(&gateway.APICallError{Message: "x"}))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(&gateway.ParseError{Message: "x"}))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(&gateway.SchemaError{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("other")))
}
