package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/folio-reader/folio/internal/profile"
	"github.com/folio-reader/folio/store"
)

const playText = "ACT I\nSCENE I\n\nEnter ROMEO and BENVOLIO\n\nBENVOLIO.\nWhy, Romeo, art thou mad?\n\nROMEO.\nBut soft, what light through yonder window breaks?\nIt is the east, and Juliet is the sun.\nArise, fair sun, and kill the envious moon.\n"

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	p := &profile.Profile{Mode: "dev", Driver: "sqlite", Port: 8081}
	st := store.New(newFakeDriver(), p)
	t.Cleanup(func() { _ = st.Close() })

	service, err := NewAPIV1Service(p, st)
	require.NoError(t, err)

	e := echo.New()
	service.Register(e)
	return service, e
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(buf))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func ingestPlay(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents", CreateDocumentRequest{
		Title:   "Romeo and Juliet",
		Author:  "William Shakespeare",
		Format:  "plain",
		Content: playText,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[Document](t, rec).UID
}

func openSession(t *testing.T, e *echo.Echo, documentUID string) string {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{DocumentUID: documentUID})
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[ReaderSession](t, rec).UID
}

func TestDocumentLifecycle(t *testing.T) {
	_, e := newTestService(t)

	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]Document](t, rec)
	require.Len(t, list, 1)
	require.Empty(t, list[0].Text)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"?text=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[Document](t, rec)
	require.Equal(t, "Romeo and Juliet", doc.Title)
	require.Contains(t, doc.Text, "yonder window")

	rec = doJSON(t, e, http.MethodDelete, "/api/v1/documents/"+uid, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateDocumentRejectsEmptyContent(t *testing.T) {
	_, e := newTestService(t)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents", CreateDocumentRequest{Title: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveSelectionExact(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents/"+uid+"/selection", ResolveSelectionRequest{
		Candidate: "what light through yonder window breaks",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ResolveSelectionResponse](t, rec)
	require.True(t, resp.Found)
	require.Equal(t, "what light through yonder window breaks", resp.SelectedText)
}

func TestResolveSelectionMissIs200(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents/"+uid+"/selection", ResolveSelectionRequest{
		Candidate: "no such passage anywhere",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decode[ResolveSelectionResponse](t, rec).Found)
}

func TestResolveSelectionPersistsToSession(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)
	sessionUID := openSession(t, e, uid)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents/"+uid+"/selection?session="+sessionUID, ResolveSelectionRequest{
		Candidate: "Juliet is the sun",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/sessions/"+sessionUID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Juliet is the sun", decode[ReaderSession](t, rec).SelectionText)
}

func TestExtractContextFromCandidate(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents/"+uid+"/context", ExtractContextRequest{
		Candidate: "Juliet is the sun",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ExtractContextResponse](t, rec)
	require.True(t, resp.Found)
	require.Equal(t, "I", resp.Context.Act)
	require.Equal(t, "I", resp.Context.Scene)
	require.Equal(t, "ROMEO", resp.Context.Speaker)
	require.Contains(t, resp.Context.CharactersOnStage, "ROMEO")
	require.Contains(t, resp.Context.CharactersOnStage, "BENVOLIO")
	require.Equal(t, "Romeo and Juliet", resp.Context.BookTitle)
}

func TestExplainWithoutProviderIs503(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents/"+uid+"/explain", ExtractContextRequest{
		Candidate: "Juliet is the sun",
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearchPersistsSessionState(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)
	sessionUID := openSession(t, e, uid)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/search?q=sun&session="+sessionUID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SearchResponse](t, rec)
	require.Equal(t, 2, resp.Total)
	require.Equal(t, 0, resp.CurrentIndex)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/sessions/"+sessionUID, nil)
	session := decode[ReaderSession](t, rec)
	require.Equal(t, "sun", session.SearchQuery)
	require.Equal(t, int32(0), session.CurrentIndex)

	// A new query replaces the old state wholesale.
	rec = doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/search?q=nothinghere&session="+sessionUID, nil)
	resp = decode[SearchResponse](t, rec)
	require.Equal(t, 0, resp.Total)
	require.Equal(t, -1, resp.CurrentIndex)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/sessions/"+sessionUID, nil)
	session = decode[ReaderSession](t, rec)
	require.Equal(t, "nothinghere", session.SearchQuery)
	require.Equal(t, int32(-1), session.CurrentIndex)
}

func TestNavigateWrapsAroundMatches(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)
	sessionUID := openSession(t, e, uid)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/search?q=sun&session="+sessionUID, nil)
	require.Equal(t, 2, decode[SearchResponse](t, rec).Total)

	next := func() NavigateResponse {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/sessions/"+sessionUID+"/navigate", NavigateRequest{Direction: "next"})
		require.Equal(t, http.StatusOK, rec.Code)
		return decode[NavigateResponse](t, rec)
	}

	require.Equal(t, 1, next().CurrentIndex)
	require.Equal(t, 0, next().CurrentIndex)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/sessions/"+sessionUID+"/navigate", NavigateRequest{Direction: "prev"})
	require.Equal(t, 1, decode[NavigateResponse](t, rec).CurrentIndex)
}

func TestNavigateWithoutMatchesStaysParked(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)
	sessionUID := openSession(t, e, uid)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/sessions/"+sessionUID+"/navigate", NavigateRequest{Direction: "next"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[NavigateResponse](t, rec)
	require.Equal(t, -1, resp.CurrentIndex)
	require.Nil(t, resp.Span)
}

func TestNavigateRejectsUnknownDirection(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)
	sessionUID := openSession(t, e, uid)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/sessions/"+sessionUID+"/navigate", NavigateRequest{Direction: "sideways"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type highlightResponse struct {
	Segments []struct {
		Text        string `json:"text"`
		Highlighted bool   `json:"highlighted"`
		IsCurrent   bool   `json:"isCurrent"`
	} `json:"segments"`
}

func TestRenderHighlightsSearchWinsOverSelection(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)
	sessionUID := openSession(t, e, uid)

	doJSON(t, e, http.MethodPost, "/api/v1/documents/"+uid+"/selection?session="+sessionUID, ResolveSelectionRequest{
		Candidate: "envious moon",
	})
	doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/search?q=sun&session="+sessionUID, nil)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/highlight?session="+sessionUID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[highlightResponse](t, rec)

	var highlighted, current int
	for _, seg := range resp.Segments {
		if seg.Highlighted {
			highlighted++
			require.Equal(t, "sun", seg.Text)
		}
		if seg.IsCurrent {
			current++
		}
	}
	require.Equal(t, 2, highlighted)
	require.Equal(t, 1, current)
}

func TestRenderHighlightsSelectionOnly(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)
	sessionUID := openSession(t, e, uid)

	doJSON(t, e, http.MethodPost, "/api/v1/documents/"+uid+"/selection?session="+sessionUID, ResolveSelectionRequest{
		Candidate: "envious moon",
	})

	rec := doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/highlight?session="+sessionUID, nil)
	resp := decode[highlightResponse](t, rec)

	var highlighted []string
	for _, seg := range resp.Segments {
		if seg.Highlighted {
			highlighted = append(highlighted, seg.Text)
		}
	}
	require.Equal(t, []string{"envious moon"}, highlighted)
}

func TestRenderHighlightsWithoutSessionIsPlain(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/highlight", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[highlightResponse](t, rec)
	require.Len(t, resp.Segments, 1)
	require.False(t, resp.Segments[0].Highlighted)
}

func TestBookmarkRoundTrip(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/bookmark", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, decode[Bookmark](t, rec).ScrollPercentage)

	rec = doJSON(t, e, http.MethodPut, "/api/v1/documents/"+uid+"/bookmark", UpsertBookmarkRequest{ScrollPercentage: 42.5})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/documents/"+uid+"/bookmark", nil)
	require.Equal(t, 42.5, decode[Bookmark](t, rec).ScrollPercentage)
}

func TestBookmarkRejectsOutOfRange(t *testing.T) {
	_, e := newTestService(t)
	uid := ingestPlay(t, e)

	rec := doJSON(t, e, http.MethodPut, "/api/v1/documents/"+uid+"/bookmark", UpsertBookmarkRequest{ScrollPercentage: 150})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSessionUnknownDocument(t *testing.T) {
	_, e := newTestService(t)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{DocumentUID: "missing"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
