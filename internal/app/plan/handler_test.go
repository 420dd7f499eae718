package plan

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(NewRepository(newTestDB(t)), nil, &recordingNotifier{}, zap.NewNop())
	engine := gin.New()
	RegisterRoutes(engine.Group("/api"), NewHandler(svc))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createVia(t *testing.T, engine *gin.Engine, board string, body map[string]interface{}) Plan {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/boards/"+board+"/plans", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestHandler_CreateAndList(t *testing.T) {
	engine := newTestRouter(t)

	createVia(t, engine, "itxi", map[string]interface{}{"title": "Casa rural", "location": "Asturias", "est_cost": 250})
	createVia(t, engine, "itxi", map[string]interface{}{"title": "Concierto", "status": "planned"})
	createVia(t, engine, "other", map[string]interface{}{"title": "Not mine"})

	w := doJSON(t, engine, http.MethodGet, "/api/boards/itxi/plans?q=asturias", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plans, 1)
	assert.Equal(t, "Casa rural", resp.Plans[0].Title)
	assert.Equal(t, Counts{All: 2, Wishlist: 1, Planned: 1}, resp.Counts)
}

func TestHandler_ListRejectsUnknownStatus(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/boards/itxi/plans?status=later", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CreateRejectsBlankTitle(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/boards/itxi/plans", map[string]interface{}{"title": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrEmptyTitle.Error(), resp.Error)
}

func TestHandler_CreateRejectsUnknownStatus(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/boards/itxi/plans", map[string]interface{}{"title": "x", "status": "someday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateStatusAndDelete(t *testing.T) {
	engine := newTestRouter(t)
	p := createVia(t, engine, "itxi", map[string]interface{}{"title": "Lisboa"})

	w := doJSON(t, engine, http.MethodPatch, "/api/plans/"+p.ID+"/status", map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code)
	var got Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, StatusDone, got.Status)

	w = doJSON(t, engine, http.MethodPut, "/api/plans/"+p.ID, map[string]interface{}{"title": "Lisboa y Oporto", "priority": 1, "status": "planned"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Lisboa y Oporto", got.Title)
	assert.Equal(t, StatusPlanned, got.Status)

	w = doJSON(t, engine, http.MethodDelete, "/api/plans/"+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/plans/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_UnknownPlan(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPatch, "/api/plans/nope/status", map[string]string{"status": "done"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/api/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
