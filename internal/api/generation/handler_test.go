package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/kazantrip/routegen/app/middleware"
	"github.com/kazantrip/routegen/internal/types"
)

type MockRouteSaver struct {
	mock.Mock
}

func (m *MockRouteSaver) SaveGeneratedRoute(ctx context.Context, userID uuid.UUID, name string, route *types.GeneratedRoute) (*types.Route, error) {
	args := m.Called(ctx, userID, name, route)
	if r := args.Get(0); r != nil {
		return r.(*types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func postGenerate(t *testing.T, handler *Handler, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/routes/generate", bytes.NewReader(payload))
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), appMiddleware.UserIDKey, userID))
	}
	rec := httptest.NewRecorder()
	handler.GenerateRoute(rec, req)
	return rec
}

func TestGenerateRouteHandler(t *testing.T) {
	pool := testPool()

	t.Run("returns the generated route", func(t *testing.T) {
		handler := NewHandler(newTestService(pool, nil), nil, testLogger())
		rec := postGenerate(t, handler, GenerateRouteRequest{
			Preference: types.Preference{TargetDuration: 300},
		}, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp GenerateRouteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Route.Stops)
		assert.Equal(t, types.ModeAlgorithmic, resp.Route.Mode)
		assert.Nil(t, resp.SavedID)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		handler := NewHandler(newTestService(pool, nil), nil, testLogger())
		rec := postGenerate(t, handler, GenerateRouteRequest{
			Preference: types.Preference{TargetDuration: -1},
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps an empty filtered pool to 404", func(t *testing.T) {
		handler := NewHandler(newTestService(pool, nil), nil, testLogger())
		rec := postGenerate(t, handler, GenerateRouteRequest{
			Preference: types.Preference{TargetDuration: 300, Categories: []string{"nightlife"}},
		}, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		handler := NewHandler(newTestService(pool, nil), nil, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/routes/generate", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		handler.GenerateRoute(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("saving requires an authenticated caller", func(t *testing.T) {
		handler := NewHandler(newTestService(pool, nil), new(MockRouteSaver), testLogger())
		rec := postGenerate(t, handler, GenerateRouteRequest{
			Save:       true,
			Preference: types.Preference{TargetDuration: 300},
		}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("saves for an authenticated caller", func(t *testing.T) {
		userID := uuid.New()
		savedID := uuid.New()
		saver := new(MockRouteSaver)
		saver.On("SaveGeneratedRoute", mock.Anything, userID, "My day", mock.Anything).
			Return(&types.Route{ID: savedID, UserID: userID}, nil)

		handler := NewHandler(newTestService(pool, nil), saver, testLogger())
		rec := postGenerate(t, handler, GenerateRouteRequest{
			Save:       true,
			Name:       "My day",
			Preference: types.Preference{TargetDuration: 300},
		}, userID.String())

		require.Equal(t, http.StatusOK, rec.Code)
		var resp GenerateRouteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.SavedID)
		assert.Equal(t, savedID, *resp.SavedID)
		saver.AssertExpectations(t)
	})
}
