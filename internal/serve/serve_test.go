package serve_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/activation"
	"github.com/fern-ml/fern/internal/network"
	"github.com/fern-ml/fern/internal/serve"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testRouter serves a 2→2→1 sigmoid network with fixed weights.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	hidden, err := network.NewLayerFromParams(
		mat.NewDense(2, 2, []float64{0.8, -0.7, -0.6, 0.9}),
		mat.NewVecDense(2, []float64{0.1, -0.1}),
		activation.Sigmoid{},
	)
	require.NoError(t, err)
	out, err := network.NewLayerFromParams(
		mat.NewDense(2, 1, []float64{0.5, -0.4}),
		mat.NewVecDense(1, []float64{0.2}),
		activation.Sigmoid{},
	)
	require.NoError(t, err)
	net, err := network.New(hidden, out)
	require.NoError(t, err)

	router := gin.New()
	serve.RegisterRoutes(router, serve.NewService(net))
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := do(t, router, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status serve.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 2, status.Depth)
	assert.Equal(t, 2, status.InputWidth)
	assert.Equal(t, 1, status.OutputWidth)
	assert.Equal(t, []string{"Sigmoid", "Sigmoid"}, status.Activations)
}

func TestQueryEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := do(t, router, http.MethodPost, "/query", map[string]any{"input": []float64{1, 0}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Output []float64 `json:"output"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Output, 1)

	// Hand-rolled forward pass of the fixed test network.
	sig := func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
	h0 := sig(0.8*1 + -0.6*0 + 0.1)
	h1 := sig(-0.7*1 + 0.9*0 + -0.1)
	want := sig(0.5*h0 + -0.4*h1 + 0.2)
	assert.InDelta(t, want, resp.Output[0], 1e-12)
}

func TestQueryEndpoint_BadRequests(t *testing.T) {
	router := testRouter(t)

	rec := do(t, router, http.MethodPost, "/query", map[string]any{"input": []float64{1, 0, 1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "width mismatch")

	rec = do(t, router, http.MethodPost, "/query", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing input")

	// An empty slice passes the required binding but carries no values.
	rec = do(t, router, http.MethodPost, "/query", map[string]any{"input": []float64{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty input")
}

func TestTrainEndpoint(t *testing.T) {
	router := testRouter(t)

	xor := []map[string]any{
		{"input": []float64{0, 0}, "expected": []float64{0}},
		{"input": []float64{0, 1}, "expected": []float64{1}},
		{"input": []float64{1, 0}, "expected": []float64{1}},
		{"input": []float64{1, 1}, "expected": []float64{0}},
	}
	body := map[string]any{
		"examples":      xor,
		"epochs":        200,
		"learning_rate": 0.5,
		"momentum":      0.9,
	}

	rec := do(t, router, http.MethodPost, "/train", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var first struct {
		MeanCost float64 `json:"mean_cost"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Greater(t, first.MeanCost, 0.0)

	// Training the same data again continues from the updated weights, so
	// the cost keeps falling.
	rec = do(t, router, http.MethodPost, "/train", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		MeanCost float64 `json:"mean_cost"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Less(t, second.MeanCost, first.MeanCost)
}

func TestTrainEndpoint_BadRequests(t *testing.T) {
	router := testRouter(t)

	rec := do(t, router, http.MethodPost, "/train", map[string]any{"epochs": 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing examples")

	rec = do(t, router, http.MethodPost, "/train", map[string]any{
		"examples": []map[string]any{{"input": []float64{0}, "expected": []float64{0}}},
		"epochs":   10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "width mismatch")

	rec = do(t, router, http.MethodPost, "/train", map[string]any{
		"examples": []map[string]any{{"input": []float64{}, "expected": []float64{}}},
		"epochs":   10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty example")
}

func TestCheckpointEndpoints(t *testing.T) {
	router := testRouter(t)
	path := filepath.Join(t.TempDir(), "served.fern")

	rec := do(t, router, http.MethodPost, "/checkpoint/save", map[string]any{"path": path})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/checkpoint/load", map[string]any{"path": path})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The reloaded network still answers queries.
	rec = do(t, router, http.MethodPost, "/query", map[string]any{"input": []float64{1, 1}})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/checkpoint/load", map[string]any{"path": filepath.Join(t.TempDir(), "missing.fern")})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
