package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/internal/config"
	"lifeexp/internal/container"
	"lifeexp/internal/testkit"
)

func newTestApp(t *testing.T, extra ...config.VariantConfig) *App {
	t.Helper()
	root := t.TempDir()
	variants, err := testkit.WriteFixtures(root)
	require.NoError(t, err)
	c, err := container.New(&config.Config{Artifacts: config.ArtifactsConfig{Root: root, Variants: append(variants, extra...)}}, nil)
	require.NoError(t, err)
	return NewApp(c)
}

func call(t *testing.T, a *App, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, r)

	var decoded map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func errorCodeOf(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestPredictDefaults(t *testing.T) {
	a := newTestApp(t)
	w, body := call(t, a, http.MethodPost, "/api/v1/variants/linear/predict", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "linear", body["variant"])
	assert.Equal(t, "71.00 years", body["display"])
	assert.InDelta(t, testkit.DefaultLinearYears, body["years"], 1e-9)

	_, err := uuid.Parse(body["id"].(string))
	assert.NoError(t, err)

	vector := body["vector"].(map[string]interface{})
	assert.Len(t, vector["columns"], len(testkit.TrainingColumns))
	assert.Len(t, vector["values"], len(testkit.TrainingColumns))
}

func TestPredictWithValues(t *testing.T) {
	a := newTestApp(t)
	w, body := call(t, a, http.MethodPost, "/api/v1/variants/forest/predict",
		`{"status":"Developed","values":{"adult_mortality":600,"income":0.3}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, body["years"].(float64), 70.0)
}

func TestPredictRejectsBadInput(t *testing.T) {
	a := newTestApp(t)
	tests := map[string]string{
		"unknown indicator": `{"values":{"life":80}}`,
		"unknown field":     `{"status":"Developing","country":"NZ"}`,
		"bad status":        `{"status":"Emerging"}`,
		"not json":          `status=Developing`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			w, body := call(t, a, http.MethodPost, "/api/v1/variants/linear/predict", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_INPUT", errorCodeOf(body))
		})
	}
}

func TestVariantErrors(t *testing.T) {
	a := newTestApp(t, config.VariantConfig{
		Name: "gbm", Title: "Boosted", Dir: "models3", ModelFile: "gbm.json",
		ScalerFile: config.DefaultScalerFile, ColumnsFile: config.DefaultColumnsFile,
	})

	w, body := call(t, a, http.MethodPost, "/api/v1/variants/gbm/predict", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "ARTIFACT_NOT_FOUND", errorCodeOf(body))

	w, body = call(t, a, http.MethodGet, "/api/v1/variants/svm/schema", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCodeOf(body))

	w, _ = call(t, a, http.MethodGet, "/api/v1/variants", "")
	require.Equal(t, http.StatusOK, w.Code)
	var variants []variantJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &variants))
	require.Len(t, variants, 3)
	assert.True(t, variants[0].Ready)
	assert.False(t, variants[2].Ready)
	assert.Equal(t, "ARTIFACT_NOT_FOUND", variants[2].Code)
}

func TestSchema(t *testing.T) {
	a := newTestApp(t)
	w, _ := call(t, a, http.MethodGet, "/api/v1/variants/forest/schema", "")
	require.Equal(t, http.StatusOK, w.Code)

	var s schemaJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "random_forest", s.Model)
	assert.Equal(t, "standard", s.Scaler)
	assert.Equal(t, "developing-flag", s.Encoding)
	assert.Equal(t, testkit.TrainingColumns, s.Columns)
	assert.Equal(t, []string{"Year", "infant deaths", "Population", "thinness 5-9 years"}, s.Unmapped)
	assert.True(t, s.HasCard)
}

func TestIndicators(t *testing.T) {
	a := newTestApp(t)
	w, body := call(t, a, http.MethodGet, "/api/v1/indicators", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []interface{}{"Developing", "Developed"}, body["status"])
	inds := body["indicators"].([]interface{})
	require.Len(t, inds, 15)
	first := inds[0].(map[string]interface{})
	assert.Equal(t, "income", first["key"])
	assert.Equal(t, "Income composition of resources", first["column"])
}

func TestUnknownRoute(t *testing.T) {
	a := newTestApp(t)
	w, body := call(t, a, http.MethodGet, "/api/v2/things", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCodeOf(body))
}
