package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lifeexp/domain/indicator"
	"lifeexp/internal/errors"
)

type indicatorJSON struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Column  string  `json:"column"`
	Kind    string  `json:"kind"`
	Group   string  `json:"group"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

type variantJSON struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Ready bool   `json:"ready"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

type schemaJSON struct {
	Variant   string   `json:"variant"`
	Title     string   `json:"title"`
	Model     string   `json:"model"`
	Scaler    string   `json:"scaler"`
	NFeatures int      `json:"n_features"`
	Columns   []string `json:"columns"`
	Encoding  string   `json:"encoding"`
	Unmapped  []string `json:"unmapped"`
	HasCard   bool     `json:"has_model_card"`
}

// PredictRequest is the body of a prediction call. Omitted indicators take
// their control defaults.
type PredictRequest struct {
	Status string             `json:"status"`
	Values map[string]float64 `json:"values"`
}

func (a *App) handleIndicators(w http.ResponseWriter, r *http.Request) {
	out := struct {
		Status     []indicator.Status `json:"status"`
		Indicators []indicatorJSON    `json:"indicators"`
	}{Status: indicator.Statuses()}
	for _, ind := range indicator.Catalog() {
		out.Indicators = append(out.Indicators, indicatorJSON{
			Key:     string(ind.Key),
			Label:   ind.Label,
			Column:  ind.Column,
			Kind:    string(ind.Kind),
			Group:   string(ind.Group),
			Min:     ind.Min,
			Max:     ind.Max,
			Default: ind.Default,
			Step:    ind.Step,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleVariants(w http.ResponseWriter, r *http.Request) {
	var out []variantJSON
	for _, v := range a.container.Variants(r.Context()) {
		item := variantJSON{Name: v.Name, Title: v.Title, Ready: v.Ready}
		if v.Err != nil {
			item.Code = errorCode(v.Err)
			item.Error = v.Err.Error()
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleSchema(w http.ResponseWriter, r *http.Request) {
	svc, err := a.container.Predictor(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	pack := svc.Pack()
	unmapped := svc.Unmapped()
	if unmapped == nil {
		unmapped = []string{}
	}
	writeJSON(w, http.StatusOK, schemaJSON{
		Variant:   pack.Variant,
		Title:     pack.Title,
		Model:     pack.Model.Kind(),
		Scaler:    pack.Scaler.Kind(),
		NFeatures: pack.Model.NumFeatures(),
		Columns:   pack.Schema.Columns(),
		Encoding:  svc.Encoding().String(),
		Unmapped:  unmapped,
		HasCard:   pack.ModelCard != "",
	})
}

func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	svc, err := a.container.Predictor(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req PredictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	// an empty body asks for the defaults
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeAppError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	fields, err := req.fields()
	if err != nil {
		writeAppError(w, err)
		return
	}
	raw, err := indicator.Parse(fields)
	if err != nil {
		writeAppError(w, err)
		return
	}

	prediction, err := svc.Predict(r.Context(), raw)
	if err != nil {
		a.log.Error("prediction failed: %v", err)
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (req PredictRequest) fields() (map[string]string, error) {
	fields := map[string]string{string(indicator.StatusKey): req.Status}
	var unknown []string
	for k, v := range req.Values {
		if _, ok := indicator.Lookup(indicator.Key(k)); !ok {
			unknown = append(unknown, k)
			continue
		}
		fields[k] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Newf(errors.CodeInvalidInput, "unknown indicators: %v", unknown)
	}
	return fields, nil
}

// errorCode is the outermost code, promoting artifact codes buried under
// wrapping so clients see why a variant is unavailable.
func errorCode(err error) string {
	for _, code := range []string{errors.CodeArtifactNotFound, errors.CodeArtifactCorrupt, errors.CodeShapeMismatch} {
		if errors.HasCode(err, code) {
			return code
		}
	}
	return errors.GetCode(err)
}

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeArtifactNotFound, errors.CodeArtifactCorrupt:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeAppError(w http.ResponseWriter, err error) {
	code := errorCode(err)
	writeError(w, statusFor(code), code, err.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
