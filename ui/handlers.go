package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeexp/app"
	"lifeexp/domain/indicator"
	"lifeexp/internal/errors"
)

type errorPage struct {
	Title   string
	Message string
	Detail  string
}

func (s *Server) renderError(c *gin.Context, status int, title, message string) {
	s.renderTemplate(c, status, "error.html", errorPage{Title: title, Message: message})
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", gin.H{
		"Variants": s.container.Variants(c.Request.Context()),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	variants := gin.H{}
	for _, v := range s.container.Variants(c.Request.Context()) {
		if v.Ready {
			variants[v.Name] = "ready"
		} else {
			variants[v.Name] = errors.GetCode(v.Err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "variants": variants})
}

// predictor resolves the variant in the path, rendering the error page and
// returning nil when it cannot serve predictions.
func (s *Server) predictor(c *gin.Context) *app.PredictionService {
	name := c.Param("name")
	svc, err := s.container.Predictor(c.Request.Context(), name)
	if err == nil {
		return svc
	}

	switch {
	case errors.GetCode(err) == errors.CodeNotFound:
		s.renderError(c, http.StatusNotFound, "Unknown model", "No model variant is called "+name+".")
	case errors.IsArtifactError(err):
		s.renderTemplate(c, http.StatusServiceUnavailable, "error.html", errorPage{
			Title:   "Model unavailable",
			Message: "The " + name + " model could not be loaded. Run the training step (or `lifeexp fixtures`) to produce its artifacts, then restart the server.",
			Detail:  err.Error(),
		})
	default:
		s.log.Error("variant %s: %v", name, err)
		s.renderError(c, http.StatusInternalServerError, "Model unavailable", "The model failed to load.")
	}
	return nil
}

func (s *Server) page(svc *app.PredictionService, raw indicator.RawInput) formPage {
	pack := svc.Pack()
	return formPage{
		Variant:   pack.Variant,
		Title:     pack.Title,
		Status:    string(raw.Status),
		Statuses:  statusOptions(),
		Groups:    formGroups(raw),
		Encoding:  svc.Encoding().String(),
		Unmapped:  svc.Unmapped(),
		ModelCard: pack.ModelCard,
	}
}

func (s *Server) handleForm(c *gin.Context) {
	svc := s.predictor(c)
	if svc == nil {
		return
	}
	s.renderTemplate(c, http.StatusOK, "form.html", s.page(svc, indicator.Defaults()))
}

func (s *Server) handlePredict(c *gin.Context) {
	svc := s.predictor(c)
	if svc == nil {
		return
	}

	fields := make(map[string]string)
	fields[string(indicator.StatusKey)] = c.PostForm(string(indicator.StatusKey))
	for _, ind := range indicator.Catalog() {
		fields[string(ind.Key)] = c.PostForm(string(ind.Key))
	}

	raw, err := indicator.Parse(fields)
	if err != nil {
		page := s.page(svc, indicator.Defaults())
		page.Error = err.Error()
		s.renderTemplate(c, http.StatusBadRequest, "form.html", page)
		return
	}

	page := s.page(svc, raw)
	result, err := svc.Predict(c.Request.Context(), raw)
	if err != nil {
		s.log.Error("prediction failed for %s: %v", page.Variant, err)
		message := "The model could not produce a prediction."
		if errors.HasCode(err, errors.CodeShapeMismatch) {
			message = "The model artifacts do not match each other. Regenerate them with the training step."
		}
		s.renderTemplate(c, http.StatusInternalServerError, "error.html", errorPage{
			Title:   "Prediction failed",
			Message: message,
			Detail:  err.Error(),
		})
		return
	}

	page.Result = result
	page.Vector = vectorRows(result.Vector)
	s.renderTemplate(c, http.StatusOK, "form.html", page)
}
