package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/httpresp"
	"github.com/pawfectpets/pawfect-api/internal/metrics"
	"github.com/pawfectpets/pawfect-api/internal/usecase/guide"
)

type GuideHandler struct {
	generate *guide.GenerateGuide
	metrics  *metrics.Metrics
}

func NewGuideHandler(generate *guide.GenerateGuide, m *metrics.Metrics) *GuideHandler {
	return &GuideHandler{generate: generate, metrics: m}
}

func (h *GuideHandler) Generate(c *gin.Context) {
	var profile guide.PetProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		httperr.Invalid(c, err)
		return
	}

	text, err := h.generate.Execute(c.Request.Context(), profile)
	if err != nil {
		h.metrics.GuidesGenerated.WithLabelValues("error").Inc()
		httperr.Respond(c, err)
		return
	}

	h.metrics.GuidesGenerated.WithLabelValues("ok").Inc()
	httpresp.OK(c, gin.H{"guide": text})
}
