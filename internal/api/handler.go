// Package api exposes the converter over HTTP: synthesize sermon text,
// browse generated artifacts and manage voice presets.
package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/book-expert/logger"
	"github.com/gin-gonic/gin"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
	"github.com/socarrandinn/tts-text-to-voice/internal/input"
	"github.com/socarrandinn/tts-text-to-voice/internal/library"
	"github.com/socarrandinn/tts-text-to-voice/internal/presets"
	"github.com/socarrandinn/tts-text-to-voice/internal/tts"
)

// Handler wires the HTTP surface to the conversion engine.
type Handler struct {
	engine  *tts.Engine
	library *library.Library
	presets *presets.Store
	log     *logger.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	engine *tts.Engine,
	lib *library.Library,
	store *presets.Store,
	log *logger.Logger,
) *Handler {
	return &Handler{
		engine:  engine,
		library: lib,
		presets: store,
		log:     log,
	}
}

// Register mounts the routes on a gin engine. The audio directory is served
// statically so returned artifact names are directly playable.
func (h *Handler) Register(router *gin.Engine, audioDir string) {
	router.GET("/health", h.HandleHealth)
	router.Static("/audios", audioDir)

	apiGroup := router.Group("/api")
	apiGroup.POST("/synthesize", h.HandleSynthesize)
	apiGroup.GET("/audios", h.HandleListAudios)
	apiGroup.GET("/voices", h.HandleListVoices)
	apiGroup.GET("/presets", h.HandleGetPresets)
	apiGroup.POST("/presets", h.HandleSavePreset)
	apiGroup.POST("/favorites", h.HandleAddFavorite)
}

// -- Request/Response structs --

// SynthesizeRequest is the payload for POST /api/synthesize.
type SynthesizeRequest struct {
	Text   string `json:"text"   binding:"required"`
	Name   string `json:"name"`
	Voice  string `json:"voice"`
	Format string `json:"format"`
	Rate   string `json:"rate"`
	Volume string `json:"volume"`
	Pitch  string `json:"pitch"`
}

// SynthesizeResponse reports the stored artifact.
type SynthesizeResponse struct {
	File string `json:"file"`
	Size int64  `json:"size"`
}

// SavePresetRequest is the payload for POST /api/presets.
type SavePresetRequest struct {
	Name   string         `json:"name" binding:"required"`
	Preset presets.Preset `json:"preset"`
}

// AddFavoriteRequest is the payload for POST /api/favorites.
type AddFavoriteRequest struct {
	Voice string `json:"voice" binding:"required"`
}

// -- Handlers --

// HandleHealth probes the configured backend.
func (h *Handler) HandleHealth(c *gin.Context) {
	err := h.engine.HealthCheck(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleSynthesize converts the submitted text and stores the artifact.
func (h *Handler) HandleSynthesize(c *gin.Context) {
	var req SynthesizeRequest

	bindErr := c.ShouldBindJSON(&req)
	if bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})

		return
	}

	sermon, inputErr := input.FromString(req.Text)
	if inputErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error()})

		return
	}

	opts := h.engine.Options()
	if req.Voice != "" {
		opts.Voice = req.Voice
	}

	if req.Format != "" {
		opts.Format = req.Format
	}

	if req.Rate != "" {
		opts.Rate = req.Rate
	}

	if req.Volume != "" {
		opts.Volume = req.Volume
	}

	if req.Pitch != "" {
		opts.Pitch = req.Pitch
	}

	if req.Name != "" {
		sermon.Source = req.Name
	}

	path, convertErr := h.engine.ConvertSermon(c.Request.Context(), sermon, opts, "")
	if convertErr != nil {
		status := http.StatusBadGateway
		if errors.Is(convertErr, audio.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}

		c.JSON(status, gin.H{"error": convertErr.Error()})

		return
	}

	h.rememberVoice(opts.Voice)

	info, statErr := os.Stat(path)
	if statErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": statErr.Error()})

		return
	}

	c.JSON(http.StatusOK, SynthesizeResponse{File: path, Size: info.Size()})
}

// HandleListAudios lists the generated artifacts, newest first.
func (h *Handler) HandleListAudios(c *gin.Context) {
	artifacts, err := h.library.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if artifacts == nil {
		artifacts = []library.Artifact{}
	}

	c.JSON(http.StatusOK, gin.H{"audios": artifacts})
}

// HandleListVoices enumerates the backend's voices, filtered by the optional
// language and gender query parameters.
func (h *Handler) HandleListVoices(c *gin.Context) {
	voices, err := h.engine.ListVoices(
		c.Request.Context(),
		c.Query("language"),
		c.Query("gender"),
	)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, tts.ErrVoiceListingUnsupported) {
			status = http.StatusNotImplemented
		}

		c.JSON(status, gin.H{"error": err.Error()})

		return
	}

	if voices == nil {
		voices = []core.Voice{}
	}

	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

// HandleGetPresets returns the persistent preset store. A snapshot is
// serialized so concurrent preset writes cannot race the encoder.
func (h *Handler) HandleGetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, h.presets.Snapshot())
}

// HandleSavePreset stores a named preset.
func (h *Handler) HandleSavePreset(c *gin.Context) {
	var req SavePresetRequest

	bindErr := c.ShouldBindJSON(&req)
	if bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})

		return
	}

	h.presets.SetPreset(req.Name, req.Preset)

	saveErr := h.presets.Save()
	if saveErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": saveErr.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": req.Name})
}

// HandleAddFavorite marks a voice as favorite.
func (h *Handler) HandleAddFavorite(c *gin.Context) {
	var req AddFavoriteRequest

	bindErr := c.ShouldBindJSON(&req)
	if bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})

		return
	}

	h.presets.AddFavorite(req.Voice)

	saveErr := h.presets.Save()
	if saveErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": saveErr.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": h.presets.Snapshot().Favorites})
}

// rememberVoice updates the last used voice, best effort.
func (h *Handler) rememberVoice(voice string) {
	h.presets.RememberVoice(voice)

	saveErr := h.presets.Save()
	if saveErr != nil {
		h.log.Warn("Failed to persist last voice: %v", saveErr)
	}
}
