package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/larsmk/homescout/pkg/chat"
	"github.com/larsmk/homescout/pkg/listings"
	"github.com/larsmk/homescout/pkg/search"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/search/start", h.startSearch)
		api.POST("/search/stop", h.stopSearch)
		api.GET("/search/status", h.searchStatus)
		api.GET("/search/results", h.searchResults)
		api.GET("/search/logs", h.searchLogs)

		api.POST("/criteria", h.saveCriteria)
		api.GET("/criteria", h.loadCriteria)

		api.POST("/properties/save", h.toggleSaved)
		api.GET("/properties/saved", h.listSaved)

		api.POST("/chat/open", h.openChat)
		api.GET("/chat/messages", h.getMessages)
		api.POST("/chat/messages", h.sendMessage)

		api.POST("/drafts", h.openDraft)
		api.GET("/drafts/current", h.currentDraft)
	}
}

func (h *Handler) startSearch(c *gin.Context) {
	var criteria search.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.StartSearch(criteria); err != nil {
		if errors.Is(err, search.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"state": search.StateRunning})
}

func (h *Handler) stopSearch(c *gin.Context) {
	h.Service.StopSearch()
	c.JSON(http.StatusOK, gin.H{"state": search.StateIdle})
}

func (h *Handler) searchStatus(c *gin.Context) {
	status := h.Service.Agent.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"state":              status.State,
		"cycles":             status.Cycles,
		"result_count":       len(status.Results),
		"last_error":         status.LastError,
		"last_error_message": status.LastErrorMsg,
	})
}

func (h *Handler) searchResults(c *gin.Context) {
	results := h.Service.Agent.Snapshot().Results
	if results == nil {
		results = []listings.Property{}
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) searchLogs(c *gin.Context) {
	logs, err := h.Service.RunLogs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []LogEntry{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) saveCriteria(c *gin.Context) {
	var criteria search.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Criteria.Save(c.Request.Context(), search.DefaultCriteriaSlot, criteria); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, criteria)
}

func (h *Handler) loadCriteria(c *gin.Context) {
	criteria, err := h.Service.Criteria.Load(c.Request.Context(), search.DefaultCriteriaSlot)
	if errors.Is(err, search.ErrNoCriteria) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no saved criteria"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, criteria)
}

func (h *Handler) toggleSaved(c *gin.Context) {
	var property listings.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if property.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id is required"})
		return
	}

	saved, err := h.Service.ToggleSaved(c.Request.Context(), property)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": property.ID, "saved": saved})
}

func (h *Handler) listSaved(c *gin.Context) {
	properties := h.Service.Saved.List()
	if properties == nil {
		properties = []listings.Property{}
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) openChat(c *gin.Context) {
	session, err := h.Service.Chat.Open(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Transcript())
}

func (h *Handler) getMessages(c *gin.Context) {
	session := h.Service.Chat.Active()
	if session == nil {
		c.JSON(http.StatusOK, []chat.Turn{})
		return
	}
	c.JSON(http.StatusOK, session.Transcript())
}

type sendMessageRequest struct {
	Content string           `json:"content"`
	File    *chat.FileUpload `json:"file,omitempty"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.Service.Chat.Open(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = session.Send(c.Request.Context(), req.Content, req.File)
	switch {
	case errors.Is(err, chat.ErrEmptySend):
		// Silent no-op: nothing was sent, nothing changed.
		c.Status(http.StatusNoContent)
		return
	case errors.Is(err, chat.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session.Transcript())
}

type openDraftRequest struct {
	Property listings.Property `json:"property"`
	MaxRent  float64           `json:"max_rent"`
	Nuance   string            `json:"nuance"`
}

func (h *Handler) openDraft(c *gin.Context) {
	var req openDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Property.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id is required"})
		return
	}

	draft := h.Service.Drafts.Open(req.Property, req.MaxRent, req.Nuance)
	c.JSON(http.StatusAccepted, draft)
}

func (h *Handler) currentDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Drafts.Current())
}
