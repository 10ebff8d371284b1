package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"focusly-api/types"

	"github.com/gin-gonic/gin"
)

// AssistantHandler relays chat messages to the upstream AI service. The
// relay is stateless: conversation history lives in the client, which keeps
// it for a manual retry when the upstream is unavailable.
type AssistantHandler struct {
	client      *http.Client
	upstreamURL string
	apiKey      string
}

func NewAssistantHandler(upstreamURL, apiKey string) *AssistantHandler {
	return &AssistantHandler{
		client:      &http.Client{Timeout: 15 * time.Second},
		upstreamURL: upstreamURL,
		apiKey:      apiKey,
	}
}

func (h *AssistantHandler) relayUnavailable(c *gin.Context) {
	c.JSON(http.StatusBadGateway, types.NewErrorResponse(types.ErrorCodeRelayUnavailable, "AI assistant is unavailable, please try again"))
}

// Ask forwards {message, context} upstream and returns {response}. Any
// upstream failure maps to RELAY_UNAVAILABLE; there is no automatic retry.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "message is required"))
		return
	}
	if h.upstreamURL == "" {
		h.relayUnavailable(c)
		return
	}
	body, err := json.Marshal(gin.H{"message": req.Message, "context": req.Context})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to encode request"))
		return
	}
	upstream, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.upstreamURL, bytes.NewReader(body))
	if err != nil {
		h.relayUnavailable(c)
		return
	}
	upstream.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		upstream.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	resp, err := h.client.Do(upstream)
	if err != nil {
		h.relayUnavailable(c)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		h.relayUnavailable(c)
		return
	}
	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		h.relayUnavailable(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": out.Response})
}
