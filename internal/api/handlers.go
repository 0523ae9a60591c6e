package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const serviceVersion = "1.0.0"

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "metrics-orchestrator",
		"version": serviceVersion,
		"message": "Service is running",
	})
}

func (s *Server) consolidated(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	snapshot := s.orc.GetConsolidatedData(c.Request.Context(), userID, bearerToken(c))
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) summary(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	summary := s.orc.GetSummaryData(c.Request.Context(), userID, bearerToken(c))
	c.JSON(http.StatusOK, summary)
}

func (s *Server) servicesHealth(c *gin.Context) {
	health := s.orc.CheckServicesHealth(c.Request.Context())
	c.JSON(http.StatusOK, health)
}

// parseUserID reads the optional user_id query parameter. On a malformed
// value it writes the 400 response itself and reports false.
func parseUserID(c *gin.Context) (*int64, bool) {
	raw := strings.TrimSpace(c.Query("user_id"))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "invalid_user_id",
				"message": "user_id must be an integer",
			},
		})
		return nil, false
	}
	return &id, true
}

// bearerToken extracts a forwarded bearer token, if any. It is never
// validated here; authentication is the upstream services' concern.
func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
