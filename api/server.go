package api

import (
	"github.com/gin-gonic/gin"

	"newsrag/config"
	"newsrag/ingest"
	"newsrag/orchestrator"
	"newsrag/session"
)

// Server holds the dependencies shared by the HTTP controllers.
type Server struct {
	orch     *orchestrator.Orchestrator
	sessions *session.Store
	indexer  *ingest.Indexer
	feedURLs []string
}

// NewServer creates the HTTP server facade.
func NewServer(orch *orchestrator.Orchestrator, sessions *session.Store, indexer *ingest.Indexer, feedURLs []string) *Server {
	return &Server{
		orch:     orch,
		sessions: sessions,
		indexer:  indexer,
		feedURLs: feedURLs,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	s.RegisterNewsRoutes(r)
	s.RegisterQueryRoutes(r)
	s.RegisterSessionRoutes(r)
	RegisterHealthRoutes(r)
	return r
}

// respondError sends the standard failure envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// ensureSession returns the request's session ID, minting one and
// setting the cookie when absent.
func (s *Server) ensureSession(c *gin.Context) string {
	if id, err := c.Cookie(config.SessionCookie); err == nil && id != "" {
		return id
	}
	id := session.NewID()
	c.SetCookie(config.SessionCookie, id, int(config.SessionTTL.Seconds()), "/", "", false, true)
	return id
}
