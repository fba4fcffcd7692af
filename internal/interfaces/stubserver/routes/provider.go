package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/stubserver/handlers"
)

// Provider wires handler methods to their routes.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{handlers: handlerProvider}
}

// Register registers the API and streaming routes on the engine.
func (p *Provider) Register(engine *gin.Engine) {
	api := engine.Group("/api")
	{
		api.POST("/analyze", p.handlers.Triage.Analyze)
		api.POST("/chat", p.handlers.Triage.Chat)
		api.POST("/risk-assess", p.handlers.Triage.RiskAssess)
		api.GET("/reports/:report_id", p.handlers.Triage.GetReport)

		api.POST("/upload-documents", p.handlers.Knowledge.Upload)
		api.GET("/knowledge/search", p.handlers.Knowledge.Search)
		api.GET("/knowledge/stats", p.handlers.Knowledge.Stats)
	}

	engine.GET("/ws/chat/:session_id", p.handlers.Triage.ChatStream)
}

// RouteProvider provides the route dependencies.
var RouteProvider = wire.NewSet(NewProvider)
