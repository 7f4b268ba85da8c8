package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/almoftah/internal/middleware"
	"go.uber.org/zap"
)

// Handlers are the per-entity HTTP handlers.
type Handlers struct {
	Auth      *AuthHandler
	Units     *UnitHandler
	Leads     *LeadHandler
	Contacts  *ContactHandler
	Admins    *AdminHandler
	Chat      *ChatHandler
	Photos    *PhotoHandler
	Dashboard *DashboardHandler
}

// RouterConfig carries the cross-cutting pieces. Metrics, MetricsHandler
// and RateLimiter are optional.
type RouterConfig struct {
	JWTSecret      string
	Admins         middleware.ActiveChecker
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
	HealthChecks   map[string]HealthCheck
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Handler())
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "request_id": middleware.GetRequestID(c)})
	})

	var limited gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimiter != nil {
		limited = cfg.RateLimiter.Handler()
	}

	v1 := r.Group("/v1")

	// Public.
	v1.GET("/health", Health(cfg.HealthChecks, cfg.Logger))
	v1.POST("/auth/signup", limited, h.Auth.Signup)
	v1.POST("/auth/login", limited, h.Auth.Login)
	v1.GET("/properties", limited, h.Units.Search)
	v1.GET("/properties/:id", h.Units.GetPublic)
	v1.GET("/photos/*key", h.Photos.Serve)

	// Any signed-in account. The chat socket is here too: the browser
	// passes its JWT as ?token= because the handshake cannot carry an
	// Authorization header. ChatService decides per chat who may follow it.
	authed := v1.Group("", middleware.AuthMiddleware(cfg.JWTSecret))
	authed.GET("/me", h.Auth.Me)
	authed.GET("/properties/:id/chat", h.Chat.GetForUnit)
	authed.POST("/properties/:id/chat", h.Chat.Send)
	authed.GET("/chats/:id/ws", h.Chat.Subscribe)

	// Active staff. RequireStaff reloads visibility and role from the
	// database on every request, so suspensions and demotions apply
	// before the token expires.
	admin := v1.Group("/admin",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.RequireStaff(cfg.Admins, cfg.Logger),
	)
	admin.GET("/dashboard", h.Dashboard.Get)

	admin.GET("/units", h.Units.List)
	admin.POST("/units", h.Units.Create)
	admin.GET("/units/:id", h.Units.Get)
	admin.PUT("/units/:id", h.Units.Update)
	admin.DELETE("/units/:id", h.Units.Delete)
	admin.POST("/units/:id/share", h.Units.Share)
	admin.POST("/photos", h.Photos.Upload)

	admin.GET("/leads", h.Leads.List)
	admin.POST("/leads", h.Leads.Create)
	admin.GET("/leads/:id", h.Leads.Get)
	admin.PUT("/leads/:id", h.Leads.Update)
	admin.DELETE("/leads/:id", h.Leads.Delete)
	admin.POST("/leads/:id/share", h.Leads.Share)

	admin.GET("/clients", h.Contacts.ListClients)
	admin.POST("/clients", h.Contacts.CreateClient)
	admin.GET("/clients/:id", h.Contacts.GetClient)
	admin.PUT("/clients/:id", h.Contacts.UpdateClient)
	admin.DELETE("/clients/:id", h.Contacts.DeleteClient)
	admin.GET("/clients/:id/units", h.Contacts.ClientUnits)

	admin.GET("/brokers", h.Contacts.ListBrokers)
	admin.POST("/brokers", h.Contacts.CreateBroker)
	admin.GET("/brokers/:id", h.Contacts.GetBroker)
	admin.PUT("/brokers/:id", h.Contacts.UpdateBroker)
	admin.DELETE("/brokers/:id", h.Contacts.DeleteBroker)
	admin.GET("/brokers/:id/units", h.Contacts.BrokerUnits)

	admin.GET("/team", h.Admins.Team)

	admin.GET("/chats", h.Chat.Inbox)
	admin.GET("/chats/:id", h.Chat.Open)
	admin.POST("/chats/:id/reply", h.Chat.Reply)

	// Superadmin, judged by the role RequireStaff loaded, not the token's.
	superadmin := admin.Group("/users", middleware.RequireSuperadmin())
	superadmin.GET("", h.Admins.List)
	superadmin.POST("", h.Admins.Create)
	superadmin.PUT("/:id", h.Admins.Update)
	superadmin.DELETE("/:id", h.Admins.Delete)
	superadmin.PUT("/:id/visibility", h.Admins.SetVisibility)

	return r
}
