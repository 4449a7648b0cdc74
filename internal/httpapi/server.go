// Package httpapi exposes the storefront glue over HTTP for the web front
// end.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/analytics"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/config"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/guestcart"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/pixel"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/widget"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger reports database health. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps wires the server. Carts and DB are nil in memory mode.
type Deps struct {
	Config    *config.Config
	Log       logrus.FieldLogger
	Sessions  port.SessionStorage
	Carts     port.CartRepository
	Analytics *analytics.Dispatcher
	Pixels    *pixel.Dispatcher
	DB        Pinger
}

type Server struct {
	cfg       *config.Config
	log       logrus.FieldLogger
	carts     port.CartRepository
	analytics *analytics.Dispatcher
	pixels    *pixel.Dispatcher
	db        Pinger
	badge     *widget.Badge

	router *gin.Engine
	server *http.Server
}

func New(deps Deps) *Server {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       deps.Config,
		log:       deps.Log,
		carts:     deps.Carts,
		analytics: deps.Analytics,
		pixels:    deps.Pixels,
		db:        deps.DB,
	}
	s.badge = widget.NewBadge(s.guestCart, deps.Carts, deps.Log)

	router := gin.New()

	router.Use(requestLogger(deps.Log))
	router.Use(recovery(deps.Log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", pagePathHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", s.health)

	v1 := router.Group("/api/v1")
	v1.Use(session(deps.Sessions, deps.Config))
	v1.Use(userIdentity(deps.Config.TrustedProxies, deps.Log))
	{
		cart := v1.Group("/cart")
		{
			cart.GET("", s.getCart)
			cart.DELETE("", s.clearCart)
			cart.POST("/lines", s.addLine)
			cart.PUT("/lines", s.setLineQuantity)
			cart.DELETE("/lines", s.removeLine)
			cart.DELETE("/products/:product_id", s.removeProduct)
			cart.GET("/badge", s.cartBadge)
			cart.POST("/merge", s.mergeCart)
		}

		v1.POST("/pricing/quote", s.quotePrice)
		v1.POST("/events", s.trackEvent)
		v1.GET("/widgets/position", s.widgetPosition)

		seo := v1.Group("/seo")
		{
			seo.GET("/organization", s.seoOrganization)
			seo.GET("/website", s.seoWebSite)
			seo.POST("/product", s.seoProduct)
			seo.POST("/breadcrumbs", s.seoBreadcrumbs)
			seo.POST("/blog-posting", s.seoBlogPosting)
		}
	}

	s.router = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info("Starting server on " + s.cfg.HTTPAddr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) guestCart(kv port.KVStore) port.GuestCartStore {
	return guestcart.New(kv, s.log)
}

func (s *Server) health(c *gin.Context) {
	mode := "memory"
	if s.db != nil {
		mode = "postgres"
		if err := s.db.Ping(c.Request.Context()); err != nil {
			s.log.WithError(err).Error("database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "mode": mode})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"mode":           mode,
		"analytics_sink": s.cfg.AnalyticsSink,
		"pixels":         s.pixels.Trackers(),
	})
}
