package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/capitainerie/port-russell/internal/auth"
	"github.com/capitainerie/port-russell/internal/cache"
	"github.com/capitainerie/port-russell/internal/config"
	"github.com/capitainerie/port-russell/internal/http/handlers"
	"github.com/capitainerie/port-russell/internal/http/middlewares"
	"github.com/capitainerie/port-russell/internal/observability"
	"github.com/capitainerie/port-russell/internal/redisclient"
	"github.com/capitainerie/port-russell/internal/repo/memory"
	"github.com/capitainerie/port-russell/internal/repo/postgres"
	"github.com/capitainerie/port-russell/internal/session"
	"github.com/capitainerie/port-russell/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(
	log *slog.Logger,
	cfg config.Config,
	pool *pgxpool.Pool,
	rdb *redisclient.Client,
	reg *prometheus.Registry,
	prom *observability.Prom,
	flash *session.FlashStore,
	jwtManager *auth.Manager,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("port-russell"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.SecurityHeaders())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	}

	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(session.EnsureSession(cfg.SessionTTL, cfg.Env == "prod"))

	r.SetHTMLTemplate(web.Templates())

	// wire up repositories; no database means in-memory stores (dev mode)

	var (
		usersRepo        handlers.UsersStore
		catwaysRepo      handlers.CatwaysStore
		reservationsRepo handlers.ReservationsStore
	)

	if pool != nil {
		usersRepo = postgres.NewUsersRepo(pool, prom)
		catwaysRepo = postgres.NewCatwaysRepo(pool, prom)
		reservationsRepo = postgres.NewReservationsRepo(pool, prom)
	} else {
		memCatways := memory.NewCatwaysRepo()
		usersRepo = memory.NewUsersRepo()
		catwaysRepo = memCatways
		reservationsRepo = memory.NewReservationsRepo(memCatways)
	}

	// auth gate

	gate := middlewares.NewAuthMiddleware(jwtManager)

	if cfg.StrictAuth {
		gate = gate.WithStrictSubjects(usersRepo, cache.New(5*time.Second))
	}

	// health

	pings := map[string]func() error{}

	if pool != nil {
		pings["db"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return pool.Ping(ctx)
		}
	}

	if rdb != nil {
		pings["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return rdb.Ping(ctx)
		}
	}

	h := handlers.NewHealthHandler(pings)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// wire up handlers

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, flash, cfg, log)
	dashboardHandler := handlers.NewDashboardHandler(usersRepo, catwaysRepo, reservationsRepo, flash, log)
	catwaysHandler := handlers.NewCatwaysHandler(catwaysRepo, reservationsRepo)
	docsHandler := handlers.NewDocsHandler()

	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	r.GET("/", authHandler.LoginPage)
	r.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	r.GET("/documentation", docsHandler.Page)

	r.GET("/catways", catwaysHandler.List)
	r.GET("/catways/:catwayNumber", catwaysHandler.Details)
	r.GET("/catways/:catwayNumber/reservations", catwaysHandler.Reservations)
	r.GET("/catways/:catwayNumber/reservations/:reservationId", catwaysHandler.ReservationDetails)

	dash := r.Group("/dashboard")

	// listing and JSON reads are open, every mutation sits behind the gate
	dash.GET("", dashboardHandler.Dashboard)
	dash.GET("/next-catway-number", dashboardHandler.NextCatwayNumber)
	dash.GET("/catway-details/:catwayNumber", dashboardHandler.CatwayDetails)
	dash.GET("/reservation-details/:reservationId", dashboardHandler.ReservationDetails)

	// mutations are limited per authenticated user, falling back to IP
	mutateLimiter := middlewares.NewRateLimiter(60, time.Minute)

	protected := dash.Group("", gate.RequireAuth(), mutateLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	protected.POST("/create-user", dashboardHandler.CreateUser)
	protected.POST("/update-user", dashboardHandler.UpdateUser)
	protected.POST("/delete-user", dashboardHandler.DeleteUser)
	protected.POST("/create-catway", dashboardHandler.CreateCatway)
	protected.POST("/update-catway-state", dashboardHandler.UpdateCatwayState)
	protected.POST("/delete-catway", dashboardHandler.DeleteCatway)
	protected.POST("/save-reservation", dashboardHandler.SaveReservation)
	protected.POST("/delete-reservation", dashboardHandler.DeleteReservation)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"name": "API", "version": "1.0", "status": 404, "message": "not_found"})
	})

	return r
}
