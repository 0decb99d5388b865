package routes

import (
	"context"
	"time"

	"room-scheduler/internal/adapters/http/handlers"
	"room-scheduler/internal/adapters/http/middleware"
	"room-scheduler/internal/adapters/persistence/repositories"
	"room-scheduler/internal/config"
	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/core/services"
	"room-scheduler/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// calendarMaxAge is how long browsers may reuse calendar responses
const calendarMaxAge = time.Minute

// Setup configures all routes for the application. The returned cache is
// owned by the caller, which starts and stops its background refresher.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, log *zap.Logger) *services.RowCache {
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now

	// Schedule source
	source, ping := newScheduleSource(db, cfg)
	rowCache := services.NewRowCache(source, now, log.Named("rows"))

	// Initialize services
	projector := services.NewScheduleProjector(services.ProjectorConfig{
		Horizon:   cfg.Calendar.Horizon,
		Location:  cfg.Calendar.Location,
		TermStart: cfg.Calendar.TermStart,
	}, now, log.Named("projector"))
	expander := services.NewRecurrenceExpander(cfg.Calendar.Location)
	calendarService := services.NewCalendarService(rowCache, projector, expander, log.Named("calendar"))

	dashboard := services.DashboardRoutes()
	authorizer := services.NewRouteAuthorizer(roleHomes(cfg, dashboard, log), now, log.Named("auth"))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, rowCache, ping)
	sessionHandler := handlers.NewSessionHandler(authorizer, dashboard, cfg.Cookie, now)
	calendarHandler := handlers.NewCalendarHandler(calendarService, cfg.Calendar.Location, now)
	pageHandler := handlers.NewPageHandler(cfg.Web.IndexFile)

	// Health check & status routes
	app.Get("/status", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authorizer, sessionHandler, calendarHandler, cfg)

	// Dashboard pages
	setupPageRoutes(app, authorizer, dashboard, pageHandler, cfg)

	return rowCache
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	authorizer *services.RouteAuthorizer,
	sessionHandler *handlers.SessionHandler,
	calendarHandler *handlers.CalendarHandler,
	cfg *config.Config,
) {
	auth := middleware.AuthMiddleware(authorizer, cfg.Cookie)

	// Navigation decisions (public, the decision itself reports the state)
	router.Get("/navigation", middleware.NoCacheHeaders(), sessionHandler.Navigation)

	// Session routes
	sessionRoutes := router.Group("/session", middleware.AuthRateLimiter(), middleware.NoCacheHeaders())
	sessionRoutes.Post("/", sessionHandler.Login)
	sessionRoutes.Post("/logout", sessionHandler.Logout)

	router.Get("/me", middleware.NoCacheHeaders(), auth, sessionHandler.Me)

	// Schedule routes (admin and lecturer)
	scheduleRoutes := router.Group("/schedule", auth, middleware.StaffOnly())
	setupScheduleRoutes(scheduleRoutes, calendarHandler)

	// API paths never fall through to the dashboard pages
	router.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}

// setupScheduleRoutes configures calendar feed routes
func setupScheduleRoutes(router fiber.Router, handler *handlers.CalendarHandler) {
	cached := router.Group("", middleware.PrivateCacheHeaders(calendarMaxAge), etag.New())
	cached.Get("/majors", handler.Majors)
	cached.Get("/calendar/:major", handler.Occurrences)
	cached.Get("/calendar/:major/instances", handler.Instances)

	// Admin only
	router.Post("/refresh", middleware.AdminOnly(), middleware.NoCacheHeaders(), handler.Refresh)
}

// setupPageRoutes puts every dashboard page behind RouteGuard. The root
// path and unknown pages fall through to the guard, which sends signed-in
// users to their role home.
func setupPageRoutes(
	app *fiber.App,
	authorizer *services.RouteAuthorizer,
	table *services.RoutePolicyTable,
	handler *handlers.PageHandler,
	cfg *config.Config,
) {
	guard := middleware.RouteGuard(authorizer, table, cfg.Cookie)

	for _, rule := range table.Rules() {
		app.Get(rule.Pattern, guard, handler.Page)
	}
	app.Get("/", guard, handler.Page)
	app.Get("/*", guard, handler.Page)
}

// newScheduleSource picks the configured row source and its health probe
func newScheduleSource(db *gorm.DB, cfg *config.Config) (services.ScheduleSource, func(ctx context.Context) error) {
	if cfg.Schedule.Source == "db" && db != nil {
		source := services.NewRepositoryScheduleSource(repositories.NewScheduleRepository(db))
		return source, source.Ping
	}

	source := services.NewAPIScheduleSource(cfg.Schedule.APIURL, nil)
	return source, source.Ping
}

func roleHomes(cfg *config.Config, table *services.RoutePolicyTable, log *zap.Logger) services.RoleHomes {
	fallback := cfg.Web.RoleHomeDefault
	if fallback == "" {
		fallback = services.DefaultFallbackHome
	}
	homes := services.NewRoleHomes(map[domain.Role]string{
		domain.RoleAdmin:    "/home",
		domain.RoleLecturer: "/schedule/calendar",
	}, fallback)

	if err := homes.Validate(table); err != nil {
		log.Warn("role home rejected, using default", zap.Error(err))
		return services.DefaultRoleHomes()
	}
	return homes
}
