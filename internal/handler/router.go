package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"parkshare/internal/domain/user"
	"parkshare/internal/handler/api"
	reqdto "parkshare/internal/handler/dto/request"
	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth        *api.AuthHandler
	Resource    *api.ResourceHandler
	Reservation *api.ReservationHandler
}

func NewHandlers(auth *api.AuthHandler, resource *api.ResourceHandler, reservation *api.ReservationHandler) Handlers {
	return Handlers{Auth: auth, Resource: resource, Reservation: reservation}
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) error {
	if err := reqdto.RegisterValidators(); err != nil {
		return err
	}
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
	return nil
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := authMiddleware.RequireAuth()

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
			})

			authRequired := auth.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		resources := apiGroup.Group("/resources")
		{
			addRoutes(resources, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Resource.List},
				{
					Method:  http.MethodGet,
					Path:    "/mine",
					Handler: h.Resource.ListMine,
					Mw:      []gin.HandlerFunc{requireAuth, authMiddleware.RequireRoleAtLeast(user.RoleOwner)},
				},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Resource.Get},
				{Method: http.MethodGet, Path: "/:id/availability", Handler: h.Resource.ListAvailability},
				{
					Method:  http.MethodPost,
					Path:    "",
					Handler: h.Resource.Create,
					Mw:      []gin.HandlerFunc{requireAuth, authMiddleware.RequireRoleAtLeast(user.RoleOwner)},
				},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Resource.Update, Mw: []gin.HandlerFunc{requireAuth}},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Resource.Delete, Mw: []gin.HandlerFunc{requireAuth}},
				{Method: http.MethodPost, Path: "/:id/availability", Handler: h.Resource.AddWindow, Mw: []gin.HandlerFunc{requireAuth}},
				{Method: http.MethodDelete, Path: "/:id/availability/:windowId", Handler: h.Resource.RemoveWindow, Mw: []gin.HandlerFunc{requireAuth}},
				{Method: http.MethodGet, Path: "/:id/reservations", Handler: h.Resource.ListReservations, Mw: []gin.HandlerFunc{requireAuth}},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(requireAuth)
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Reservation.Get},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Reservation.UpdateStatus},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
