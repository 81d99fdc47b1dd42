package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/prasetyowira/qrlink/api/middleware"
	"github.com/prasetyowira/qrlink/constant"
	appLogger "github.com/prasetyowira/qrlink/infrastructure/logger"
	"github.com/prasetyowira/qrlink/infrastructure/ratelimit"
)

// Router represents the application router
type Router struct {
	handler  *Handler
	router   *chi.Mux
	limiter  *ratelimit.Limiter
	username string
	password string
}

// NewRouter creates a new router
func NewRouter(handler *Handler, limiter *ratelimit.Limiter, username, password string) *Router {
	r := chi.NewRouter()

	// Middleware setup
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogger())

	return &Router{
		handler:  handler,
		router:   r,
		limiter:  limiter,
		username: username,
		password: password,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	creds := map[string]string{
		r.username: r.password,
	}
	auth := middleware.BasicAuth("qrlink", creds)

	// Management routes with Basic Auth
	r.router.With(auth).Post(constant.RouteCreateCode, r.handler.CreateCode)
	r.router.With(auth).Get(constant.RouteListCodes, r.handler.ListCodes)
	r.router.With(auth).Get(constant.RouteGetCode, r.handler.GetCode)
	r.router.With(auth).Put(constant.RouteUpdateDestination, r.handler.UpdateDestination)
	r.router.With(auth).Put(constant.RouteUpdateStyle, r.handler.UpdateStyle)
	r.router.With(auth).Delete(constant.RouteDeleteCode, r.handler.DeleteCode)
	r.router.With(auth).Get(constant.RouteExportSVG, r.handler.ExportSVG)
	r.router.With(auth).Get(constant.RouteExportPNG, r.handler.ExportPNG)
	r.router.With(auth).Get(constant.RouteExportPDF, r.handler.ExportPDF)
	r.router.With(auth).Post(constant.RouteValidateURL, r.handler.ValidateURL)

	// Public routes
	r.router.With(appMiddleware.RateLimit(r.limiter)).Get(constant.RouteRedirect, r.handler.Redirect)
	r.router.Get(constant.RouteLinkDisabled, r.handler.LinkDisabled)

	// Healthcheck
	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, r *http.Request) {
		appLogger.CtxDebug(r.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(constant.MsgHealthy))
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
