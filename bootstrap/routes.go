package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/gourde/errors"
	"github.com/kbukum/gourde/server/endpoint"
)

// Built-in route paths.
const (
	PathStatus  = "/"
	PathHealthy = "/-/healthy"
	PathReady   = "/-/ready"
	PathFavicon = "/favicon.ico"
)

// RouteHandler produces a plain-text body and a status code.
type RouteHandler = endpoint.TextHandler

// Route describes a route registered through the App.
type Route struct {
	Path string
	Name string
}

// AddRoute registers a GET route under a unique name. A duplicate name
// returns an errors.ErrCodeRouteConflict error; a duplicate path is
// rejected by gin itself.
func (a *App) AddRoute(path, name string, h RouteHandler) error {
	return a.addRoute(path, name, endpoint.Text(h))
}

// Routes returns the routes registered through the App, in order.
func (a *App) Routes() []Route {
	a.routesMu.Lock()
	defer a.routesMu.Unlock()
	out := make([]Route, len(a.routes))
	copy(out, a.routes)
	return out
}

func (a *App) addRoute(path, name string, h gin.HandlerFunc) error {
	a.routesMu.Lock()
	defer a.routesMu.Unlock()
	if a.names[name] {
		return errors.RouteConflict(name)
	}
	a.engine.GET(path, h)
	a.names[name] = true
	a.routes = append(a.routes, Route{Path: path, Name: name})
	return nil
}

func (a *App) registerDefaultRoutes() error {
	if err := a.AddRoute(PathStatus, "status", endpoint.Status); err != nil {
		return err
	}
	if err := a.AddRoute(PathHealthy, "health", a.probeHandler(endpoint.Liveness, a.opts.probes.IsHealthy)); err != nil {
		return err
	}
	if err := a.AddRoute(PathReady, "ready", a.probeHandler(endpoint.Readiness, a.opts.probes.IsReady)); err != nil {
		return err
	}
	if a.opts.staticDir != "" {
		return a.addRoute(PathFavicon, "favicon", endpoint.Favicon(a.opts.staticDir))
	}
	return nil
}
