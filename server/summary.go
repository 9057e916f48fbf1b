package server

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// systemPaths are the operational routes every service exposes.
var systemPaths = map[string]bool{
	"/":            true,
	"/-/healthy":   true,
	"/-/ready":     true,
	"/metrics":     true,
	"/favicon.ico": true,
}

// RouteInfo describes one registered route for the startup summary.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
	System  bool
}

// RouteTable discovers every route registered on engine. Application
// routes come first (by path), then system routes.
func RouteTable(engine *gin.Engine) []RouteInfo {
	routes := engine.Routes()

	sort.Slice(routes, func(i, j int) bool {
		iSys := systemPaths[routes[i].Path]
		jSys := systemPaths[routes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})

	table := make([]RouteInfo, 0, len(routes))
	for _, r := range routes {
		table = append(table, RouteInfo{
			Method:  r.Method,
			Path:    r.Path,
			Handler: formatHandlerName(r.Handler),
			System:  systemPaths[r.Path],
		})
	}
	return table
}

// formatHandlerName shortens gin's handler symbol, e.g.
// "example.com/svc/port.(*UserPort).List-fm" becomes "UserPort.List".
// Closures collapse to their enclosing function name.
func formatHandlerName(symbol string) string {
	name := strings.TrimSuffix(symbol, "-fm")
	name = name[strings.LastIndex(name, "/")+1:]
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	if len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}
	if len(parts) > 1 && parts[0] == strings.ToLower(parts[0]) {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

var methodRank = map[string]int{"GET": 0, "POST": 1, "PUT": 2, "PATCH": 3, "DELETE": 4}

// methodOrder sorts GET first and unknown methods last.
func methodOrder(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank)
}
