// Package admin implements the maintenance surface of a durable actor
// instance: inspect, mutate, freeze, export/import and alarm control over a
// narrow storage abstraction, dispatched from a fixed path/method table.
package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wardenproject/warden/internal/metrics"
	"github.com/wardenproject/warden/internal/storage"
)

// AdminKeyHeader carries the caller credential when authentication is
// enabled.
const AdminKeyHeader = "X-Admin-Key"

// DefaultBasePath is used when Config.BasePath is empty.
const DefaultBasePath = "/admin"

// Config is the immutable admin configuration, constructed once for the
// lifetime of the enclosing instance set.
type Config struct {
	// BasePath is the path prefix identifying admin requests.
	BasePath string
	// RequireAuth enables credential checks on every admin request.
	RequireAuth bool
	// AdminKey is compared against the X-Admin-Key header in constant time.
	AdminKey string
	// AdminKeyHash, when set, is a bcrypt hash checked instead of AdminKey.
	AdminKeyHash string
	// AllowBearer additionally accepts HS256 bearer tokens signed with
	// AdminKey, for fleet tools that mint short-lived credentials.
	AllowBearer bool
}

// StoreResolver maps an optional instance-name path segment to that
// instance's store. The empty name selects the default instance.
type StoreResolver interface {
	Resolve(ctx context.Context, name string) (storage.Store, error)
}

// StaticResolver serves one embedded instance regardless of name.
type StaticResolver struct {
	Store storage.Store
}

func (r StaticResolver) Resolve(context.Context, string) (storage.Store, error) {
	return r.Store, nil
}

// EventSink receives freeze lifecycle notifications. Implementations must
// not block the request path.
type EventSink interface {
	Frozen(instance, frozenAt string)
	Unfrozen(instance string)
}

// Handler is the admin router. It holds no per-request state; everything it
// touches beyond Config lives in the instance's store.
type Handler struct {
	cfg    Config
	stores StoreResolver
	events EventSink // optional
}

// New builds the admin router. events may be nil.
func New(cfg Config, stores StoreResolver, events EventSink) *Handler {
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")

	return &Handler{cfg: cfg, stores: stores, events: events}
}

// request bundles what one operation needs: the resolved store, its freeze
// bookkeeping and the instance name for event reporting.
type request struct {
	store    storage.Store
	freeze   *FreezeState
	instance string
}

type opFunc func(h *Handler, c *gin.Context, r request)

type routeKey struct {
	Selector string
	Method   string
}

// routes is the fixed dispatch table. The last path segment selects the
// operation; the first exact (selector, method) match wins.
var routes = map[routeKey]opFunc{
	{"list", http.MethodGet}:      (*Handler).opList,
	{"get", http.MethodGet}:       (*Handler).opGet,
	{"put", http.MethodPost}:      (*Handler).opPut,
	{"delete", http.MethodPost}:   (*Handler).opDelete,
	{"sql", http.MethodPost}:      (*Handler).opSQL,
	{"export", http.MethodGet}:    (*Handler).opExport,
	{"import", http.MethodPost}:   (*Handler).opImport,
	{"alarm", http.MethodGet}:     (*Handler).opAlarmGet,
	{"alarm", http.MethodPut}:     (*Handler).opAlarmSet,
	{"alarm", http.MethodDelete}:  (*Handler).opAlarmDelete,
	{"freeze", http.MethodPut}:    (*Handler).opFreeze,
	{"freeze", http.MethodDelete}: (*Handler).opUnfreeze,
	{"freeze", http.MethodGet}:    (*Handler).opFreezeStatus,
}

// Middleware returns a gin handler that serves admin requests under the
// configured base path and passes every other request through untouched, so
// the enclosing application keeps owning its own routes.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.Matches(c.Request.URL.Path) {
			c.Next()
			return
		}
		h.handle(c)
		c.Abort()
	}
}

// Matches reports whether path addresses the admin surface.
func (h *Handler) Matches(path string) bool {
	if !strings.HasPrefix(path, h.cfg.BasePath) {
		return false
	}
	rest := path[len(h.cfg.BasePath):]

	return rest == "" || strings.HasPrefix(rest, "/")
}

func (h *Handler) handle(c *gin.Context) {
	if !h.authorized(c) {
		metrics.IncAdminUnauthorized()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	suffix := strings.TrimPrefix(c.Request.URL.Path, h.cfg.BasePath)
	segments := splitSegments(suffix)
	if len(segments) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown admin endpoint"})
		return
	}

	// The last segment selects the operation; an optional preceding segment
	// names the instance, for callers multiplexing one admin surface across
	// a fleet. Anything before that is ignored.
	selector := segments[len(segments)-1]
	instance := ""
	if len(segments) >= 2 {
		instance = segments[len(segments)-2]
	}

	op, ok := routes[routeKey{Selector: selector, Method: c.Request.Method}]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown admin endpoint"})
		return
	}

	store, err := h.stores.Resolve(c.Request.Context(), instance)
	if err != nil {
		h.fail(c, err)
		metrics.IncAdminRequest(selector, c.Writer.Status())
		return
	}

	op(h, c, request{store: store, freeze: NewFreezeState(store), instance: instance})
	metrics.IncAdminRequest(selector, c.Writer.Status())
}

func splitSegments(path string) []string {
	segments := []string{}
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	return segments
}

// fail is the single conversion point from an operation failure to an HTTP
// response. The message is surfaced verbatim.
func (h *Handler) fail(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
