package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wardenproject/warden/internal/metrics"
	"github.com/wardenproject/warden/internal/storage"
)

// opList enumerates user tables when the backend is relational, otherwise
// the stored keys. Reserved bookkeeping never appears in either branch.
func (h *Handler) opList(c *gin.Context, r request) {
	if catalog, ok := r.store.(storage.Cataloger); ok {
		tables, err := catalog.Tables(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tables": tables})
		return
	}

	keys, err := r.store.Keys(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": filterReserved(keys)})
}

func filterReserved(keys []string) []string {
	visible := []string{}
	for _, key := range keys {
		if !IsReservedKey(key) {
			visible = append(visible, key)
		}
	}

	return visible
}

func (h *Handler) opGet(c *gin.Context, r request) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key parameter"})
		return
	}

	if IsReservedKey(key) {
		// Bookkeeping keys read as absent.
		c.JSON(http.StatusOK, gin.H{"value": nil})
		return
	}

	value, err := r.store.Get(c.Request.Context(), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

type putRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (h *Handler) opPut(c *gin.Context, r request) {
	var req putRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key in body"})
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing value in body"})
		return
	}
	if IsReservedKey(req.Key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key uses a reserved admin prefix"})
		return
	}

	if err := r.freeze.Guard(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	if err := r.store.Put(c.Request.Context(), req.Key, req.Value); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) opDelete(c *gin.Context, r request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key in body"})
		return
	}
	if IsReservedKey(req.Key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key uses a reserved admin prefix"})
		return
	}

	if err := r.freeze.Guard(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	if err := r.store.Delete(c.Request.Context(), req.Key); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) opSQL(c *gin.Context, r request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query in body"})
		return
	}

	catalog, ok := r.store.(storage.Cataloger)
	if !ok {
		h.fail(c, storage.ErrNoSQL)
		return
	}

	result, err := catalog.Query(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":   result.Rows,
		"rowCount": len(result.Rows),
		"columns":  result.Columns,
	})
}

func (h *Handler) opExport(c *gin.Context, r request) {
	ctx := c.Request.Context()
	keys, err := r.store.Keys(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	data := map[string]json.RawMessage{}
	for _, key := range keys {
		if IsReservedKey(key) {
			continue
		}
		value, err := r.store.Get(ctx, key)
		if err != nil {
			h.fail(c, err)
			return
		}
		data[key] = value
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       data,
		"exportedAt": time.Now().UTC().Format(time.RFC3339),
		"keyCount":   len(data),
	})
}

func (h *Handler) opImport(c *gin.Context, r request) {
	var req struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Data == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid data object"})
		return
	}
	for key := range req.Data {
		if IsReservedKey(key) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Key uses a reserved admin prefix"})
			return
		}
	}

	if err := r.freeze.Guard(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	if err := r.store.PutAll(c.Request.Context(), req.Data); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "imported": len(req.Data)})
}

func (h *Handler) opAlarmGet(c *gin.Context, r request) {
	alarm, err := r.store.Alarm(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alarm": alarm})
}

func (h *Handler) opAlarmSet(c *gin.Context, r request) {
	var req struct {
		Timestamp any `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	ts, ok := req.Timestamp.(float64)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid timestamp"})
		return
	}

	if err := r.store.SetAlarm(c.Request.Context(), int64(ts)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alarm": int64(ts)})
}

func (h *Handler) opAlarmDelete(c *gin.Context, r request) {
	if err := r.store.DeleteAlarm(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) opFreeze(c *gin.Context, r request) {
	frozenAt, err := r.freeze.Freeze(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.IncFreezeTransition("frozen")
	if h.events != nil {
		h.events.Frozen(r.instance, frozenAt)
	}
	c.JSON(http.StatusOK, gin.H{"frozen": true, "frozenAt": frozenAt})
}

func (h *Handler) opUnfreeze(c *gin.Context, r request) {
	if err := r.freeze.Unfreeze(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	metrics.IncFreezeTransition("unfrozen")
	if h.events != nil {
		h.events.Unfrozen(r.instance)
	}
	c.JSON(http.StatusOK, gin.H{"frozen": false})
}

func (h *Handler) opFreezeStatus(c *gin.Context, r request) {
	frozen, frozenAt, err := r.freeze.Status(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if !frozen {
		c.JSON(http.StatusOK, gin.H{"frozen": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"frozen": true, "frozenAt": frozenAt})
}
