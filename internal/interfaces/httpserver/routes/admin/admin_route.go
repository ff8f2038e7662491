package admin

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"dynmcp/internal/domain/broadcast"
	"dynmcp/internal/domain/datasource"
	"dynmcp/internal/domain/xds"
	"dynmcp/internal/interfaces/httpserver/responses"
)

// AdminRoute is the xDS CRUD surface. Writes go through the DataSource to the
// backing store; the cache converges via the watch path. Reads of single
// records hit the store, list endpoints serve cache snapshots.
type AdminRoute struct {
	ds    *datasource.DataSource
	cache *xds.McpCache
	bus   *broadcast.Bus
}

func NewAdminRoute(ds *datasource.DataSource, cache *xds.McpCache, bus *broadcast.Bus) *AdminRoute {
	return &AdminRoute{ds: ds, cache: cache, bus: bus}
}

func (route *AdminRoute) RegisterRouter(router gin.IRouter) {
	router.PUT("/tds/:id", route.putTDS)
	router.GET("/tds/:id", route.getTDS)
	router.DELETE("/tds/:id", route.deleteTDS)
	router.GET("/tds", route.listTDS)

	router.PUT("/ids/:id", route.putIDS)
	router.GET("/ids/:id", route.getIDS)
	router.DELETE("/ids/:id", route.deleteIDS)
	router.GET("/ids", route.listIDS)

	router.POST("/notify/:ids_id", route.notify)
}

func (route *AdminRoute) putTDS(c *gin.Context) {
	var tds xds.TDS
	if err := c.ShouldBindJSON(&tds); err != nil {
		responses.BadRequest(c, err)
		return
	}
	if tds.ID == "" {
		tds.ID = c.Param("id")
	}
	if err := tds.Validate(); err != nil {
		responses.BadRequest(c, err)
		return
	}
	if err := route.ds.PutTDS(c.Request.Context(), tds); err != nil {
		responses.Internal(c, err)
		return
	}
	responses.Success(c, tds)
}

func (route *AdminRoute) getTDS(c *gin.Context) {
	id := c.Param("id")
	tds, found, err := route.ds.GetTDS(c.Request.Context(), id)
	if err != nil {
		responses.Internal(c, err)
		return
	}
	if !found {
		responses.NotFound(c, fmt.Errorf("TDS `%s` not found", id))
		return
	}
	responses.Success(c, tds)
}

func (route *AdminRoute) deleteTDS(c *gin.Context) {
	id := c.Param("id")
	deleted, err := route.ds.DeleteTDS(c.Request.Context(), id)
	if err != nil {
		responses.Internal(c, err)
		return
	}
	responses.Success(c, fmt.Sprintf("TDS `%s` delete result: %t", id, deleted))
}

func (route *AdminRoute) listTDS(c *gin.Context) {
	responses.Success(c, route.cache.ListTDS())
}

func (route *AdminRoute) putIDS(c *gin.Context) {
	var ids xds.IDS
	if err := c.ShouldBindJSON(&ids); err != nil {
		responses.BadRequest(c, err)
		return
	}
	if ids.ID == "" {
		ids.ID = c.Param("id")
	}
	if err := ids.Validate(); err != nil {
		responses.BadRequest(c, err)
		return
	}
	if err := route.ds.PutIDS(c.Request.Context(), ids); err != nil {
		responses.Internal(c, err)
		return
	}
	responses.Success(c, ids)
}

func (route *AdminRoute) getIDS(c *gin.Context) {
	id := c.Param("id")
	ids, found, err := route.ds.GetIDS(c.Request.Context(), id)
	if err != nil {
		responses.Internal(c, err)
		return
	}
	if !found {
		responses.NotFound(c, fmt.Errorf("IDS `%s` not found", id))
		return
	}
	responses.Success(c, ids)
}

func (route *AdminRoute) listIDS(c *gin.Context) {
	responses.Success(c, route.cache.ListIDS())
}

func (route *AdminRoute) deleteIDS(c *gin.Context) {
	id := c.Param("id")
	deleted, err := route.ds.DeleteIDS(c.Request.Context(), id)
	if err != nil {
		responses.Internal(c, err)
		return
	}
	responses.Success(c, fmt.Sprintf("IDS `%s` delete result: %t", id, deleted))
}

type notifyRequest struct {
	Message string `json:"message"`
}

// notify pushes one message onto the broadcast bus for subscribers of the
// given IDS endpoint.
func (route *AdminRoute) notify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, err)
		return
	}
	if req.Message == "" {
		responses.BadRequest(c, errors.New("message must not be empty"))
		return
	}
	route.bus.Publish(broadcast.Msg{
		IDSID:   c.Param("ids_id"),
		Message: req.Message,
	})
	responses.Success(c, "published")
}
