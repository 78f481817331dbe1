package route

import (
	"embed"
	"net/http"

	"lockbox/backend/common"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

func setWebRouter(route *gin.Engine, buildFS embed.FS, indexPage []byte) {
	route.Use(static.Serve("/", common.EmbedFolder(buildFS, "web/dist")))
	route.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 5 && c.Request.URL.Path[:5] == "/api/" {
			common.RespErrorStr(c, http.StatusNotFound, "API route not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
	})
}
