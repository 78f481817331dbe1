package route

import (
	"embed"

	"lockbox/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine, buildFS embed.FS, indexPage []byte) {
	route.Use(middleware.GzipDecode())
	route.Use(middleware.GzipEncode())

	SetApiRouter(route)
	setWebRouter(route, buildFS, indexPage)
}
