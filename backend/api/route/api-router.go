package route

import (
	"lockbox/backend/api/handler"
	"lockbox/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine) {
	apiRouter := route.Group("/api")
	{
		// Public routes (no authentication required)
		apiRouter.GET("/status", handler.GetStatus)
		apiRouter.GET("/chat/online", handler.OnlineCount)
		apiRouter.GET("/chat/ws", handler.ChatWebSocket)

		// Authentication routes
		authRoutes := apiRouter.Group("/auth")
		{
			authRoutes.POST("/register", handler.Register)
			authRoutes.POST("/login", handler.Login)
			authRoutes.POST("/refresh", handler.RefreshToken)
			authRoutes.POST("/logout", handler.Logout)
		}

		userRoute := apiRouter.Group("/user")
		userRoute.Use(middleware.JWTAuth())
		{
			userRoute.GET("/self", handler.GetSelf)
		}

		folderRoute := apiRouter.Group("/folder")
		folderRoute.Use(middleware.JWTAuth())
		{
			folderRoute.POST("", handler.CreateFolder)
			folderRoute.GET("/mine", handler.ListMyFolders)
			folderRoute.POST("/access", handler.AccessFolderByName)
			folderRoute.GET("/:id", handler.GetFolder)
			folderRoute.POST("/:id/unlock", handler.UnlockFolder)
			folderRoute.DELETE("/:id", handler.DeleteFolder)
			folderRoute.GET("/:id/details", handler.FolderDetails)
			folderRoute.GET("/:id/files/:fileId", handler.DownloadFile)
			folderRoute.GET("/:id/files/:fileId/thumbnail", handler.FileThumbnail)
		}

		chatRoute := apiRouter.Group("/chat")
		chatRoute.Use(middleware.JWTAuth())
		{
			chatRoute.GET("/messages", handler.GetChatFeed)
			chatRoute.POST("/messages", handler.PostChatMessage)
			chatRoute.GET("/shareable", handler.ListShareableFolders)
			chatRoute.POST("/share", handler.ShareFolder)
		}
	}
}
