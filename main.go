package main

import (
	"embed"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"lockbox/backend/api/middleware"
	"lockbox/backend/api/route"
	"lockbox/backend/common"
	"lockbox/backend/library/ws"
	"lockbox/backend/model"
	"lockbox/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

//go:embed web/dist
var buildFS embed.FS

//go:embed web/dist/index.html
var indexPage []byte

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	if err := common.InitConfig(); err != nil {
		common.FatalLog(err)
	}
	common.SetupGinLog()
	common.SysLog(common.SystemName + " " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Redis
	if err := common.InitRedisClient(); err != nil {
		common.FatalLog(err)
	}
	// Initialize SQL Database
	if err := model.InitDB(); err != nil {
		common.FatalLog(err)
	}
	defer func() {
		if err := model.CloseDB(); err != nil {
			common.FatalLog(err)
		}
	}()

	// Initialize blob storage
	blobs, err := service.NewLocalBlobStore(common.UploadPath)
	if err != nil {
		common.FatalLog(err)
	}
	service.Blobs = blobs

	// Start the live feed hub
	hub := ws.NewHub()
	go hub.Run()
	service.AttachFeedHub(hub)

	// Initialize HTTP server
	server := gin.Default()
	server.Use(middleware.CORS())

	// Session store backs the per-viewer folder unlock state
	if common.RedisEnabled {
		opt := common.ParseRedisOption()
		store, _ := redis.NewStore(opt.MinIdleConns, opt.Network, opt.Addr, opt.Password, []byte(common.SessionSecret))
		server.Use(sessions.Sessions("session", store))
	} else {
		store := cookie.NewStore([]byte(common.SessionSecret))
		server.Use(sessions.Sessions("session", store))
	}

	route.SetRouter(server, buildFS, indexPage)

	setupGracefulShutdown()

	port := strconv.Itoa(*common.Port)
	common.SysLog("Server listening on port: " + port)
	if err := server.Run(":" + port); err != nil {
		log.Fatal("failed to start server: " + err.Error())
	}
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		common.SysLog("Shutting down...")
		if err := model.CloseDB(); err != nil {
			common.SysError("error closing database: " + err.Error())
		}
		os.Exit(0)
	}()
}
