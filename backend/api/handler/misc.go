package handler

import (
	"time"

	"lockbox/backend/common"

	"github.com/gin-gonic/gin"
)

func GetStatus(c *gin.Context) {
	common.RespSuccess(c, gin.H{
		"system_name": common.SystemName,
		"version":     common.Version,
		"server_time": common.FormatTime(time.Now()),
	})
}
