package handler

import (
	"net/http"

	"lockbox/backend/common"
	"lockbox/backend/library/ws"
	"lockbox/backend/service"

	"github.com/gin-gonic/gin"
)

// GetChatFeed returns the whole global feed, oldest first.
func GetChatFeed(c *gin.Context) {
	messages, err := service.Feed()
	if err != nil {
		respServiceError(c, err)
		return
	}
	common.RespSuccess(c, messages)
}

type PostMessageRequestPayload struct {
	Text string `json:"text"`
}

func PostChatMessage(c *gin.Context) {
	var payload PostMessageRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	message, err := service.Post(payload.Text, c.GetInt64("user_id"), c.GetString("display_name"))
	if err != nil {
		respServiceError(c, err)
		return
	}
	common.RespSuccess(c, message)
}

// ListShareableFolders tells the client which folders the caller may push
// into the feed; an empty list means the share action must be disabled.
func ListShareableFolders(c *gin.Context) {
	folders, err := service.ListShareable(c.GetInt64("user_id"))
	if err != nil {
		respServiceError(c, err)
		return
	}

	responses := make([]*folderResponse, 0, len(folders))
	for _, f := range folders {
		responses = append(responses, newFolderResponse(f, nil, true))
	}
	common.RespSuccess(c, responses)
}

type ShareFolderRequestPayload struct {
	FolderID int64 `json:"folder_id"`
}

// ShareFolder broadcasts a folder's credentials into the feed. The service
// re-checks ownership; a caller cannot share a folder it does not own.
func ShareFolder(c *gin.Context) {
	var payload ShareFolderRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	message, err := service.Share(payload.FolderID, c.GetInt64("user_id"), c.GetString("display_name"))
	if err != nil {
		respServiceError(c, err)
		return
	}
	common.RespSuccessWithMsg(c, "folder shared in chat", message)
}

// OnlineCount is decorative; it reports connected websocket clients, not any
// real presence state.
func OnlineCount(c *gin.Context) {
	count := 0
	if hub := service.FeedHub(); hub != nil {
		count = hub.ClientCount()
	}
	common.RespSuccess(c, gin.H{"online": count})
}

// ChatWebSocket upgrades to a push-only feed notification socket.
func ChatWebSocket(c *gin.Context) {
	hub := service.FeedHub()
	if hub == nil {
		common.RespErrorStr(c, http.StatusServiceUnavailable, "live feed is not available")
		return
	}
	if err := ws.Serve(hub, c.Writer, c.Request); err != nil {
		common.SysError("ws: upgrade failed: " + err.Error())
	}
}
