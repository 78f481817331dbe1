package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lockbox/backend/common"
	apperrors "lockbox/backend/common/errors"
	"lockbox/backend/model"
	"lockbox/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// folderResponse is the API shape of a folder. The plaintext password is only
// attached once the viewing context is unlocked (ownership or a successful
// password submission).
type folderResponse struct {
	*model.Folder
	Password string              `json:"password,omitempty"`
	Files    []*model.FileRecord `json:"files,omitempty"`
	Unlocked bool                `json:"unlocked"`
}

func newFolderResponse(f *model.Folder, files []*model.FileRecord, unlocked bool) *folderResponse {
	resp := &folderResponse{
		Folder:   f,
		Files:    files,
		Unlocked: unlocked,
	}
	if unlocked {
		resp.Password = f.Password
	}
	return resp
}

// respServiceError maps service error codes onto HTTP statuses. Not-found and
// access-denied intentionally collapse into the same 404 reply.
func respServiceError(c *gin.Context, err error) {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrFolderNotFound, apperrors.ErrFolderAccessDenied, apperrors.ErrFileNotFound:
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
	case apperrors.ErrWrongPassword:
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
	case apperrors.ErrNotFolderOwner:
		common.RespErrorStr(c, http.StatusForbidden, err.Error())
	case apperrors.ErrFolderNameEmpty, apperrors.ErrPasswordTooShort, apperrors.ErrNoFiles,
		apperrors.ErrEmptyMessage, apperrors.ErrNothingToShare, apperrors.ErrInvalidParam:
		common.RespErrorStr(c, http.StatusBadRequest, err.Error())
	default:
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
	}
}

func unlockedSessionKey(folderID int64) string {
	return fmt.Sprintf("folder_unlocked:%d", folderID)
}

// markUnlocked records a successful unlock in the cookie session. The session
// is the viewing context: clearing it (logout, cookie expiry) locks
// everything again.
func markUnlocked(c *gin.Context, folderID int64) {
	session := sessions.Default(c)
	session.Set(unlockedSessionKey(folderID), true)
	if err := session.Save(); err != nil {
		common.SysError("failed to save session: " + err.Error())
	}
}

func isUnlocked(c *gin.Context, f *model.Folder) bool {
	if service.InitialUnlockState(f, c.GetInt64("user_id")) {
		return true
	}
	session := sessions.Default(c)
	unlocked, ok := session.Get(unlockedSessionKey(f.ID)).(bool)
	return ok && unlocked
}

func folderIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// CreateFolder handles the multipart upload: scalar fields plus one or more
// files under the "files" field.
func CreateFolder(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	name := c.PostForm("name")
	password := c.PostForm("password")
	visibility := model.FolderVisibility(c.PostForm("visibility"))

	fileHeaders := form.File["files"]
	uploads := make([]service.FileUpload, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			common.RespError(c, http.StatusBadRequest, "failed to read uploaded file "+header.Filename, err)
			return
		}
		defer file.Close()
		uploads = append(uploads, service.FileUpload{
			Name:     header.Filename,
			Size:     header.Size,
			MimeType: header.Header.Get("Content-Type"),
			Reader:   file,
		})
	}

	folder, err := service.CreateFolder(c.GetInt64("user_id"), name, password, visibility, uploads)
	if err != nil {
		respServiceError(c, err)
		return
	}

	files, err := model.GetFilesByFolder(folder.ID)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to load folder files", err)
		return
	}
	common.RespSuccess(c, newFolderResponse(folder, files, true))
}

// ListMyFolders returns the caller's folders, optionally filtered by a
// keyword substring.
func ListMyFolders(c *gin.Context) {
	ownerID := c.GetInt64("user_id")
	keyword := strings.TrimSpace(c.Query("keyword"))

	var folders []*model.Folder
	var err error
	if keyword != "" {
		folders, err = service.SearchFolders(ownerID, keyword)
	} else {
		folders, err = service.ListFolders(ownerID)
	}
	if err != nil {
		respServiceError(c, err)
		return
	}

	responses := make([]*folderResponse, 0, len(folders))
	for _, f := range folders {
		// owners always see their own folders unlocked
		responses = append(responses, newFolderResponse(f, nil, true))
	}
	common.RespSuccess(c, responses)
}

func GetFolder(c *gin.Context) {
	folderID, err := folderIDParam(c)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "invalid folder id")
		return
	}

	folder, files, err := service.GetFolder(folderID, c.GetInt64("user_id"))
	if err != nil {
		respServiceError(c, err)
		return
	}

	unlocked := isUnlocked(c, folder)
	if !unlocked {
		// locked viewers learn the shape of the folder, not its contents
		common.RespSuccess(c, newFolderResponse(folder, nil, false))
		return
	}
	common.RespSuccess(c, newFolderResponse(folder, files, true))
}

type UnlockRequestPayload struct {
	Password string `json:"password"`
}

// UnlockFolder runs the password challenge for the current viewing context.
// Wrong passwords are recoverable; the viewer may retry without limit.
func UnlockFolder(c *gin.Context) {
	folderID, err := folderIDParam(c)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "invalid folder id")
		return
	}
	var payload UnlockRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	folder, files, err := service.GetFolder(folderID, c.GetInt64("user_id"))
	if err != nil {
		respServiceError(c, err)
		return
	}

	access := service.NewAccessSession(folder, c.GetInt64("user_id"))
	if !access.Unlocked() {
		if err := access.Submit(payload.Password); err != nil {
			respServiceError(c, err)
			return
		}
	}

	markUnlocked(c, folder.ID)
	common.RespSuccessWithMsg(c, "access granted", newFolderResponse(folder, files, true))
}

type AccessByNameRequestPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AccessFolderByName is the self-service entry point for credentials
// received through the chat feed or out-of-band.
func AccessFolderByName(c *gin.Context) {
	var payload AccessByNameRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	folder, err := service.AccessFolderByName(payload.Name, payload.Password)
	if err != nil {
		respServiceError(c, err)
		return
	}
	files, err := model.GetFilesByFolder(folder.ID)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to load folder files", err)
		return
	}

	markUnlocked(c, folder.ID)
	common.RespSuccessWithMsg(c, "access granted", newFolderResponse(folder, files, true))
}

func DeleteFolder(c *gin.Context) {
	folderID, err := folderIDParam(c)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "invalid folder id")
		return
	}
	if err := service.DeleteFolder(folderID, c.GetInt64("user_id")); err != nil {
		respServiceError(c, err)
		return
	}
	common.RespSuccessStr(c, "folder deleted")
}

// FolderDetails builds the clipboard string for out-of-band sharing.
// Requires an unlocked viewing context since it exposes the password.
func FolderDetails(c *gin.Context) {
	folderID, err := folderIDParam(c)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "invalid folder id")
		return
	}
	folder, _, err := service.GetFolder(folderID, c.GetInt64("user_id"))
	if err != nil {
		respServiceError(c, err)
		return
	}
	if !isUnlocked(c, folder) {
		common.RespErrorStr(c, http.StatusUnauthorized, "folder is locked")
		return
	}
	common.RespSuccess(c, gin.H{"details": service.FormatFolderDetails(folder)})
}

// lookupFolderFile resolves a file inside a folder after the usual
// visibility and unlock gates.
func lookupFolderFile(c *gin.Context) (*model.FileRecord, bool) {
	folderID, err := folderIDParam(c)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "invalid folder id")
		return nil, false
	}
	fileID, err := strconv.ParseInt(c.Param("fileId"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "invalid file id")
		return nil, false
	}

	folder, files, err := service.GetFolder(folderID, c.GetInt64("user_id"))
	if err != nil {
		respServiceError(c, err)
		return nil, false
	}
	if !isUnlocked(c, folder) {
		common.RespErrorStr(c, http.StatusUnauthorized, "folder is locked")
		return nil, false
	}

	for _, record := range files {
		if record.ID == fileID {
			return record, true
		}
	}
	common.RespErrorStr(c, http.StatusNotFound, "file not found")
	return nil, false
}

// DownloadFile streams the stored bytes back unmodified.
func DownloadFile(c *gin.Context) {
	record, ok := lookupFolderFile(c)
	if !ok {
		return
	}

	data, err := service.Blobs.Get(record.StorageKey)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to read stored file", err)
		return
	}

	mimeType := record.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Name))
	c.Data(http.StatusOK, mimeType, data)
}

// FileThumbnail serves a downscaled preview for image files.
func FileThumbnail(c *gin.Context) {
	record, ok := lookupFolderFile(c)
	if !ok {
		return
	}
	if !strings.HasPrefix(record.MimeType, "image/") {
		common.RespErrorStr(c, http.StatusBadRequest, "thumbnails are only available for images")
		return
	}

	data, err := service.Thumbnail(record.StorageKey)
	if err != nil {
		respServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}
