package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"lockbox/backend/model"
	"lockbox/backend/service"

	"github.com/burugo/thing"
	"github.com/burugo/thing/drivers/db/sqlite"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestEnv(t *testing.T) {
	dbAdapter, err := sqlite.NewSQLiteAdapter(":memory:")
	assert.NoError(t, err)
	thing.Configure(dbAdapter, nil)
	err = thing.AutoMigrate(&model.User{}, &model.Folder{}, &model.FileRecord{}, &model.ChatMessage{})
	assert.NoError(t, err)
	assert.NoError(t, model.UserInit())
	assert.NoError(t, model.FolderInit())
	assert.NoError(t, model.FileRecordInit())
	assert.NoError(t, model.ChatMessageInit())
	service.Blobs = service.NewMemoryBlobStore()
}

// testAuth replaces the JWT middleware: the requesting user comes from the
// X-Test-User header.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.GetHeader("X-Test-User"), 10, 64)
		c.Set("user_id", id)
		c.Set("username", "user"+c.GetHeader("X-Test-User"))
		c.Set("display_name", "User "+c.GetHeader("X-Test-User"))
		c.Next()
	}
}

func setupFolderRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-session-secret"))))
	r.Use(testAuth())
	r.POST("/api/folder", CreateFolder)
	r.GET("/api/folder/mine", ListMyFolders)
	r.POST("/api/folder/access", AccessFolderByName)
	r.GET("/api/folder/:id", GetFolder)
	r.POST("/api/folder/:id/unlock", UnlockFolder)
	r.DELETE("/api/folder/:id", DeleteFolder)
	r.GET("/api/folder/:id/details", FolderDetails)
	r.GET("/api/folder/:id/files/:fileId", DownloadFile)
	return r
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type folderPayload struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Visibility string `json:"visibility"`
	Unlocked   bool   `json:"unlocked"`
	Files      []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"files"`
}

type testFile struct {
	name    string
	content string
}

func multipartFolderBody(t *testing.T, name, password, visibility string, files []testFile) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	assert.NoError(t, writer.WriteField("name", name))
	assert.NoError(t, writer.WriteField("password", password))
	assert.NoError(t, writer.WriteField("visibility", visibility))
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.name)
		assert.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func doJSON(router *gin.Engine, method, path, user string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *bytes.Buffer = &bytes.Buffer{}
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createFolderViaAPI(t *testing.T, router *gin.Engine, user, name, password, visibility string, files []testFile) folderPayload {
	body, contentType := multipartFolderBody(t, name, password, visibility, files)
	req, _ := http.NewRequest("POST", "/api/folder", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code, w.Body.String())

	var resp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	var folder folderPayload
	assert.NoError(t, json.Unmarshal(resp.Data, &folder))
	assert.NotZero(t, folder.ID)
	return folder
}

func TestFolderLifecycleAPI(t *testing.T) {
	setupTestEnv(t)
	router := setupFolderRouter()

	// user 1 creates a folder with one file
	folder := createFolderViaAPI(t, router, "1", "Taxes", "secret1", "public", []testFile{
		{name: "return.txt", content: "tax return draft"},
	})
	assert.Equal(t, "Taxes", folder.Name)
	assert.True(t, folder.Unlocked)
	assert.Equal(t, "secret1", folder.Password, "the creator sees the password immediately")
	assert.Len(t, folder.Files, 1)

	// it shows up in the owner's dashboard
	w := doJSON(router, "GET", "/api/folder/mine", "1", nil, nil)
	assert.Equal(t, 200, w.Code)
	var listResp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	var mine []folderPayload
	assert.NoError(t, json.Unmarshal(listResp.Data, &mine))
	assert.Len(t, mine, 1)
	assert.Equal(t, "Taxes", mine[0].Name)

	folderPath := fmt.Sprintf("/api/folder/%d", folder.ID)

	// user 2 sees the folder but it is locked: no password, no files
	w = doJSON(router, "GET", folderPath, "2", nil, nil)
	assert.Equal(t, 200, w.Code)
	var lockedResp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &lockedResp))
	var locked folderPayload
	assert.NoError(t, json.Unmarshal(lockedResp.Data, &locked))
	assert.False(t, locked.Unlocked)
	assert.Empty(t, locked.Password)
	assert.Empty(t, locked.Files)

	// wrong password is rejected and the folder stays locked
	w = doJSON(router, "POST", folderPath+"/unlock", "2", gin.H{"password": "wrong"}, nil)
	assert.Equal(t, 401, w.Code)

	// the right password unlocks for this viewing context
	w = doJSON(router, "POST", folderPath+"/unlock", "2", gin.H{"password": "secret1"}, nil)
	assert.Equal(t, 200, w.Code, w.Body.String())
	viewerCookies := w.Result().Cookies()
	assert.NotEmpty(t, viewerCookies)

	var unlockedResp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &unlockedResp))
	var unlocked folderPayload
	assert.NoError(t, json.Unmarshal(unlockedResp.Data, &unlocked))
	assert.True(t, unlocked.Unlocked)
	assert.Equal(t, "secret1", unlocked.Password)
	assert.Len(t, unlocked.Files, 1)

	// the unlock sticks across requests of the same viewing context
	w = doJSON(router, "GET", folderPath, "2", nil, viewerCookies)
	assert.Equal(t, 200, w.Code)
	var againResp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &againResp))
	var again folderPayload
	assert.NoError(t, json.Unmarshal(againResp.Data, &again))
	assert.True(t, again.Unlocked)
	assert.Len(t, again.Files, 1)

	// download returns the original bytes
	filePath := fmt.Sprintf("%s/files/%d", folderPath, again.Files[0].ID)
	w = doJSON(router, "GET", filePath, "2", nil, viewerCookies)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "tax return draft", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "return.txt")

	// a fresh viewing context is locked again
	w = doJSON(router, "GET", filePath, "2", nil, nil)
	assert.Equal(t, 401, w.Code)
}

func TestPrivateFolderIsHidden(t *testing.T) {
	setupTestEnv(t)
	router := setupFolderRouter()

	folder := createFolderViaAPI(t, router, "1", "Diary", "secret1", "private", []testFile{
		{name: "entry.txt", content: "dear diary"},
	})

	// the owner still reaches it
	w := doJSON(router, "GET", fmt.Sprintf("/api/folder/%d", folder.ID), "1", nil, nil)
	assert.Equal(t, 200, w.Code)

	// a stranger gets the same reply as for a folder that does not exist
	w = doJSON(router, "GET", fmt.Sprintf("/api/folder/%d", folder.ID), "2", nil, nil)
	assert.Equal(t, 404, w.Code)
	var deniedResp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &deniedResp))

	w = doJSON(router, "GET", "/api/folder/99999", "2", nil, nil)
	assert.Equal(t, 404, w.Code)
	var missingResp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &missingResp))

	assert.Equal(t, missingResp.Message, deniedResp.Message)
}

func TestAccessFolderByNameAPI(t *testing.T) {
	setupTestEnv(t)
	router := setupFolderRouter()

	folder := createFolderViaAPI(t, router, "1", "Shared Docs", "secret1", "private", []testFile{
		{name: "doc.txt", content: "shared"},
	})

	// names match case-insensitively, credentials trump visibility
	w := doJSON(router, "POST", "/api/folder/access", "2", gin.H{"name": "shared docs", "password": "secret1"}, nil)
	assert.Equal(t, 200, w.Code, w.Body.String())
	cookies := w.Result().Cookies()

	var resp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var accessed folderPayload
	assert.NoError(t, json.Unmarshal(resp.Data, &accessed))
	assert.Equal(t, folder.ID, accessed.ID)
	assert.True(t, accessed.Unlocked)
	assert.Len(t, accessed.Files, 1)

	w = doJSON(router, "POST", "/api/folder/access", "2", gin.H{"name": "shared docs", "password": "nope"}, nil)
	assert.Equal(t, 401, w.Code)

	w = doJSON(router, "POST", "/api/folder/access", "2", gin.H{"name": "no such", "password": "secret1"}, nil)
	assert.Equal(t, 404, w.Code)

	// the granted access persists for the viewing context even though the
	// folder is private
	w = doJSON(router, "GET", fmt.Sprintf("/api/folder/%d/details", folder.ID), "2", nil, cookies)
	assert.Equal(t, 404, w.Code, "details still goes through the visibility gate for non-owners")
}

func TestFolderDetailsAPI(t *testing.T) {
	setupTestEnv(t)
	router := setupFolderRouter()

	folder := createFolderViaAPI(t, router, "1", "Taxes", "secret1", "public", []testFile{
		{name: "a.txt", content: "x"},
	})
	path := fmt.Sprintf("/api/folder/%d/details", folder.ID)

	// a locked viewer may not read the clipboard string
	w := doJSON(router, "GET", path, "2", nil, nil)
	assert.Equal(t, 401, w.Code)

	w = doJSON(router, "GET", path, "1", nil, nil)
	assert.Equal(t, 200, w.Code)
	var resp apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var data struct {
		Details string `json:"details"`
	}
	assert.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "Folder: Taxes\nPassword: secret1\n\nAccess this folder on LockBox Global!", data.Details)
}

func TestDeleteFolderAPI(t *testing.T) {
	setupTestEnv(t)
	router := setupFolderRouter()

	folder := createFolderViaAPI(t, router, "1", "Temp", "secret1", "public", []testFile{
		{name: "a.txt", content: "x"},
	})
	path := fmt.Sprintf("/api/folder/%d", folder.ID)

	w := doJSON(router, "DELETE", path, "2", nil, nil)
	assert.Equal(t, 404, w.Code, "non-owners cannot delete and learn nothing")

	w = doJSON(router, "DELETE", path, "1", nil, nil)
	assert.Equal(t, 200, w.Code)

	w = doJSON(router, "GET", path, "1", nil, nil)
	assert.Equal(t, 404, w.Code)
}

func TestCreateFolderRejectsBadInput(t *testing.T) {
	setupTestEnv(t)
	router := setupFolderRouter()

	body, contentType := multipartFolderBody(t, "Taxes", "short", "public", []testFile{{name: "a.txt", content: "x"}})
	req, _ := http.NewRequest("POST", "/api/folder", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-User", "1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)

	body, contentType = multipartFolderBody(t, "Taxes", "secret1", "public", nil)
	req, _ = http.NewRequest("POST", "/api/folder", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-User", "1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)
}
