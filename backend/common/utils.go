package common

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/google/uuid"
)

func PrintHelp() {
	fmt.Println(SystemName + " " + Version)
	fmt.Println("Usage: lockbox [--port <port>] [--log-dir <log directory>] [--version] [--help]")
}

func GetUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

type embedFileSystem struct {
	http.FileSystem
}

func (e embedFileSystem) Exists(prefix string, path string) bool {
	_, err := e.Open(path)
	return err == nil
}

// EmbedFolder exposes a subtree of an embedded filesystem to the static
// file-serving middleware.
func EmbedFolder(fsEmbed embed.FS, targetPath string) static.ServeFileSystem {
	subFS, err := fs.Sub(fsEmbed, targetPath)
	if err != nil {
		panic(err)
	}
	return embedFileSystem{
		FileSystem: http.FS(subFS),
	}
}
