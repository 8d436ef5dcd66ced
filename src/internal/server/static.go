package server

import (
	"io/fs"
	"net/http"
	"strings"

	"employee-review-svc/src/web"

	"github.com/gin-contrib/static"
)

// embeddedFS serves the assets compiled into the binary. Directories never
// match, so "/" and other folder paths fall through to the routes.
type embeddedFS struct {
	http.FileSystem
}

func embeddedFiles() static.ServeFileSystem {
	sub, err := fs.Sub(web.Public, "public")
	if err != nil {
		log.WithError(err).Fatal("Embedded public assets missing")
	}
	return embeddedFS{FileSystem: http.FS(sub)}
}

func (e embeddedFS) Exists(prefix, path string) bool {
	p := strings.TrimPrefix(path, prefix)
	if len(p) == len(path) {
		return false
	}
	f, err := e.Open("/" + strings.TrimPrefix(p, "/"))
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && !info.IsDir()
}
