package media

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

const DefaultFolder = "postMedia"

// RemoteName prefixes the client's file name with a fresh UUID so repeated uploads of
// the same file never collide in the store.
func RemoteName(id uuid.UUID, originalName string) string {
	return id.String() + "-" + baseName(originalName)
}

// RemotePath joins the folder and the generated name with a forward slash.
func RemotePath(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload"
	}
	return name
}
