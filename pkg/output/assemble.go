package output

import (
	"strings"

	"github.com/vango-dev/wingman/pkg/render"
)

// File is one artifact to write, relative to the target root.
type File struct {
	Path    string
	Content string
}

// Assemble lists the files a render result produces for profile: the main
// document first, when it has content, followed by every diverted output file
// in render order. Duplicate paths are kept; the last write wins.
func Assemble(result *render.Result, profile Profile) []File {
	if result == nil {
		return nil
	}

	files := make([]File, 0, len(result.Metadata.OutputFiles)+1)
	if result.Content != "" {
		files = append(files, File{
			Path:    profile.InstructionsPath,
			Content: result.Content + "\n",
		})
	}
	for _, def := range result.Metadata.OutputFiles {
		files = append(files, File{
			Path:    def.Path,
			Content: strings.TrimSpace(def.Content) + "\n",
		})
	}
	return files
}

// Paths returns the path of every file, in order.
func Paths(files []File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
