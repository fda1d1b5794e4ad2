package files

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "sbaclean/internal/errors"
	"sbaclean/pkg/contracts/domain"
)

// WorkbookExtensions are the spreadsheet extensions picked up from the input directory
var WorkbookExtensions = []string{"xlsx", "xls"}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance.
// Relative directories passed to its methods are resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindWorkbooks lists the regular files in dir with an xlsx or xls extension,
// in directory listing order. Symlinks are followed.
func (d *Discovery) FindWorkbooks(dir string) ([]domain.InputFile, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewDirectoryAccessError(fullPath, err)
	}

	var files []domain.InputFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext, ok := workbookExtension(name)
		if !ok {
			continue
		}

		path := filepath.Join(fullPath, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, domain.InputFile{
			Name:      name,
			Path:      path,
			Extension: ext,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	return files, nil
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// workbookExtension returns the lower-case extension of name when it is a workbook
func workbookExtension(name string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, candidate := range WorkbookExtensions {
		if ext == candidate {
			return ext, true
		}
	}
	return "", false
}
