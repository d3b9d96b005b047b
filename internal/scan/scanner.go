package scan

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	KindReplay = "replay"
	KindEvents = "events"
)

type FileInfo struct {
	Path  string
	Name  string
	Kind  string // KindReplay or KindEvents
	Mtime int64
	Size  int64
}

// KindOf maps a file name to its input kind, or "" if it is not an input.
func KindOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".replay":
		return KindReplay
	case ".json":
		return KindEvents
	default:
		return ""
	}
}

// ScanDir lists replay and event-stream files under root in lexical order.
// Hidden directories are not descended into.
func ScanDir(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		kind := KindOf(path)
		if kind == "" {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Name:  info.Name(),
			Kind:  kind,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return files, err
}
