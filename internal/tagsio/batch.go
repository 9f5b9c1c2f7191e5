package tagsio

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Entry fields of one file found by ReadDir
type Entry struct {
	Path   string
	Fields Fields
	HadTag bool
	// Err reading this file failed, other entries are still read
	Err error
}

// FindMP3s paths of all .mp3 files below root, sorted
func FindMP3s(root string) ([]string, error) {
	var paths []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() && osPathname != root && strings.HasPrefix(de.Name(), ".") {
				return godirwalk.SkipThis
			}
			if !de.IsRegular() {
				return nil
			}
			if strings.ToLower(filepath.Ext(de.Name())) != ".mp3" {
				return nil
			}
			paths = append(paths, osPathname)
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s", root)
	}
	sort.Strings(paths)

	return paths, nil
}

// ReadDir reads the fields of all .mp3 files below root using c.Workers
// parallel readers. Entries are sorted by path. A file that fails to read
// gets an Entry with Err set; only walk errors and ctx cancel fail the call.
func ReadDir(ctx context.Context, root string, c Config, log *zap.Logger) ([]Entry, error) {
	if log == nil {
		log = zap.NewNop()
	}

	paths, err := FindMP3s(root)
	if err != nil {
		return nil, err
	}
	log.Debug("found files", zap.String("root", root), zap.Int("count", len(paths)))

	entries := make([]Entry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i].Path = p
			f, err := Open(p, c, log)
			if err != nil {
				log.Warn("read failed", zap.String("file", p), zap.Error(err))
				entries[i].Err = err
				return nil
			}
			entries[i].Fields = f.Fields
			entries[i].HadTag = f.HadTag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}
