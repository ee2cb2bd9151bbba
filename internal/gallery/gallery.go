// Package gallery defines the album tree produced by the scanner and
// consumed by the later build stages.
//
// The tree is owned top-down through Album.Children. The parent of an album
// is recorded only as a relative-path key and resolved through Tree.Parent,
// so no album holds a pointer back up the tree.
package gallery

import (
	"path"
	"strings"
	"time"
)

// RootPath is the relative path of the root album.
const RootPath = "."

// Image is one source image.
//
// SourcePath, RelPath, Name, AlbumPath and ModTime are set by the scanner.
// Width, Height, Thumbnails and Failed are filled in by the thumbnail stage;
// each image is only ever touched by the worker that owns it.
type Image struct {
	SourcePath string
	RelPath    string
	Name       string
	AlbumPath  string
	ModTime    time.Time
	Size       int64

	Width  int
	Height int
	// Thumbnails maps target size to an output-rooted, slash-separated path.
	Thumbnails map[int]string
	Failed     bool
}

// Usable reports whether the image has thumbnails for the page.
func (img *Image) Usable() bool {
	return !img.Failed && len(img.Thumbnails) > 0
}

// Album is one input directory.
type Album struct {
	RelPath     string
	Name        string
	Title       string
	Description string
	// ParentPath is the RelPath of the parent album, empty for the root.
	ParentPath string

	Images   []*Image
	Children []*Album
}

// IsRoot reports whether a is the root album.
func (a *Album) IsRoot() bool {
	return a.RelPath == RootPath
}

// ImageCount returns the number of images in a and all its descendants.
func (a *Album) ImageCount() int {
	n := len(a.Images)
	for _, c := range a.Children {
		n += c.ImageCount()
	}
	return n
}

// Tree is a scanned album hierarchy with a path index.
type Tree struct {
	Root  *Album
	index map[string]*Album
}

// NewTree indexes the hierarchy under root.
func NewTree(root *Album) *Tree {
	t := &Tree{Root: root, index: make(map[string]*Album)}
	t.Walk(func(a *Album) {
		t.index[a.RelPath] = a
	})
	return t
}

// Lookup returns the album with the given relative path.
func (t *Tree) Lookup(rel string) (*Album, bool) {
	a, ok := t.index[rel]
	return a, ok
}

// Parent returns the parent of a, or false for the root.
func (t *Tree) Parent(a *Album) (*Album, bool) {
	if a.ParentPath == "" {
		return nil, false
	}
	return t.Lookup(a.ParentPath)
}

// Walk calls fn for every album in pre-order.
func (t *Tree) Walk(fn func(*Album)) {
	if t.Root == nil {
		return
	}
	var walk func(*Album)
	walk = func(a *Album) {
		fn(a)
		for _, c := range a.Children {
			walk(c)
		}
	}
	walk(t.Root)
}

// Albums returns every album in pre-order.
func (t *Tree) Albums() []*Album {
	out := make([]*Album, 0, len(t.index))
	t.Walk(func(a *Album) { out = append(out, a) })
	return out
}

// Images returns every image in the tree, album by album in pre-order.
func (t *Tree) Images() []*Image {
	var out []*Image
	t.Walk(func(a *Album) { out = append(out, a.Images...) })
	return out
}

// Join builds a slash-separated relative path below an album.
func Join(albumPath string, elem ...string) string {
	if albumPath == RootPath || albumPath == "" {
		return path.Join(elem...)
	}
	return path.Join(append([]string{albumPath}, elem...)...)
}

// RelativeTo turns an output-rooted path into one relative to albumPath.
// p must lie below albumPath.
func RelativeTo(albumPath, p string) string {
	if albumPath == RootPath || albumPath == "" {
		return p
	}
	return strings.TrimPrefix(p, albumPath+"/")
}
