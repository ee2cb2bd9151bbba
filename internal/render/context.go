package render

import (
	"slices"

	"rigal/internal/config"
	"rigal/internal/gallery"
	"rigal/internal/mediatypes"
)

// Page is the rendering input for one album.
type Page struct {
	Album   *gallery.Album
	Context Value
	// Images lists the images shown on the page, in album order.
	Images []*gallery.Image
	// Fallbacks holds, per entry of Images, the page-relative link used
	// when the full-size original cannot be placed.
	Fallbacks []string
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Sizes are the configured thumbnail sizes; the first one is the
	// "thumbnail" of each image.
	Sizes     []int
	Originals config.OriginalsMode
}

// Builder projects the album tree into page contexts.
type Builder struct {
	opts BuilderOptions
}

// NewBuilder creates a Builder.
func NewBuilder(opts BuilderOptions) *Builder {
	return &Builder{opts: opts}
}

// Build returns the pages to render, children before parents. The root
// album always gets a page; other albums only when they show at least one
// image or sub-album.
func (b *Builder) Build(tree *gallery.Tree) []*Page {
	if tree == nil || tree.Root == nil {
		return nil
	}
	var pages []*Page
	b.build(tree.Root, &pages)
	return pages
}

func (b *Builder) build(a *gallery.Album, pages *[]*Page) bool {
	var links []Value
	for _, child := range a.Children {
		if b.build(child, pages) {
			links = append(links, String(child.Name+"/"))
		}
	}

	var shown []*gallery.Image
	var images []Value
	for _, img := range a.Images {
		if !img.Usable() {
			continue
		}
		shown = append(shown, img)
		images = append(images, b.imageValue(a, img))
	}

	if len(shown) == 0 && len(links) == 0 && !a.IsRoot() {
		return false
	}

	// Every album carries the same keys; parent and description are empty
	// strings when they do not apply.
	parent := ""
	if !a.IsRoot() {
		parent = "../"
	}
	album := Object(
		F("title", String(a.Title)),
		F("description", String(a.Description)),
		F("parent", String(parent)),
		F("images", Array(images...)),
		F("albums", Array(links...)),
	)

	fallbacks := make([]string, len(shown))
	for i, img := range shown {
		fallbacks[i] = b.largestThumbnail(a, img)
	}

	*pages = append(*pages, &Page{
		Album:     a,
		Context:   Object(F("album", album)),
		Images:    shown,
		Fallbacks: fallbacks,
	})
	return true
}

func (b *Builder) imageValue(a *gallery.Album, img *gallery.Image) Value {
	thumbs := make([]Value, 0, len(b.opts.Sizes))
	for _, size := range b.opts.Sizes {
		p, ok := img.Thumbnails[size]
		if !ok {
			continue
		}
		thumbs = append(thumbs, Object(
			F("size", Int(size)),
			F("path", String(gallery.RelativeTo(a.RelPath, p))),
		))
	}

	return Object(
		F("image", String(b.imageLink(a, img))),
		F("thumbnail", String(gallery.RelativeTo(a.RelPath, img.Thumbnails[b.firstSize(img)]))),
		F("width", Int(img.Width)),
		F("height", Int(img.Height)),
		F("thumbnails", Array(thumbs...)),
	)
}

// firstSize returns the first configured size the image has a thumbnail for.
func (b *Builder) firstSize(img *gallery.Image) int {
	for _, size := range b.opts.Sizes {
		if _, ok := img.Thumbnails[size]; ok {
			return size
		}
	}
	return 0
}

// imageLink returns the page-relative link to the full-size image.
func (b *Builder) imageLink(a *gallery.Album, img *gallery.Image) string {
	switch b.opts.Originals {
	case config.OriginalsResize:
		return OriginalName(b.opts.Originals, img.Name)
	case config.OriginalsLink:
		return b.largestThumbnail(a, img)
	default:
		return img.Name
	}
}

// largestThumbnail returns the page-relative link to the biggest configured
// thumbnail of img.
func (b *Builder) largestThumbnail(a *gallery.Album, img *gallery.Image) string {
	largest := 0
	for size := range img.Thumbnails {
		if slices.Contains(b.opts.Sizes, size) && size > largest {
			largest = size
		}
	}
	return gallery.RelativeTo(a.RelPath, img.Thumbnails[largest])
}

// withFallbacks returns the page context with the "image" link of each
// listed image index replaced by its fallback thumbnail link.
func (p *Page) withFallbacks(failed []int) Value {
	album, _ := p.Context.Get("album")
	images, _ := album.Get("images")

	items := slices.Clone(images.items)
	for _, i := range failed {
		if i < 0 || i >= len(items) || i >= len(p.Fallbacks) {
			continue
		}
		items[i] = items[i].With("image", String(p.Fallbacks[i]))
	}
	return p.Context.With("album", album.With("images", Array(items...)))
}

// OriginalName returns the file name of the placed original, or "" when
// originals are not placed.
func OriginalName(mode config.OriginalsMode, name string) string {
	switch mode {
	case config.OriginalsResize:
		return mediatypes.ThumbnailName(name)
	case config.OriginalsLink:
		return ""
	default:
		return name
	}
}
