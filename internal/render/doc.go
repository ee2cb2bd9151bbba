// Package render turns the album tree into pages.
//
// Builder is a pure transformation from the album tree to one Page per
// album, computed bottom-up. A parent lists its children only by link
// ("<name>/"), images without thumbnails are left out, and albums left with
// nothing to show are dropped from their parent's list.
//
// Renderer executes the theme's index.html template with a page's context,
// writes the result atomically to <output>/<album>/index.html and places
// the full-size originals next to it.
//
// The context handed to templates has this shape:
//
//	{ "album": {
//	    "title": string,
//	    "description": string,          // HTML, only when set in album.toml
//	    "parent": "../",                // not on the root album
//	    "images": [ {
//	        "image": string,
//	        "thumbnail": string,        // first configured size
//	        "width": number,
//	        "height": number,
//	        "thumbnails": [ {"size": number, "path": string}, ... ]
//	    }, ... ],
//	    "albums": [ "<name>/", ... ]
//	} }
package render
