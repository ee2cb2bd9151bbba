// Package scanner walks the input directory and builds the album tree.
//
// Scanning is single-threaded and read-only. Each directory becomes an
// album; files are classified as images by extension using the mediatypes
// allow-list and everything else is ignored. Entries are visited in byte
// order of their names so repeated scans of the same tree produce the same
// album and image order.
//
// Hidden files and directories (prefixed with '.') are skipped, as are any
// excluded paths (normally the output directory when it lives inside the
// input tree). Directories are tracked by canonical path: a symbolic link
// that leads back to a directory already included is reported as a warning
// and not followed.
//
// Only a failure to read the root is fatal (*UnreadableError). Unreadable
// subdirectories, broken links and malformed album.toml files are recorded
// on the report and the scan carries on. Subtrees without any image are
// pruned; the root album is always returned.
package scanner
