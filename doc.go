/*
Package maskview holds the release information for a small set of packages that
treat "no data" pixels in images as a lazy, composable view rather than a buffer.

	pixel    Masked and Alpha pixel wrappers
	view     the View abstraction, images, per-pixel views, rasterization, caching
	mask     pointwise mask transforms and the edge mask
	core     logging, progress reporting and TOML configuration

The edgemask command in cmd/edgemask applies these views to image files.
*/
package maskview
