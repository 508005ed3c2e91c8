// Package manifest reads and writes album manifests.
//
// A manifest lists the items of one album in display order, in TOML or
// JSON:
//
//	id = "summer"
//	title = "Summer 2024"
//
//	[[items]]
//	id = "beach"
//	path = "beach.jpg"
//
//	[[items]]
//	id = "clip"
//	type = "video"
//	width = 1920
//	height = 1080
//
// Photo sizes may be left out and are read from the image files. Relative
// paths are resolved against the manifest's directory. The same [Album]
// type is stored by the album stores and served over HTTP.
package manifest
