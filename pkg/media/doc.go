// Package media turns files on disk into album items for the grouped
// layout engine.
//
// A [Photo] carries its pixel size, read from the image header by
// [DecodeFile] without decoding pixel data. JPEG, PNG, GIF, WebP, BMP and
// TIFF are understood. [Probe] fills in sizes for many files concurrently.
//
// Content sizes handed to the engine are pixel sizes scaled down to fit a
// reference bound ([ReferenceBound], 320x320 points), so that albums of
// large and small images measure alike.
package media
