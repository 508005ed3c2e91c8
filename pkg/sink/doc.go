// Package sink renders measured album layouts to SVG, PNG, PDF and JSON.
//
// Every sink takes a [grouped.Export], so a layout read back from the cache
// renders the same as a fresh one. Tiles are drawn as paths whose corners
// are rounded only where both adjacent edges lie on the outside of the
// collage, as given by the tile's position flags; a lone item is rounded on
// all four corners.
//
// PNG and PDF are produced by converting the SVG with rsvg-convert, which
// must be on PATH (brew install librsvg, apt install librsvg2-bin).
package sink
