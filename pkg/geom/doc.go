// Package geom provides the small set of geometric value types shared by the
// collage engine, its renderers and its hit-testing callers.
//
// All coordinates use a top-left origin with y growing downward, in points.
// Device pixels are reached through [Snap] with an explicit scale factor;
// nothing in this package holds global display state.
package geom
