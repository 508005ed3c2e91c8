// Package grouped computes collage frames for grouped media: an album of
// photos or videos sent together and drawn as one multi-tile bubble.
//
// # Overview
//
// Given an ordered set of items, each with a fixed content aspect ratio,
// [Layout.Measure] computes non-overlapping frames that fill a bounding box
// as tightly as possible while keeping each item's aspect ratio close to its
// content. Every frame is annotated with [PositionFlags] naming the edges that
// lie on the outside of the collage, so a renderer can round exactly those
// corners.
//
// Measuring runs in stages:
//
//  1. Aspect extraction: each item is resolved to a content size through a
//     [Resolver] and reduced to width/height. Zero or negative sizes are
//     clamped and reported through [Layout.Degenerate].
//  2. Exact layouts for two, three and four items, selected by classifying
//     each ratio as wide (> 1.2), narrow (< 0.8) or square.
//  3. A bounded search over row partitions for five or more items, or for
//     any set containing a ratio above 2.0. Each attempt is scored by how far
//     its total height lands from 4/3 of the box height.
//  4. Finalization: frames are floored to the device pixel grid for the scale
//     given by [WithScale], and the collage dimensions are taken from the
//     snapped frames.
//
// A single item keeps its content size at the origin. [KindFiles] switches to
// a vertical list of fixed-height rows used for grouped documents.
//
// # Interaction
//
// After measuring, frames can be looked up by id or list index, and a pointer
// location can be hit-tested with [Layout.ItemAt]. [Layout.MoveItemIfNeeded]
// reorders the item list while a tile is dragged but keeps the frames from
// the previous measure, so tiles stay put under the pointer until the caller
// measures again.
//
// A Layout is owned by one caller and is not safe for concurrent use.
package grouped
