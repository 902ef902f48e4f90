// Package board reorganizes the task hierarchy in response to drag gestures.
//
// The displayed container list for the selected scope (main, an area or a
// project) is derived from a models.Tree. Move computes the arrangement that
// results from dropping one entity onto another. Merge writes that arrangement
// back into the tree without touching sibling scopes. Both are pure: inputs are
// never mutated, so callers may keep earlier trees around.
//
// Unresolved identifiers never produce errors. The gesture that referenced them
// is simply a no-op.
package board
