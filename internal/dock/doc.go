// Package dock places panels into the dock areas around the editor.
//
// Each area holds an ordered list of tab stacks; a stack shows one panel at a
// time with the others as tabs:
//
//	left:   [FileListView DataGraphView]
//	right:  [WatchView LocalsView StackView BreakpointView TracepointView]
//	bottom: [GdbIoView PyIoView InferiorIoView]
//
// Manager keeps a non-owning reference to every attached panel, keyed by ID.
// A panel is attached at most once and lives in exactly one area.
//
// SaveState and RestoreState convert the arrangement to and from an opaque
// blob. Geometry is the companion blob describing the frame itself.
package dock
