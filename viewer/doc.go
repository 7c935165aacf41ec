// Package viewer drives one frame of the Mandelbrot viewer.
//
// Each call to RenderFrame takes the live render target from the surface
// authority, packs a fresh settings block from the current view and the
// target's physical resolution, runs the selected renderer and hands the
// result to a presentation callback, all under the authority's frame lock.
//
// The view is either a fixed Viewport (stretched to the surface) or a
// Camera whose visible region follows the surface's aspect ratio. Pan, Zoom
// and Reset move the camera. A frame is only re-sampled when something it
// depends on changed: the view, the resolution, the iteration limit, the
// backend or the target itself.
package viewer
