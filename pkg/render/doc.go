// Package render draws oriented skeleton graphs.
//
// # Overview
//
// [ToDOT] writes a [dag.DAG] as Graphviz DOT. Soma nodes are drawn as filled
// ellipses, every other node as a box. When back edges are supplied (only
// possible when cycles were allowed during orientation) they are drawn
// dashed and red so loops in the reconstruction stand out.
//
//	dot := render.ToDOT(g.DAG, render.Options{Roots: g.Roots})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Format Conversion
//
// [RenderSVG] lays the graph out with the embedded Graphviz library. The
// [ToPDF] and [ToPNG] functions convert SVG to other formats using the
// external rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
package render
