// Package pkg provides the libraries behind skeletonize.
//
// # Overview
//
// Skeletonize turns a measured skeleton (an undirected graph of 3-D sample
// points) into a rooted morphology grown outward from the soma. The pkg
// directory is organized by stage:
//
//  1. [skeleton], [annotation] - input data and soma/stack annotations
//  2. [dag] - orientation, segment mapping and validation
//  3. [grow] - spatial frame, growth options and the growth walk
//  4. [morph] - the morphology sink and its SWC/JSON writers
//  5. [pipeline] - orchestration, options and config files
//  6. [render] - Graphviz drawings of the oriented graph
//
// # Architecture
//
// The data flow through a conversion:
//
//	skeleton + annotations
//	         ↓
//	    [dag] package (undirected graph → oriented DAG → segment map)
//	         ↓
//	    [grow] package (soma placement + growth walk)
//	         ↓
//	    [morph] package (sections, cut flags)
//	         ↓
//	    SWC/JSON output
//
// Warnings along the way are counted in [stats]; validation failures are
// reported as coded [errors].
package pkg
