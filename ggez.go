// Package ggez provides the core building blocks of a 2D game framework:
// GPU accelerated sprite rendering, image and font assets, and frame timing.
//
// The root package only holds the small data types shared by the
// sub-packages. Rendering lives in package graphics, asset management in
// package asset, text rendering in package text and frame timing in
// package timer.
package ggez
