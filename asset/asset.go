// Package asset provides asynchronous (pre)loading and caching of images,
// fonts and raw files from an overlay filesystem.
package asset

import (
	"io"
	"path"
)

// Type designates the type of an asset.
//
type Type int

const (
	TypeFont = iota
	TypeImage
	TypeFile

	typeLast
)

// Asset uniquely describes an asset.
//
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeFont:
		return "font asset " + a.Name
	case TypeImage:
		return "image asset " + a.Name
	case TypeFile:
		return "file asset " + a.Name
	}
	return "unknown asset " + a.Name
}

// Font returns the Asset descriptor for the named font.
func Font(name string) Asset { return Asset{TypeFont, name} }

// Image returns the Asset descriptor for the named image.
func Image(name string) Asset { return Asset{TypeImage, name} }

// File returns the Asset descriptor for the named raw file.
func File(name string) Asset { return Asset{TypeFile, name} }

// Result wraps the result from preloading an asset.
//
type Result struct {
	Asset
	Err error
}

type loaderFunc func(r io.Reader, name string) (interface{}, error)

var loaders = [typeLast]loaderFunc{
	TypeFont:  loadFont,
	TypeImage: loadImage,
	TypeFile:  loadFile,
}

type config struct {
	fontPath  string
	imagePath string
	filePath  string
}

func (cfg *config) assetPath(a Asset) string {
	switch a.Type {
	case TypeFont:
		return path.Join(cfg.fontPath, a.Name)
	case TypeImage:
		return path.Join(cfg.imagePath, a.Name)
	case TypeFile:
		return path.Join(cfg.filePath, a.Name)
	}
	return a.Name
}

// Option is implemented by option functions passed as arguments to NewManager.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

type closer interface {
	Close() error
}
