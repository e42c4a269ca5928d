package renderer

import "errors"

var (
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrBadFrameDims     = errors.New("renderer: frame dimensions must be positive")
	ErrBadSampleCount   = errors.New("renderer: samples per pixel must be positive")
)
