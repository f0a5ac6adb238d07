package entity

// VideoInfo is the stream metadata reported by the prober at open time.
type VideoInfo struct {
	Path       string
	Width      int
	Height     int
	FrameCount int
	FPS        float64
	Duration   float64
}

// Frame is one decoded frame as packed RGB24, row-major, 3 bytes per pixel.
// Index is the position of the frame in the original stream.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	Index  int
}
