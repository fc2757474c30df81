package mjpeg

import (
	"bufio"
	"io"
)

const (
	Boundary    = "frame"
	ContentType = "multipart/x-mixed-replace; boundary=" + Boundary
)

var (
	partHeader  = []byte("--" + Boundary + "\r\nContent-Type: image/jpeg\r\n\r\n")
	partTrailer = []byte("\r\n")
)

// WritePart writes one JPEG as a multipart/x-mixed-replace part.
func WritePart(w io.Writer, jpeg []byte) error {
	if _, err := w.Write(partHeader); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := w.Write(partTrailer)
	return err
}

// Stream writes every frame received on frames and flushes after each
// one. It returns when frames is closed or the client goes away.
func Stream(w *bufio.Writer, frames <-chan []byte) error {
	for jpeg := range frames {
		if err := WritePart(w, jpeg); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
