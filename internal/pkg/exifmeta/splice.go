package exifmeta

import (
	"fmt"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure"
)

// ExtractSegment pulls the complete EXIF APP1 marker segment out of a
// JPEG, ready to be injected into another one. Reports false when the
// file is not a parseable JPEG or carries no EXIF.
func (e *Extractor) ExtractSegment(jpg []byte) ([]byte, bool) {
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseBytes(jpg)
	if err != nil {
		return nil, false
	}
	sl, ok := intfc.(*jpegstructure.SegmentList)
	if !ok {
		return nil, false
	}
	_, segment, err := sl.FindExif()
	if err != nil {
		return nil, false
	}

	// Marker segment layout: FF E1, two length bytes covering themselves
	// plus the payload, then the payload.
	payloadLen := len(segment.Data) + 2
	if payloadLen > 0xFFFF {
		return nil, false
	}
	out := make([]byte, 0, 4+len(segment.Data))
	out = append(out, 0xFF, jpegstructure.MARKER_APP1, byte(payloadLen>>8), byte(payloadLen))
	out = append(out, segment.Data...)
	return out, true
}

// InjectSegment splices a marker segment into a JPEG directly after the
// start-of-image marker, where EXIF readers expect it.
func (e *Extractor) InjectSegment(jpg, segment []byte) ([]byte, error) {
	if len(jpg) < 2 || jpg[0] != 0xFF || jpg[1] != 0xD8 {
		return nil, ErrNotJPEG
	}
	if len(segment) < 4 || segment[0] != 0xFF || segment[1] != jpegstructure.MARKER_APP1 {
		return nil, ErrBadSegment
	}
	if declared := int(segment[2])<<8 | int(segment[3]); declared+2 != len(segment) {
		return nil, fmt.Errorf("%w: declares %d bytes, has %d", ErrBadSegment, declared+2, len(segment))
	}

	out := make([]byte, 0, len(jpg)+len(segment))
	out = append(out, jpg[:2]...)
	out = append(out, segment...)
	out = append(out, jpg[2:]...)
	return out, nil
}
