// Package mp4probe inspects MP4 containers without decoding them: track
// listing, sample entry codecs, geometry, timescales and sample counts.
package mp4probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
)

// ErrNotMP4 is returned when the data does not start with an ftyp or moov box.
var ErrNotMP4 = errors.New("mp4probe: not an MP4 file")

// Codec names the video coding of a track.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecVP9     Codec = "vp9"
	CodecUnknown Codec = "unknown"
)

// Track describes one trak box.
type Track struct {
	ID          uint32
	Handler     string // "vide", "soun", ...
	SampleEntry string // "avc1", "av01", "mp4a", ...
	Codec       Codec
	Width       int
	Height      int
	Timescale   uint32
	Duration    time.Duration
	SampleCount int
}

// IsVideo reports whether the track carries video.
func (t Track) IsVideo() bool {
	return t.Handler == "vide"
}

// Report is the result of probing a file.
type Report struct {
	Fragmented bool
	Duration   time.Duration
	Tracks     []Track
}

// Video returns the first video track.
func (r *Report) Video() (Track, bool) {
	for _, t := range r.Tracks {
		if t.IsVideo() {
			return t, true
		}
	}
	return Track{}, false
}

// Sniff reports whether header looks like the beginning of an MP4 file.
// At least 8 bytes are needed.
func Sniff(header []byte) bool {
	if len(header) < 8 {
		return false
	}
	switch string(header[4:8]) {
	case "ftyp", "moov", "styp":
		return true
	}
	return false
}

// ProbeFile inspects the MP4 file at path.
func ProbeFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Probe(f)
}

// ProbeBytes inspects MP4 data held in memory.
func ProbeBytes(data []byte) (*Report, error) {
	return Probe(bytes.NewReader(data))
}

// Probe inspects an MP4 stream. The reader is left at its start.
func Probe(r io.ReadSeeker) (*Report, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil || !Sniff(header) {
		return nil, ErrNotMP4
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	file, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	return reportFromFile(file), nil
}

func reportFromFile(file *mp4.File) *Report {
	report := &Report{Fragmented: file.IsFragmented()}

	moov := file.Moov
	if report.Fragmented && file.Init != nil {
		moov = file.Init.Moov
	}
	if moov == nil {
		return report
	}

	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 {
		report.Duration = scale(moov.Mvhd.Duration, moov.Mvhd.Timescale)
	}

	for _, trak := range moov.Traks {
		report.Tracks = append(report.Tracks, trackFromTrak(trak))
	}

	if report.Fragmented {
		countFragmentSamples(file, report)
	}
	return report
}

func trackFromTrak(trak *mp4.TrakBox) Track {
	t := Track{Codec: CodecUnknown}
	if trak.Tkhd != nil {
		t.ID = trak.Tkhd.TrackID
	}

	mdia := trak.Mdia
	if mdia == nil {
		return t
	}
	if mdia.Hdlr != nil {
		t.Handler = mdia.Hdlr.HandlerType
	}
	if mdia.Mdhd != nil {
		t.Timescale = mdia.Mdhd.Timescale
		if t.Timescale > 0 {
			t.Duration = scale(mdia.Mdhd.Duration, t.Timescale)
		}
	}

	if mdia.Minf == nil || mdia.Minf.Stbl == nil {
		return t
	}
	stbl := mdia.Minf.Stbl

	if stbl.Stsz != nil {
		t.SampleCount = int(stbl.Stsz.SampleNumber)
	}

	if stbl.Stsd != nil && len(stbl.Stsd.Children) > 0 {
		entry := stbl.Stsd.Children[0]
		t.SampleEntry = entry.Type()
		t.Codec = codecFor(t.SampleEntry)
		if vse, ok := entry.(*mp4.VisualSampleEntryBox); ok {
			t.Width = int(vse.Width)
			t.Height = int(vse.Height)
		}
	}
	return t
}

func countFragmentSamples(file *mp4.File, report *Report) {
	counts := make(map[uint32]int)
	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil {
					continue
				}
				for _, trun := range traf.Truns {
					counts[traf.Tfhd.TrackID] += int(trun.SampleCount())
				}
			}
		}
	}
	for i := range report.Tracks {
		report.Tracks[i].SampleCount += counts[report.Tracks[i].ID]
	}
}

func codecFor(entry string) Codec {
	switch entry {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "vp09":
		return CodecVP9
	}
	return CodecUnknown
}

func scale(value uint64, timescale uint32) time.Duration {
	return time.Duration(float64(value) / float64(timescale) * float64(time.Second))
}
