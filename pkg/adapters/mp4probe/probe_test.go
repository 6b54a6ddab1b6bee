package mp4probe

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"
)

// buildFragmentedAV1 writes a minimal fragmented MP4 with one av01 track.
func buildFragmentedAV1(t *testing.T, width, height uint16, samples int) []byte {
	t.Helper()

	const timescale = 30000
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")
	trak := init.Moov.Trak

	av1C := &mp4.Av1CBox{CodecConfRec: av1.CodecConfRec{
		Version:            1,
		SeqLevelIdx0:       8,
		ChromaSubsamplingX: 1,
		ChromaSubsamplingY: 1,
	}}
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("av01", width, height, av1C))
	trak.Tkhd.Width = mp4.Fixed32(uint32(width) << 16)
	trak.Tkhd.Height = mp4.Fixed32(uint32(height) << 16)

	frag, err := mp4.CreateFragment(1, 1)
	if err != nil {
		t.Fatalf("create fragment: %v", err)
	}
	for i := 0; i < samples; i++ {
		data := []byte{0x12, 0x00, byte(i)}
		frag.AddFullSample(mp4.FullSample{
			Sample:     mp4.Sample{Flags: mp4.SyncSampleFlags, Size: uint32(len(data)), Dur: 1000},
			DecodeTime: uint64(i * 1000),
			Data:       data,
		})
	}

	var buf bytes.Buffer
	if err := mp4.NewFtyp("isom", 0x200, []string{"isom", "av01"}).Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	if err := frag.Encode(&buf); err != nil {
		t.Fatalf("encode fragment: %v", err)
	}
	return buf.Bytes()
}

func TestProbeBytes_FragmentedAV1(t *testing.T) {
	report, err := ProbeBytes(buildFragmentedAV1(t, 64, 48, 3))
	if err != nil {
		t.Fatalf("ProbeBytes failed: %v", err)
	}

	if !report.Fragmented {
		t.Error("expected fragmented file")
	}
	video, ok := report.Video()
	if !ok {
		t.Fatal("expected a video track")
	}
	if video.Codec != CodecAV1 || video.SampleEntry != "av01" {
		t.Errorf("expected av1/av01, got %s/%s", video.Codec, video.SampleEntry)
	}
	if video.Width != 64 || video.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", video.Width, video.Height)
	}
	if video.Timescale != 30000 {
		t.Errorf("expected timescale 30000, got %d", video.Timescale)
	}
	if video.SampleCount != 3 {
		t.Errorf("expected 3 samples, got %d", video.SampleCount)
	}
}

func TestProbeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, buildFragmentedAV1(t, 32, 32, 1), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := ProbeFile(path)
	if err != nil {
		t.Fatalf("ProbeFile failed: %v", err)
	}
	if len(report.Tracks) != 1 {
		t.Errorf("expected 1 track, got %d", len(report.Tracks))
	}
}

func TestProbe_NotMP4(t *testing.T) {
	mpegPS := []byte{0x00, 0x00, 0x01, 0xBA, 0x44, 0x00, 0x04, 0x00, 0x04, 0x01}
	if _, err := ProbeBytes(mpegPS); !errors.Is(err, ErrNotMP4) {
		t.Errorf("expected ErrNotMP4, got %v", err)
	}
	if _, err := ProbeBytes([]byte{1, 2}); !errors.Is(err, ErrNotMP4) {
		t.Errorf("expected ErrNotMP4 for short input, got %v", err)
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   bool
	}{
		{"ftyp", []byte("\x00\x00\x00\x18ftypisom"), true},
		{"moov", []byte("\x00\x00\x01\x00moov"), true},
		{"mpeg-ps", []byte{0, 0, 1, 0xBA, 0, 0, 0, 0}, false},
		{"short", []byte("ftyp"), false},
	}
	for _, tt := range tests {
		if got := Sniff(tt.header); got != tt.want {
			t.Errorf("%s: Sniff = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCodecFor(t *testing.T) {
	cases := map[string]Codec{
		"avc1": CodecH264,
		"avc3": CodecH264,
		"hev1": CodecHEVC,
		"av01": CodecAV1,
		"vp09": CodecVP9,
		"mp4a": CodecUnknown,
	}
	for entry, want := range cases {
		if got := codecFor(entry); got != want {
			t.Errorf("codecFor(%q) = %s, want %s", entry, got, want)
		}
	}
}
