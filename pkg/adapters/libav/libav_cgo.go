//go:build cgo

package libav

// #cgo pkg-config: libavformat libavcodec libavutil libswscale
// #include <stdlib.h>
// #include <libavformat/avformat.h>
// #include <libavcodec/avcodec.h>
// #include <libavutil/avutil.h>
// #include <libavutil/error.h>
// #include <libswscale/swscale.h>
//
// static int fs_err_eof(void) { return AVERROR_EOF; }
// static int fs_err_again(void) { return AVERROR(EAGAIN); }
//
// static AVStream *fs_stream(AVFormatContext *ctx, int i) { return ctx->streams[i]; }
//
// // Scales src into a single packed plane owned by the caller.
// static int fs_scale_into(struct SwsContext *sws, AVFrame *src, uint8_t *dst, int stride) {
//     uint8_t *planes[4] = { dst, NULL, NULL, NULL };
//     int strides[4] = { stride, 0, 0, 0 };
//     return sws_scale(sws, (const uint8_t * const *)src->data, src->linesize, 0, src->height, planes, strides);
// }
import "C"

import (
	"fmt"
	"io"
	"time"
	"unsafe"

	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

var (
	errEOF   = C.fs_err_eof()
	errAgain = C.fs_err_again()
)

// Available reports whether the backend can be used.
func Available() bool { return true }

// Backend implements ports.CodecBackend.
type Backend struct{}

// New creates the backend.
func New() (*Backend, error) {
	return &Backend{}, nil
}

func (b *Backend) Name() string { return Name }

func avError(op string, code C.int) error {
	buf := make([]C.char, 256)
	C.av_strerror(code, &buf[0], C.size_t(len(buf)))
	return fmt.Errorf("libav: %s: %s (%d)", op, C.GoString(&buf[0]), int(code))
}

// Probe opens the container and reads stream information.
func (b *Backend) Probe(path string) (ports.Container, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var ctx *C.AVFormatContext
	if r := C.avformat_open_input(&ctx, cpath, nil, nil); r < 0 {
		return nil, fmt.Errorf("%w: %w", ports.ErrProbeContainer, avError("open input", r))
	}
	if r := C.avformat_find_stream_info(ctx, nil); r < 0 {
		C.avformat_close_input(&ctx)
		return nil, fmt.Errorf("%w: %w", ports.ErrProbeStreamInfo, avError("find stream info", r))
	}

	pkt := C.av_packet_alloc()
	if pkt == nil {
		C.avformat_close_input(&ctx)
		return nil, fmt.Errorf("%w: could not allocate packet", ports.ErrProbeContainer)
	}

	c := &container{ctx: ctx, pkt: pkt}
	c.streams = c.readStreams()
	return c, nil
}

// NewConverter creates a swscale context for the key.
func (b *Backend) NewConverter(key ports.ConverterKey) (ports.Converter, error) {
	var dstFmt C.enum_AVPixelFormat
	switch key.DstFormat {
	case frame.PackedRGB:
		dstFmt = C.AV_PIX_FMT_RGB24
	case frame.PackedRGBA:
		dstFmt = C.AV_PIX_FMT_RGBA
	case frame.Gray8:
		dstFmt = C.AV_PIX_FMT_GRAY8
	default:
		return nil, fmt.Errorf("libav: unsupported destination format %s", key.DstFormat)
	}

	sws := C.sws_getContext(
		C.int(key.SrcWidth), C.int(key.SrcHeight), C.enum_AVPixelFormat(key.SrcFormat),
		C.int(key.DstWidth), C.int(key.DstHeight), dstFmt,
		C.SWS_BILINEAR, nil, nil, nil)
	if sws == nil {
		return nil, fmt.Errorf("libav: no conversion from %dx%d fmt %d to %dx%d %s",
			key.SrcWidth, key.SrcHeight, key.SrcFormat, key.DstWidth, key.DstHeight, key.DstFormat)
	}
	return &converter{sws: sws, key: key}, nil
}

type container struct {
	ctx     *C.AVFormatContext
	pkt     *C.AVPacket
	streams []ports.StreamInfo
}

func (c *container) readStreams() []ports.StreamInfo {
	n := int(c.ctx.nb_streams)
	infos := make([]ports.StreamInfo, 0, n)
	for i := 0; i < n; i++ {
		st := C.fs_stream(c.ctx, C.int(i))
		par := st.codecpar

		info := ports.StreamInfo{
			Index:      i,
			CodecName:  C.GoString(C.avcodec_get_name(par.codec_id)),
			FrameRate:  ports.Rational{Num: int(st.avg_frame_rate.num), Den: int(st.avg_frame_rate.den)},
			TimeBase:   ports.Rational{Num: int(st.time_base.num), Den: int(st.time_base.den)},
			FrameCount: int64(st.nb_frames),
			BitRate:    int64(par.bit_rate),
		}
		switch par.codec_type {
		case C.AVMEDIA_TYPE_VIDEO:
			info.Type = ports.MediaVideo
			info.Width = int(par.width)
			info.Height = int(par.height)
		case C.AVMEDIA_TYPE_AUDIO:
			info.Type = ports.MediaAudio
		case C.AVMEDIA_TYPE_DATA, C.AVMEDIA_TYPE_SUBTITLE:
			info.Type = ports.MediaData
		}
		if st.duration > 0 && st.time_base.den > 0 {
			secs := float64(st.duration) * float64(st.time_base.num) / float64(st.time_base.den)
			info.Duration = time.Duration(secs * float64(time.Second))
		}
		infos = append(infos, info)
	}
	return infos
}

func (c *container) Streams() []ports.StreamInfo {
	return c.streams
}

func (c *container) BestVideoStream() (int, bool) {
	idx := C.av_find_best_stream(c.ctx, C.AVMEDIA_TYPE_VIDEO, -1, -1, nil, 0)
	if idx < 0 {
		return -1, false
	}
	return int(idx), true
}

func (c *container) OpenCodec(streamIndex int) (ports.CodecSession, error) {
	if streamIndex < 0 || streamIndex >= int(c.ctx.nb_streams) {
		return nil, fmt.Errorf("libav: no stream %d", streamIndex)
	}
	par := C.fs_stream(c.ctx, C.int(streamIndex)).codecpar

	codec := C.avcodec_find_decoder(par.codec_id)
	if codec == nil {
		return nil, fmt.Errorf("libav: no decoder for %s", C.GoString(C.avcodec_get_name(par.codec_id)))
	}

	cctx := C.avcodec_alloc_context3(codec)
	if cctx == nil {
		return nil, fmt.Errorf("libav: could not allocate codec context")
	}
	if r := C.avcodec_parameters_to_context(cctx, par); r < 0 {
		C.avcodec_free_context(&cctx)
		return nil, avError("copy codec parameters", r)
	}
	if r := C.avcodec_open2(cctx, codec, nil); r < 0 {
		C.avcodec_free_context(&cctx)
		return nil, avError("open codec", r)
	}

	fr := C.av_frame_alloc()
	if fr == nil {
		C.avcodec_free_context(&cctx)
		return nil, fmt.Errorf("libav: could not allocate frame")
	}
	return &session{cctx: cctx, frame: fr}, nil
}

// ReadPacket reuses one AVPacket; the previous packet is released first.
func (c *container) ReadPacket() (ports.Packet, error) {
	C.av_packet_unref(c.pkt)
	r := C.av_read_frame(c.ctx, c.pkt)
	if r == errEOF {
		return nil, io.EOF
	}
	if r < 0 {
		return nil, avError("read frame", r)
	}
	return &packet{pkt: c.pkt}, nil
}

func (c *container) Close() error {
	if c.pkt != nil {
		C.av_packet_free(&c.pkt)
	}
	if c.ctx != nil {
		C.avformat_close_input(&c.ctx)
	}
	return nil
}

type packet struct {
	pkt *C.AVPacket
}

func (p *packet) StreamIndex() int { return int(p.pkt.stream_index) }

type session struct {
	cctx  *C.AVCodecContext
	frame *C.AVFrame
}

func (s *session) Send(pkt ports.Packet) error {
	var avpkt *C.AVPacket
	if pkt != nil {
		p, ok := pkt.(*packet)
		if !ok {
			return fmt.Errorf("libav: foreign packet %T", pkt)
		}
		avpkt = p.pkt
	}

	r := C.avcodec_send_packet(s.cctx, avpkt)
	switch {
	case r == 0:
		return nil
	case r == errEOF:
		return io.EOF
	default:
		return avError("send packet", r)
	}
}

func (s *session) Receive() (ports.RawFrame, error) {
	r := C.avcodec_receive_frame(s.cctx, s.frame)
	switch {
	case r == 0:
		return &rawFrame{frame: s.frame}, nil
	case r == errAgain:
		return nil, ports.ErrNeedMoreInput
	case r == errEOF:
		return nil, io.EOF
	default:
		return nil, avError("receive frame", r)
	}
}

func (s *session) Close() error {
	if s.frame != nil {
		C.av_frame_free(&s.frame)
	}
	if s.cctx != nil {
		C.avcodec_free_context(&s.cctx)
	}
	return nil
}

type rawFrame struct {
	frame *C.AVFrame
}

func (f *rawFrame) Width() int                 { return int(f.frame.width) }
func (f *rawFrame) Height() int                { return int(f.frame.height) }
func (f *rawFrame) Format() ports.NativeFormat { return ports.NativeFormat(f.frame.format) }
func (f *rawFrame) PTS() int64                 { return int64(f.frame.best_effort_timestamp) }

type converter struct {
	sws *C.struct_SwsContext
	key ports.ConverterKey
}

func (c *converter) Convert(src ports.RawFrame, dst []byte, stride int) error {
	raw, ok := src.(*rawFrame)
	if !ok {
		return fmt.Errorf("libav: foreign frame %T", src)
	}
	if c.key.DstHeight <= 0 || stride <= 0 || len(dst) < stride*c.key.DstHeight {
		return fmt.Errorf("libav: destination buffer too small for %d rows of %d bytes", c.key.DstHeight, stride)
	}

	rows := C.fs_scale_into(c.sws, raw.frame, (*C.uint8_t)(unsafe.Pointer(&dst[0])), C.int(stride))
	if rows < 0 {
		return avError("scale", rows)
	}
	if int(rows) != c.key.DstHeight {
		return fmt.Errorf("libav: scaled %d rows, expected %d", int(rows), c.key.DstHeight)
	}
	return nil
}

func (c *converter) Close() error {
	if c.sws != nil {
		C.sws_freeContext(c.sws)
		c.sws = nil
	}
	return nil
}

var (
	_ ports.CodecBackend = (*Backend)(nil)
	_ ports.Container    = (*container)(nil)
	_ ports.CodecSession = (*session)(nil)
	_ ports.Converter    = (*converter)(nil)
)
