//go:build linux && cgo

package video

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tinyzimmer/go-gst/gst"

	"github.com/sweeney/pir-video/internal/logging"
)

var logger = logging.New("video")

// GstSurface plays a local video file fullscreen through a GStreamer
// pipeline:
//
//	filesrc → decodebin → videoconvert → videoscale → capsfilter →
//	videobalance → videoconvert → autovideosink
//
// Opacity is mapped onto videobalance brightness: opacity 1 is normal
// brightness (0.0), opacity 0 is fully black (-1.0).
type GstSurface struct {
	pipeline *gst.Pipeline
	balance  *gst.Element
	path     string
}

// NewSurface builds the playback pipeline for the given file. The
// pipeline is left in the NULL state; call Play to start.
func NewSurface(path string, width, height int) (*GstSurface, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video asset %s: %w", path, err)
	}

	// Safe to call multiple times.
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	src, err := gst.NewElement("filesrc")
	if err != nil {
		return nil, fmt.Errorf("failed to create filesrc: %w", err)
	}
	src.SetProperty("location", path)

	decode, err := gst.NewElement("decodebin")
	if err != nil {
		return nil, fmt.Errorf("failed to create decodebin: %w", err)
	}

	convertIn, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("failed to create videoconvert: %w", err)
	}

	scale, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, fmt.Errorf("failed to create videoscale: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("failed to create capsfilter: %w", err)
	}
	capsStr := fmt.Sprintf("video/x-raw,width=%d,height=%d", width, height)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	balance, err := gst.NewElement("videobalance")
	if err != nil {
		return nil, fmt.Errorf("failed to create videobalance: %w", err)
	}

	convertOut, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("failed to create videoconvert: %w", err)
	}

	sink, err := gst.NewElement("autovideosink")
	if err != nil {
		return nil, fmt.Errorf("failed to create autovideosink: %w", err)
	}

	pipeline.AddMany(src, decode, convertIn, scale, capsfilter, balance, convertOut, sink)

	if err := src.Link(decode); err != nil {
		return nil, fmt.Errorf("failed to link filesrc to decodebin: %w", err)
	}
	if err := gst.ElementLinkMany(convertIn, scale, capsfilter, balance, convertOut, sink); err != nil {
		return nil, fmt.Errorf("failed to link pipeline elements: %w", err)
	}

	// decodebin pads only exist once the stream is probed, so the link
	// into videoconvert happens from the pad-added callback.
	decode.Connect("pad-added", func(self *gst.Element, srcPad *gst.Pad) {
		sinkPad := convertIn.GetStaticPad("sink")
		if sinkPad == nil {
			logger.Error("failed to get videoconvert sink pad")
			return
		}
		if sinkPad.IsLinked() {
			return
		}
		if ret := srcPad.Link(sinkPad); ret != gst.PadLinkOK {
			logger.Errorf("failed to link decodebin pad: %v", ret)
		}
	})

	return &GstSurface{
		pipeline: pipeline,
		balance:  balance,
		path:     path,
	}, nil
}

// Play starts (or resumes) playback.
func (s *GstSurface) Play() error {
	return s.pipeline.SetState(gst.StatePlaying)
}

// Pause freezes playback on the current frame.
func (s *GstSurface) Pause() error {
	return s.pipeline.SetState(gst.StatePaused)
}

// SetOpacity maps opacity in [0, 1] onto videobalance brightness.
func (s *GstSurface) SetOpacity(opacity float64) error {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return s.balance.SetProperty("brightness", opacity-1.0)
}

// Run watches the pipeline bus until ctx is canceled, restarting
// playback from the top on end-of-stream.
func (s *GstSurface) Run(ctx context.Context) error {
	bus := s.pipeline.GetPipelineBus()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			msg := bus.TimedPop(50 * time.Millisecond)
			if msg == nil {
				continue
			}

			switch msg.Type() {
			case gst.MessageEOS:
				logger.Debugf("end of %s, looping", s.path)
				if err := s.restart(); err != nil {
					return err
				}

			case gst.MessageError:
				gerr := msg.ParseError()
				return fmt.Errorf("pipeline error: %s", gerr.Error())
			}
		}
	}
}

// restart rewinds the pipeline by cycling it through NULL. decodebin
// does not support flushing seeks on every demuxer, so a state cycle is
// the reliable way to loop.
func (s *GstSurface) restart() error {
	if err := s.pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return s.pipeline.SetState(gst.StatePlaying)
}

// Close tears the pipeline down.
func (s *GstSurface) Close() error {
	return s.pipeline.SetState(gst.StateNull)
}
