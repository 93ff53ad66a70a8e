// Command video-client plays a looping video and fades it out when the
// pir-server reports no motion for a while. The video wakes up again on
// the next motion event.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/sweeney/pir-video/internal/client"
	"github.com/sweeney/pir-video/internal/config"
	"github.com/sweeney/pir-video/internal/discovery"
	"github.com/sweeney/pir-video/internal/fade"
	"github.com/sweeney/pir-video/internal/logging"
	"github.com/sweeney/pir-video/internal/video"
	"github.com/sweeney/pir-video/internal/wire"
)

var logger = logging.New("video-client")

// Keyboard controls.
const (
	keyEscape = 27
	keySpace  = 32
)

func main() {
	flag.Parse()

	cfg, err := config.LoadClient()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logging.SetLevel(cfg.Level())

	addr := flag.Arg(0)
	if addr == "" {
		addr, err = promptForServer(cfg, os.Stdin, discovery.Scan)
		if err != nil {
			logger.Fatalf("locate server: %v", err)
		}
	}

	if err := run(cfg, addr); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
}

// promptForServer asks whether to sweep the local subnet or take a
// manual address. The screen and sensor boxes normally sit on the
// same /24. An empty sweep drops back to manual entry instead of
// failing, since the operator is already at the prompt.
func promptForServer(cfg config.Client, in io.Reader, scan func(context.Context, int) (string, error)) (string, error) {
	stdin := bufio.NewReader(in)

	fmt.Println("1) Auto-detect server on local network")
	fmt.Println("2) Enter server address manually")
	fmt.Print("> ")

	choice, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(choice) == "2" {
		return readManualAddr(stdin, cfg.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	addr, err := scan(ctx, cfg.Port)
	if errors.Is(err, discovery.ErrNoServerFound) {
		fmt.Println("No server found on the local network.")
		return readManualAddr(stdin, cfg.Port)
	}
	return addr, err
}

func readManualAddr(stdin *bufio.Reader, port int) (string, error) {
	fmt.Print("Server IP: ")
	host, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(strings.TrimSpace(host), strconv.Itoa(port)), nil
}

func run(cfg config.Client, addr string) error {
	width, height, err := config.ParseRes(cfg.Res)
	if err != nil {
		return err
	}

	surface, err := video.NewSurface(cfg.VidPath, width, height)
	if err != nil {
		return err
	}
	defer surface.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Playback event loop: loops the file on EOS, surfaces pipeline
	// errors as fatal.
	videoErr := make(chan error, 1)
	go func() {
		videoErr <- surface.Run(ctx)
	}()
	if err := surface.Play(); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}

	c := client.New(addr)
	go c.Run(ctx)
	logger.Infof("connecting to %s", addr)

	keys, restore, err := watchKeyboard(ctx)
	if err != nil {
		logger.Warnf("keyboard input unavailable: %v", err)
	} else {
		defer restore()
	}

	ctrl := fade.NewController(fade.Config{
		Timeout:  cfg.Timeout(),
		Debounce: cfg.Debounce(),
		FadeOut:  cfg.FadeOut(),
		FadeIn:   cfg.FadeIn(),
	}, time.Now())

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return renderLoop(ctrl, surface, c.Connected, c.Latest, time.Now, ticker.C, keys, sigCh, videoErr)
}

// renderLoop drives the fade controller from the latest server state
// and applies the resulting opacity every frame. Split out so tests can
// drive the tick and key channels directly.
func renderLoop(ctrl *fade.Controller, surface video.Surface, connected func() bool, latest func() (wire.StateMessage, bool), now func() time.Time, tick <-chan time.Time, keys <-chan byte, sig <-chan os.Signal, videoErr <-chan error) error {
	prev := ctrl.State()

	for {
		select {
		case s := <-sig:
			logger.Infof("received %v, shutting down", s)
			return nil

		case err := <-videoErr:
			if err != nil {
				return fmt.Errorf("video playback: %w", err)
			}
			return nil

		case key := <-keys:
			switch key {
			case keyEscape:
				logger.Info("escape pressed, exiting")
				return nil
			case keySpace:
				logger.Info("manual motion trigger")
				ctrl.Trigger(true, now())
			}

		case <-tick:
			t := now()
			// Hold the fade in place while the connection is down: the
			// last message is stale and ticking the timer against it
			// would blank the video mid-outage.
			if connected() {
				msg, ok := latest()
				ctrl.Update(ok && msg.Motion, t)
			}

			if err := surface.SetOpacity(ctrl.Opacity()); err != nil {
				logger.Warnf("set opacity: %v", err)
			}

			// Pause playback while fully hidden, resume on wake.
			state := ctrl.State()
			if state == fade.StateHidden && prev != fade.StateHidden {
				surface.Pause()
			} else if state != fade.StateHidden && prev == fade.StateHidden {
				surface.Play()
			}
			prev = state
		}
	}
}

// watchKeyboard puts stdin into raw mode and streams key bytes. The
// returned restore func must run before the process exits or the
// terminal is left unusable.
func watchKeyboard(ctx context.Context) (<-chan byte, func(), error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	restore := func() { term.Restore(fd, oldState) }

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys, restore, nil
}
