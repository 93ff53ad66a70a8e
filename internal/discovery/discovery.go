// Package discovery locates a pir-server on the local network by
// scanning the /24 subnet of the machine's primary interface.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sweeney/pir-video/internal/logging"
	"golang.org/x/sync/errgroup"
)

var logger = logging.New("discovery")

// ErrNoServerFound is returned when no host on the subnet accepts a
// connection on the server port.
var ErrNoServerFound = errors.New("no server found on subnet")

// connectTimeout is the per-host probe timeout. Hosts that are down
// simply never answer, so this stays short to keep the full sweep fast.
const connectTimeout = 50 * time.Millisecond

// maxProbes bounds concurrent connection attempts during a sweep.
const maxProbes = 32

// LocalIP returns the primary outbound IPv4 address of this machine.
// No packets are sent; the UDP dial only selects a route.
func LocalIP() (net.IP, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil, fmt.Errorf("determine local address: %w", err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected local address type %T", conn.LocalAddr())
	}
	ip := addr.IP.To4()
	if ip == nil {
		return nil, fmt.Errorf("local address %s is not IPv4", addr.IP)
	}
	return ip, nil
}

// Scan sweeps the local /24 subnet for a host accepting connections on
// the given port and returns its address as "host:port".
func Scan(ctx context.Context, port int) (string, error) {
	ip, err := LocalIP()
	if err != nil {
		return "", err
	}

	hosts := make([]string, 0, 254)
	for i := 1; i <= 254; i++ {
		hosts = append(hosts, fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], i))
	}
	logger.Infof("scanning %d.%d.%d.0/24 for port %d", ip[0], ip[1], ip[2], port)

	return ScanHosts(ctx, hosts, port, connectTimeout)
}

// ScanHosts probes the given hosts concurrently and returns the first
// one accepting TCP connections on port. The probe connection is closed
// immediately; the caller dials again to actually talk to the server.
func ScanHosts(parent context.Context, hosts []string, port int, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		mu    sync.Mutex
		found string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProbes)

	dialer := net.Dialer{Timeout: timeout}
	for _, host := range hosts {
		host := host
		g.Go(func() error {
			addr := net.JoinHostPort(host, strconv.Itoa(port))
			conn, err := dialer.DialContext(ctx, "tcp", addr)
			if err != nil {
				return nil // host down or port closed, keep sweeping
			}
			conn.Close()

			mu.Lock()
			if found == "" {
				found = addr
			}
			mu.Unlock()
			cancel() // stop remaining probes
			return nil
		})
	}
	g.Wait()

	if found == "" {
		// The inner context is always dead after Wait (errgroup cancels
		// it), so caller cancellation must be read off the parent.
		if err := parent.Err(); err != nil {
			return "", err
		}
		return "", ErrNoServerFound
	}
	logger.Infof("found server at %s", found)
	return found, nil
}
