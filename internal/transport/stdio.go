package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/julianstephens/tracklit/internal/logger"
)

// maxLineSize bounds one request line. Snapshot imports are the largest.
const maxLineSize = 64 << 20

// ServeStdio writes the startup signal to out and then answers one
// request per input line, in order, until in reaches EOF or ctx ends.
func ServeStdio(ctx context.Context, d Doer, in io.Reader, out io.Writer) error {
	enc := json.NewEncoder(out)

	sig, err := awaitStatus(ctx, d)
	if err != nil {
		return err
	}
	if err := enc.Encode(sig); err != nil {
		return fmt.Errorf("write signal: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	lines, errc := scanLines(in, stop)

	for {
		var line []byte
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			break
		}
		res, err := handle(ctx, d, line)
		if err != nil {
			return err
		}
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := <-errc; err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	logger.Debug("stdin closed")
	return nil
}

// scanLines reads non-blank lines from in on its own goroutine so a blocked
// read never holds up cancellation. The goroutine exits at EOF or once stop
// is closed and its pending read returns.
func scanLines(in io.Reader, stop <-chan struct{}) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- bytes.Clone(line):
			case <-stop:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
