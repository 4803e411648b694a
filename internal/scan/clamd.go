// Package scan checks uploaded files with a clamd daemon.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected is returned when clamd flags a stream.
var ErrInfected = errors.New("malicious file detected")

// ClamdScanner streams files to clamd over INSTREAM.
type ClamdScanner struct {
	client *clamd.Clamd
}

// NewClamdScanner returns nil when addr is empty so callers can skip scanning.
func NewClamdScanner(addr string) *ClamdScanner {
	if addr == "" {
		return nil
	}
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

// Scan returns nil for a clean stream, ErrInfected for a hit and a wrapped error otherwise.
func (s *ClamdScanner) Scan(ctx context.Context, r io.Reader) error {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result, ok := <-results:
			if !ok {
				return nil
			}
			if err := interpret(result); err != nil {
				return err
			}
		}
	}
}

func interpret(result *clamd.ScanResult) error {
	if result == nil {
		return nil
	}
	switch result.Status {
	case clamd.RES_OK:
		return nil
	case clamd.RES_FOUND:
		return fmt.Errorf("%w: %s", ErrInfected, result.Description)
	default:
		return fmt.Errorf("clamd %s: %s", result.Status, result.Description)
	}
}
