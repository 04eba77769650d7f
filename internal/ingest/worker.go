// Package ingest runs the serial-to-store pipeline: raw bytes through the
// frame scanner, registry lookup, signal decode, and store append. One worker
// owns the stream for the process lifetime; decode problems are absorbed and
// counted, never surfaced to readers of the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/telemctl/internal/frame"
	"github.com/danmuck/telemctl/internal/observability"
	"github.com/danmuck/telemctl/internal/signal"
	"github.com/danmuck/telemctl/internal/store"
)

var ErrConnectAttemptsExhausted = errors.New("ingest: connect attempts exhausted")

// SourceOpener opens (or reopens) the raw byte stream. The worker owns the
// returned stream and closes it before reconnecting.
type SourceOpener func() (io.ReadCloser, error)

// Publisher is the optional side channel for decoded samples.
type Publisher interface {
	PublishSample(name string, timestampMS uint32, value signal.Value) error
}

// Config bounds reconnect behavior. MaxConnectAttempts 0 means retry forever.
type Config struct {
	Backoff            BackoffConfig
	MaxConnectAttempts int
}

func DefaultConfig() Config {
	return Config{Backoff: DefaultBackoffConfig()}
}

// Worker is the single ingest goroutine's state. The store is shared; all
// other fields are owned by the worker.
type Worker struct {
	open     SourceOpener
	registry *signal.Registry
	drive    signal.DriveConfig
	store    *store.Store
	pub      Publisher
	cfg      Config
	logger   zerolog.Logger
	rng      *rand.Rand
}

func NewWorker(open SourceOpener, registry *signal.Registry, drive signal.DriveConfig, st *store.Store, cfg Config, logger zerolog.Logger) *Worker {
	return &Worker{
		open:     open,
		registry: registry,
		drive:    drive,
		store:    st,
		cfg:      cfg,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetPublisher attaches an optional sample publisher. Must be called before Run.
func (w *Worker) SetPublisher(pub Publisher) { w.pub = pub }

// Run consumes the stream until ctx is canceled or connect attempts are
// exhausted. Transport errors trigger close/backoff/reopen with the scanner
// back in seeking; the store stays queryable throughout and afterwards.
func (w *Worker) Run(ctx context.Context) error {
	scanner := frame.NewScanner(nil)
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, err := w.open()
		if err != nil {
			attempt++
			if w.cfg.MaxConnectAttempts > 0 && attempt >= w.cfg.MaxConnectAttempts {
				return fmt.Errorf("%w after %d attempts: %v", ErrConnectAttemptsExhausted, attempt, err)
			}
			observability.RecordTransportReconnect()
			w.logger.Warn().Err(err).Int("attempt", attempt).Msg("source open failed")
			if !w.sleep(ctx, NextBackoffDelay(w.cfg.Backoff, attempt, w.rng)) {
				return ctx.Err()
			}
			continue
		}
		attempt = 0
		scanner.Reset(src)
		w.logger.Info().Msg("source connected, seeking frame alignment")

		err = w.consume(ctx, scanner)
		src.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		attempt++
		observability.RecordTransportReconnect()
		w.logger.Warn().Err(err).Msg("source read failed, reconnecting")
		if !w.sleep(ctx, NextBackoffDelay(w.cfg.Backoff, attempt, w.rng)) {
			return ctx.Err()
		}
	}
}

func (w *Worker) consume(ctx context.Context, scanner *frame.Scanner) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		resyncsBefore := scanner.Resyncs()
		f, err := scanner.Next()
		if delta := scanner.Resyncs() - resyncsBefore; delta > 0 {
			observability.RecordResyncs(delta)
			w.logger.Debug().Uint64("resyncs", scanner.Resyncs()).Msg("frame alignment lost")
		}
		if err != nil {
			return err
		}
		observability.RecordFrameDecoded()
		w.handle(f)
	}
}

func (w *Worker) handle(f frame.Frame) {
	spec, ok := w.registry.Lookup(f.DeviceID, f.SubID)
	if !ok {
		observability.RecordUnknownSignal(f.DeviceID, f.SubID)
		w.logger.Debug().
			Uint8("device_id", f.DeviceID).
			Uint8("sub_id", f.SubID).
			Msg("unknown signal dropped")
		return
	}
	value := spec.Decode(f.Payload)
	w.append(spec.Name, f.TimestampMS, value)

	// raw_rpm fans out into the derived speed series, same timestamp.
	if spec.Name == signal.NameRawRPM {
		rpmSpeed := signal.RPMSpeed(value.Uint16)
		w.append(signal.NameRPMSpeed, f.TimestampMS, signal.Int(int64(rpmSpeed)))
		w.append(signal.NameSpeedMPH, f.TimestampMS, signal.Double(w.drive.MPH(rpmSpeed)))
	}
}

func (w *Worker) append(name string, timestampMS uint32, value signal.Value) {
	w.store.Append(name, timestampMS, value)
	observability.RecordSampleAppended(name)
	if w.pub == nil {
		return
	}
	if err := w.pub.PublishSample(name, timestampMS, value); err != nil {
		observability.RecordPublishFailure()
		w.logger.Warn().Err(err).Str("signal", name).Msg("sample publish failed")
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
