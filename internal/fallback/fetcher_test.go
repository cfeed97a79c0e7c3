package fallback

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dataloaders/pkg/requestcontext"
)

type recordingObserver struct {
	mu       sync.Mutex
	lookups  []Source
	notFound int
	absences []string
}

func (o *recordingObserver) ObserveLookup(_ string, source Source, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups = append(o.lookups, source)
}

func (o *recordingObserver) ObserveNotFound(string, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notFound++
}

func (o *recordingObserver) ObserveRemoteAbsence(_ string, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.absences = append(o.absences, reason)
}

type FetcherSuite struct {
	suite.Suite
	observer *recordingObserver
	logs     *bytes.Buffer
	logger   *slog.Logger
	table    StaticTable[string]
}

func TestFetcherSuite(t *testing.T) {
	suite.Run(t, new(FetcherSuite))
}

func (s *FetcherSuite) SetupTest() {
	s.observer = &recordingObserver{}
	s.logs = &bytes.Buffer{}
	s.logger = slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s.table = NewStaticTable(map[string]string{"posva": "5.7k", "yyx990803": "100k"})
}

func (s *FetcherSuite) newFetcher(remote Remote[string]) *Fetcher[string] {
	f, err := NewFetcher("followers", remote, s.table,
		WithMinDelay(0),
		WithRemoteTimeout(50*time.Millisecond),
		WithLogger(s.logger),
		WithObserver(s.observer),
	)
	s.Require().NoError(err)
	return f
}

func (s *FetcherSuite) TestNew() {
	s.Run("empty name returns error", func() {
		_, err := NewFetcher("", absentRemote, s.table)
		s.Error(err)
		s.Contains(err.Error(), "fetcher name is required")
	})

	s.Run("nil remote returns error", func() {
		_, err := NewFetcher[string]("followers", nil, s.table)
		s.Error(err)
		s.Contains(err.Error(), "remote is required")
	})

	s.Run("defaults apply without options", func() {
		f, err := NewFetcher("followers", absentRemote, s.table)
		s.Require().NoError(err)
		s.Equal("followers", f.Name())
		s.Equal(DefaultMinDelay, f.minDelay)
		s.Equal(DefaultRemoteTimeout, f.remoteTimeout)
		s.NotNil(f.logger)
	})
}

func (s *FetcherSuite) TestFetch() {
	ctx := requestcontext.WithRequestID(context.Background(), "req-123")

	s.Run("remote value is observed with remote source", func() {
		f := s.newFetcher(valueRemote("6k"))
		out, err := f.Fetch(ctx, "posva")
		s.Require().NoError(err)
		s.Equal("6k", out.Value)
		s.Equal([]Source{SourceRemote}, s.observer.lookups)
		s.Empty(s.observer.absences)
	})

	s.Run("remote failure is logged and counted, static value returned", func() {
		s.SetupTest()
		f := s.newFetcher(func(ctx context.Context, id string) (string, error) {
			return "", errors.New("dial tcp: connection refused")
		})
		out, err := f.Fetch(ctx, "yyx990803")
		s.Require().NoError(err)
		s.Equal("100k", out.Value)
		s.Equal([]Source{SourceStatic}, s.observer.lookups)
		s.Equal([]string{"error"}, s.observer.absences)
		s.Contains(s.logs.String(), "remote lookup absent")
		s.Contains(s.logs.String(), "request_id=req-123")
	})

	s.Run("timeout is reported as the absence reason", func() {
		s.SetupTest()
		f := s.newFetcher(func(ctx context.Context, id string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		_, err := f.Fetch(ctx, "posva")
		s.Require().NoError(err)
		s.Equal([]string{"timeout"}, s.observer.absences)
	})

	s.Run("unknown identifier is counted as not found", func() {
		s.SetupTest()
		f := s.newFetcher(absentRemote)
		_, err := f.Fetch(ctx, "nobody")
		s.ErrorIs(err, ErrNotFound)
		s.Equal(1, s.observer.notFound)
		s.Empty(s.observer.lookups)
		s.Contains(s.logs.String(), "lookup not found")
	})
}
