// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"

	"github.com/desertthunder/sati/internal/pds"
)

// MockRecordClient is a test double for the protocol client consumed by the
// record store and tasks engine. Unset funcs return empty results.
type MockRecordClient struct {
	CreateRecordFunc func(ctx context.Context, repo, collection string, record any) (*pds.CreateRecordResponse, error)
	ListRecordsFunc  func(ctx context.Context, repo, collection string, limit int, reverse bool, cursor string) (*pds.ListRecordsResponse, error)

	CreateCalls int
	ListCalls   int
}

func (m *MockRecordClient) CreateRecord(ctx context.Context, repo, collection string, record any) (*pds.CreateRecordResponse, error) {
	m.CreateCalls++
	if m.CreateRecordFunc != nil {
		return m.CreateRecordFunc(ctx, repo, collection, record)
	}
	return &pds.CreateRecordResponse{URI: "at://" + repo + "/" + collection + "/mock", CID: "bafymock"}, nil
}

func (m *MockRecordClient) ListRecords(ctx context.Context, repo, collection string, limit int, reverse bool, cursor string) (*pds.ListRecordsResponse, error) {
	m.ListCalls++
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(ctx, repo, collection, limit, reverse, cursor)
	}
	return &pds.ListRecordsResponse{}, nil
}

// StaticSessionSource is a test double for the session source; Session may be nil.
type StaticSessionSource struct {
	Session *pds.Session
}

func (s *StaticSessionSource) Current() *pds.Session { return s.Session }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	MaxWrites int
	written   int
	Target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.MaxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.Target.Write(p)
}
