package ch

import (
	"context"
	"errors"
	"testing"

	"remindme/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type fakeBatch struct {
	driver.Batch
	rows    [][]any
	sent    bool
	aborted bool
	failOn  int
}

func (b *fakeBatch) Append(v ...any) error {
	if b.failOn > 0 && len(b.rows)+1 == b.failOn {
		return errors.New("bad column")
	}
	b.rows = append(b.rows, v)
	return nil
}
func (b *fakeBatch) Send() error  { b.sent = true; return nil }
func (b *fakeBatch) Abort() error { b.aborted = true; return nil }

type fakeConn struct {
	batch   *fakeBatch
	query   string
	pingErr error
	closed  bool
}

func (f *fakeConn) PrepareBatch(_ context.Context, q string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	f.query = q
	return f.batch, nil
}
func (f *fakeConn) Exec(_ context.Context, q string, _ ...any) error {
	f.query = q
	return nil
}
func (f *fakeConn) Query(context.Context, string, ...any) (driver.Rows, error) {
	return nil, errors.New("not used")
}
func (f *fakeConn) Ping(context.Context) error { return f.pingErr }
func (f *fakeConn) Close() error               { f.closed = true; return nil }

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected dsn error")
	}
}

func TestOpen_PingFailureClosesConn(t *testing.T) {
	testkit.Serial(t)

	fc := &fakeConn{pingErr: errors.New("refused")}
	testkit.Swap(t, &openConn, func(*clickhouse.Options) (conn, error) { return fc, nil })

	if _, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default"}); err == nil {
		t.Fatalf("expected ping error")
	}
	if !fc.closed {
		t.Fatalf("conn must be closed after failed ping")
	}
}

func TestOpen_SetsClientInfo(t *testing.T) {
	testkit.Serial(t)

	var got *clickhouse.Options
	testkit.Swap(t, &openConn, func(o *clickhouse.Options) (conn, error) {
		got = o
		return &fakeConn{}, nil
	})

	c, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default", ClientName: "remindme", ClientTag: "bot"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(got.ClientInfo.Products) == 0 || got.ClientInfo.Products[0].Name != "remindme" {
		t.Fatalf("client info not applied: %+v", got.ClientInfo)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestInsert_BatchesRows(t *testing.T) {
	t.Parallel()

	fb := &fakeBatch{}
	c := &CH{conn: &fakeConn{batch: fb}}
	err := c.Insert(context.Background(), "remindme_events", [][]any{{"a", 1}, {"b", 2}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !fb.sent || len(fb.rows) != 2 {
		t.Fatalf("expected 2 rows sent, got %+v", fb)
	}
}

func TestInsert_AppendErrorAborts(t *testing.T) {
	t.Parallel()

	fb := &fakeBatch{failOn: 2}
	c := &CH{conn: &fakeConn{batch: fb}}
	if err := c.Insert(context.Background(), "t", [][]any{{1}, {2}}); err == nil {
		t.Fatalf("expected append error")
	}
	if !fb.aborted || fb.sent {
		t.Fatalf("batch must be aborted, got %+v", fb)
	}
}

func TestInsert_EmptyAndNil(t *testing.T) {
	t.Parallel()

	c := &CH{conn: &fakeConn{}}
	if err := c.Insert(context.Background(), "t", nil); err != nil {
		t.Fatalf("empty insert should be a no-op: %v", err)
	}

	var nilc *CH
	if err := nilc.Insert(context.Background(), "t", [][]any{{1}}); err == nil {
		t.Fatalf("nil client insert must fail")
	}
	if err := nilc.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestExec(t *testing.T) {
	t.Parallel()

	fc := &fakeConn{}
	c := &CH{conn: fc}
	if err := c.Exec(context.Background(), "CREATE TABLE x (a UInt8) ENGINE = Memory"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if fc.query == "" {
		t.Fatalf("statement not forwarded")
	}
	var nilc *CH
	if err := nilc.Exec(context.Background(), "SELECT 1"); err == nil {
		t.Fatalf("nil client must error")
	}
}

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo(" remindme ", "api")
	if ci.Products[0].Name != "remindme" || ci.Products[1].Version != "api" {
		t.Fatalf("unexpected products %+v", ci.Products)
	}
}
