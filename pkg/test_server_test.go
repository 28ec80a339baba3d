package treelog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vilterp/treelog/pkg/util"
)

type testServer struct {
	db         *Database
	httpServer *httptest.Server
	client     *Client
}

// newTestServer serves a fresh in-memory database over httptest and
// connects a client to it.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := NewDatabase("")
	if err != nil {
		t.Fatal(err)
	}
	httpServer := httptest.NewServer(NewHandler(db))
	client, err := NewClient(wsURL(httpServer))
	if err != nil {
		httpServer.Close()
		db.Close()
		t.Fatal(err)
	}
	ts := &testServer{
		db:         db,
		httpServer: httpServer,
		client:     client,
	}
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(httpServer *httptest.Server) string {
	return "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
}

func (ts *testServer) Close() {
	ts.client.Close()
	ts.db.Close()
	ts.httpServer.Close()
	http.DefaultClient.CloseIdleConnections()
}

// each case runs one statement and expects an error, an ack, or an answer
// (as printed by Answer.String).
type simpleTestStmt struct {
	stmt string

	error  string
	ack    string
	answer string
}

func checkMessage(t *testing.T, idx int, testCase simpleTestStmt, msg *MessageToClient) {
	t.Helper()
	var err error
	if msg.Type == ErrorMessage {
		err = &stringError{*msg.ErrorMessage}
	}
	if util.AssertError(t, idx, testCase.error, err) {
		return
	}
	switch msg.Type {
	case AckMessage:
		if *msg.AckMessage != testCase.ack {
			t.Fatalf(`case %d (%s): expected ack "%s"; got "%s"`, idx, testCase.stmt, testCase.ack, *msg.AckMessage)
		}
	case AnswerMessage:
		if got := msg.AnswerMessage.String(); got != testCase.answer {
			t.Fatalf("case %d (%s): expected answer:\n%s\ngot:\n%s", idx, testCase.stmt, testCase.answer, got)
		}
	default:
		t.Fatalf("case %d (%s): unexpected %s message", idx, testCase.stmt, msg.Type)
	}
}

type stringError struct {
	msg string
}

func (e *stringError) Error() string {
	return e.msg
}

// runSessionScript runs statements on an in-process session.
func runSessionScript(t *testing.T, session *Session, cases []simpleTestStmt) {
	t.Helper()
	for idx, testCase := range cases {
		checkMessage(t, idx, testCase, ResultMessage(session.Exec(testCase.stmt)))
	}
}

// runSimpleTestScript spins up a test server and runs statements on it over
// the websocket, checking each result.
func runSimpleTestScript(t *testing.T, cases []simpleTestStmt) *testServer {
	t.Helper()
	ts := newTestServer(t)
	for idx, testCase := range cases {
		msg, err := ts.client.Run(testCase.stmt)
		if err != nil {
			t.Fatalf("case %d (%s): %v", idx, testCase.stmt, err)
		}
		checkMessage(t, idx, testCase, msg)
	}
	return ts
}
