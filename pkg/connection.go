package treelog

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	clog "github.com/vilterp/treelog/pkg/log"
)

type connectionID int

// connection is one websocket client. It has its own session, so statements
// sent over it run in order against one private heap.
type connection struct {
	clientConn    *websocket.Conn
	id            connectionID
	database      *Database
	session       *Session
	nextChannelID int
	messages      chan *ChannelMessage
	writerDone    chan struct{}
	context       context.Context
}

func newConnection(wsConn *websocket.Conn, db *Database, ID int) *connection {
	ctx := context.WithValue(db.ctx, clog.ConnIDKey, ID)
	conn := &connection{
		clientConn: wsConn,
		id:         connectionID(ID),
		database:   db,
		session:    db.NewSession(ctx),
		messages:   make(chan *ChannelMessage),
		writerDone: make(chan struct{}),
	}
	conn.context = conn.session.Ctx()
	go conn.writeMessagesToSocket()
	return conn
}

func (conn *connection) Ctx() context.Context {
	return conn.context
}

func (conn *connection) writeMessagesToSocket() {
	defer close(conn.writerDone)
	for msg := range conn.messages {
		writer, err := conn.clientConn.NextWriter(websocket.TextMessage)
		if err != nil {
			clog.Errorf(conn, "error writing to socket: %v", err)
			// Keep draining so the statement loop never blocks on us.
			continue
		}

		bufWriter := bufio.NewWriter(writer)

		if err := json.NewEncoder(bufWriter).Encode(msg); err != nil {
			clog.Errorf(conn, "error writing msg to conn: encoding: %v", err)
		}
		if err := bufWriter.Flush(); err != nil {
			clog.Errorf(conn, "error writing msg to conn: flushing buffer: %v", err)
		}
		if err := writer.Close(); err != nil {
			clog.Errorf(conn, "error writing msg to conn: closing writer: %v", err)
		}
	}
}

func (conn *connection) handleStatements() {
	clog.Println(conn, "initiated from", conn.clientConn.RemoteAddr())
	defer func() {
		close(conn.messages)
		<-conn.writerDone
		conn.clientConn.Close()
	}()
	for {
		_, message, readErr := conn.clientConn.ReadMessage()
		if readErr != nil {
			clog.Println(conn, "terminated:", readErr)
			conn.database.removeConn(conn)
			return
		}
		conn.addChannel(string(message))
	}
}

func (conn *connection) addChannel(statement string) {
	channel := newChannel(statement, conn.nextChannelID, conn)
	conn.nextChannelID++
	channel.handleStatement()
}
