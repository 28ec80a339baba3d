package treelog

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	clog "github.com/vilterp/treelog/pkg/log"
)

var errServerClosed = errors.New("server closed the connection")

type Client struct {
	WebSocketConn *websocket.Conn
	URL           string
	// Closed when the connection is gone, from either side.
	ServerClosed chan struct{}

	writeMu sync.Mutex

	mu              sync.Mutex
	nextStatementID int
	channels        map[int]*ClientChannel
}

type ClientChannel struct {
	StatementID int
	Statement   string
	// Receives the one message the server answers with.
	Updates chan *MessageToClient
}

func NewClient(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	client := &Client{
		WebSocketConn: conn,
		URL:           url,
		ServerClosed:  make(chan struct{}),
		channels:      map[int]*ClientChannel{},
	}
	go client.handleIncoming()
	return client, nil
}

// Close hangs up and waits for the read loop to stop.
func (c *Client) Close() error {
	err := c.WebSocketConn.Close()
	<-c.ServerClosed
	return err
}

func (c *Client) handleIncoming() {
	defer close(c.ServerClosed)
	for {
		parsedMessage := &ChannelMessage{}
		if err := c.WebSocketConn.ReadJSON(parsedMessage); err != nil {
			if _, isClose := err.(*websocket.CloseError); !isClose {
				clog.L().Debug("client read loop done", zap.Error(err))
			}
			return
		}
		c.mu.Lock()
		channel, ok := c.channels[parsedMessage.StatementID]
		delete(c.channels, parsedMessage.StatementID)
		c.mu.Unlock()
		if !ok {
			clog.L().Warn("message for unknown statement", zap.Int("statement", parsedMessage.StatementID))
			continue
		}
		channel.Updates <- parsedMessage.Message
	}
}

// Statement sends a statement without waiting for the answer.
func (c *Client) Statement(statement string) (*ClientChannel, error) {
	c.mu.Lock()
	channel := &ClientChannel{
		StatementID: c.nextStatementID,
		Statement:   statement,
		Updates:     make(chan *MessageToClient, 1),
	}
	c.nextStatementID++
	c.channels[channel.StatementID] = channel
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.WebSocketConn.WriteMessage(websocket.TextMessage, []byte(statement)); err != nil {
		c.mu.Lock()
		delete(c.channels, channel.StatementID)
		c.mu.Unlock()
		return nil, err
	}
	return channel, nil
}

// Run sends a statement and waits for whatever message comes back.
func (c *Client) Run(statement string) (*MessageToClient, error) {
	channel, err := c.Statement(statement)
	if err != nil {
		return nil, err
	}
	select {
	case msg := <-channel.Updates:
		return msg, nil
	case <-c.ServerClosed:
		// The answer may have landed just before the close.
		select {
		case msg := <-channel.Updates:
			return msg, nil
		default:
			return nil, errServerClosed
		}
	}
}

func (c *Client) run(statement string, wanted MessageToClientType) (*MessageToClient, error) {
	msg, err := c.Run(statement)
	if err != nil {
		return nil, err
	}
	if msg.Type == ErrorMessage && msg.ErrorMessage != nil {
		return nil, errors.New(*msg.ErrorMessage)
	}
	if msg.Type != wanted {
		return nil, &unexpectedMessage{Wanted: wanted.String(), Got: msg.Type}
	}
	return msg, nil
}

// Exec stores a fact, returning the server's acknowledgement.
func (c *Client) Exec(statement string) (string, error) {
	msg, err := c.run(statement, AckMessage)
	if err != nil {
		return "", err
	}
	return *msg.AckMessage, nil
}

func (c *Client) Query(query string) (*Answer, error) {
	msg, err := c.run(query, AnswerMessage)
	if err != nil {
		return nil, err
	}
	return msg.AnswerMessage, nil
}

// Facts lists every stored fact.
func (c *Client) Facts() ([]string, error) {
	msg, err := c.run(ListFactsCommand, FactsMessage)
	if err != nil {
		return nil, err
	}
	return msg.FactsMessage, nil
}
