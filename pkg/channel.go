package treelog

import (
	"context"
	"fmt"

	clog "github.com/vilterp/treelog/pkg/log"
)

// channel is one statement sent over a connection, and the one message
// written back for it.
type channel struct {
	connection   *connection
	rawStatement string
	id           int // unique with containing connection

	context context.Context
}

func (channel *channel) Ctx() context.Context {
	return channel.context
}

func newChannel(rawStatement string, ID int, conn *connection) *channel {
	ctx := context.WithValue(conn.Ctx(), clog.ChannelIDKey, ID)
	return &channel{
		connection:   conn,
		rawStatement: rawStatement,
		id:           ID,
		context:      ctx,
	}
}

func (channel *channel) handleStatement() {
	result, err := channel.connection.session.Exec(channel.rawStatement)
	if err != nil {
		clog.Printf(channel, "%s", err.Error())
	}
	channel.writeMessage(ResultMessage(result, err))
}

func (channel *channel) writeMessage(message *MessageToClient) {
	channel.connection.messages <- &ChannelMessage{
		StatementID: channel.id,
		Message:     message,
	}
}

type ChannelMessage struct {
	StatementID int
	Message     *MessageToClient
}

type MessageToClientType int

const (
	ErrorMessage MessageToClientType = iota
	AckMessage
	AnswerMessage
	FactsMessage
)

func (m MessageToClientType) String() string {
	switch m {
	case ErrorMessage:
		return "error"
	case AckMessage:
		return "ack"
	case AnswerMessage:
		return "answer"
	case FactsMessage:
		return "facts"
	}
	return fmt.Sprintf("MessageToClientType(%d)", int(m))
}

func (m MessageToClientType) MarshalText() ([]byte, error) {
	switch m {
	case ErrorMessage, AckMessage, AnswerMessage, FactsMessage:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("unknown message type %d", int(m))
}

func (m *MessageToClientType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*m = ErrorMessage
	case "ack":
		*m = AckMessage
	case "answer":
		*m = AnswerMessage
	case "facts":
		*m = FactsMessage
	default:
		return fmt.Errorf("unknown message type %q", text)
	}
	return nil
}

type MessageToClient struct {
	Type          MessageToClientType `json:"type"`
	ErrorMessage  *string             `json:"error,omitempty"`
	AckMessage    *string             `json:"ack,omitempty"`
	AnswerMessage *Answer             `json:"answer,omitempty"`
	FactsMessage  []string            `json:"facts,omitempty"`
}

// ResultMessage turns what Session.Exec returned into the message a client
// sees.
func ResultMessage(result *Result, err error) *MessageToClient {
	if err != nil {
		errStr := err.Error()
		return &MessageToClient{
			Type:         ErrorMessage,
			ErrorMessage: &errStr,
		}
	}
	if result.Answer != nil {
		return &MessageToClient{
			Type:          AnswerMessage,
			AnswerMessage: result.Answer,
		}
	}
	if result.Facts != nil {
		return &MessageToClient{
			Type:         FactsMessage,
			FactsMessage: result.Facts,
		}
	}
	ack := result.Ack
	return &MessageToClient{
		Type:       AckMessage,
		AckMessage: &ack,
	}
}
