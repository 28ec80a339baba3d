package treelog

import "fmt"

type parseError struct {
	error error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.error.Error())
}

type unexpectedMessage struct {
	Wanted string
	Got    MessageToClientType
}

func (e *unexpectedMessage) Error() string {
	return fmt.Sprintf("expected %s message; got %s", e.Wanted, e.Got.String())
}
