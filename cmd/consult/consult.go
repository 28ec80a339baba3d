package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/vilterp/treelog/pkg"
	"github.com/vilterp/treelog/pkg/parse"
)

var url = flag.String("url", "ws://localhost:9000/ws", "URL of treelog server to load facts into")
var keepGoing = flag.Bool("keep-going", false, "report bad statements and carry on instead of stopping")

// statement is one period-terminated statement and the line it started on.
type statement struct {
	line int
	text string
}

// maxStatementLine is the longest line readStatements accepts. Generated
// fact files can put a large term on one line.
const maxStatementLine = 64 << 20

// readStatements splits a file into period-terminated statements.
func readStatements(path string) ([]statement, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var stmts []statement
	var lines parse.Lines
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStatementLine)
	for scanner.Scan() {
		if text, ok := lines.Add(scanner.Text()); ok {
			stmts = append(stmts, statement{line: lines.StartLine(), text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if lines.Pending() {
		return nil, errors.Errorf("%s:%d: statement never ends with a period", path, lines.StartLine())
	}
	return stmts, nil
}

func consult(client *treelog.Client, path string) (int, error) {
	stmts, err := readStatements(path)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", path)
	}
	stored := 0
	for _, stmt := range stmts {
		msg, err := client.Run(stmt.text)
		if err != nil {
			return stored, err
		}
		switch msg.Type {
		case treelog.ErrorMessage:
			err := errors.Errorf("%s:%d: %s", path, stmt.line, *msg.ErrorMessage)
			if !*keepGoing {
				return stored, err
			}
			fmt.Fprintln(os.Stderr, err)
		case treelog.AckMessage:
			stored++
		case treelog.AnswerMessage:
			fmt.Printf("%s:%d: %s\n%s\n", path, stmt.line, stmt.text, msg.AnswerMessage)
		}
	}
	return stored, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: consult [options] FILE...\n\nStores every fact in each file, in order, and prints the answer to every query.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	client, err := treelog.NewClient(*url)
	if err != nil {
		fmt.Println("failed to connect:", err)
		os.Exit(1)
	}
	defer client.Close()

	for _, path := range flag.Args() {
		stored, err := consult(client, path)
		fmt.Printf("%s: stored %d facts\n", path, stored)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
