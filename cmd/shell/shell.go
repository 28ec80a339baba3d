package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/robertkrimen/isatty"
	flag "github.com/spf13/pflag"
	"github.com/vilterp/treelog/pkg"
	"github.com/vilterp/treelog/pkg/config"
	"github.com/vilterp/treelog/pkg/parse"
	pp "github.com/vilterp/treelog/pkg/prettyprint"
)

var url = flag.String("url", "ws://localhost:9000/ws", "URL of treelog server to connect to")
var local = flag.Bool("local", false, "run statements in process instead of against a server")
var dataFile = flag.String("data-file", "", "with --local, bolt file to keep facts in")
var configPath = flag.String("config", "treelog.yaml", "YAML config file; missing is fine")

// runner is where statements go: a server, or a session in this process.
type runner interface {
	Run(statement string) (*treelog.MessageToClient, error)
}

type localRunner struct {
	session *treelog.Session
}

func (l *localRunner) Run(statement string) (*treelog.MessageToClient, error) {
	return treelog.ResultMessage(l.session.Exec(statement)), nil
}

func main() {
	// get cmdline flags
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("error loading config:", err)
		os.Exit(1)
	}

	var r runner
	where := *url
	if *local {
		if flag.CommandLine.Changed("data-file") {
			cfg.DataFile = *dataFile
		}
		db, err := treelog.NewDatabase(cfg.DataFile)
		if err != nil {
			fmt.Println("couldn't open database:", err)
			os.Exit(1)
		}
		defer db.Close()
		r = &localRunner{session: db.NewSession(context.Background())}
		where = "local"
	} else {
		// connect to server
		client, connErr := treelog.NewClient(*url)
		if connErr != nil {
			fmt.Println("couldn't connect:", connErr)
			os.Exit(1)
		}
		defer client.Close()
		// Wait for server closing
		go waitForServerClose(client)
		r = client
	}

	// check if is TTY
	isInputTty := isatty.Check(os.Stdin.Fd())

	if isInputTty {
		fmt.Println("treelog shell")
		fmt.Println("\\h for help")
	}

	// initialize readline
	prompt := ""
	if isInputTty {
		prompt = fmt.Sprintf("%s> ", where)
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye!",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	var lines parse.Lines
	for {
		line, readlineErr := l.Readline()
		if readlineErr == readline.ErrInterrupt && lines.Pending() {
			// ^C abandons a half-typed statement.
			lines.Discard()
			l.SetPrompt(prompt)
			continue
		}
		if readlineErr != nil {
			fmt.Println("bye!")
			return
		}

		if !lines.Pending() {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case "quit":
				fmt.Println("bye!")
				return
			case `\h`:
				printHelp()
				continue
			case treelog.ListFactsCommand:
				runStatement(r, treelog.ListFactsCommand)
				continue
			}
		}

		stmt, done := lines.Add(line)
		if !done {
			if lines.Pending() && isInputTty {
				l.SetPrompt(strings.Repeat(" ", len(prompt)-2) + "| ")
			}
			continue
		}
		l.SetPrompt(prompt)
		runStatement(r, stmt)
	}
}

func printHelp() {
	fmt.Println(`p(a, X).	store a fact, replacing any p/2; may span lines`)
	fmt.Println(`?- p(a, b).	ask whether a query unifies with the stored fact`)
	fmt.Println(`\d	list stored facts`)
	fmt.Println(`\h	help`)
	fmt.Println(`quit	exit`)
}

func waitForServerClose(client *treelog.Client) {
	<-client.ServerClosed
	fmt.Println("server closed the connection")
	os.Exit(0)
}

func runStatement(r runner, stmt string) {
	msg, err := r.Run(stmt)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	printMessage(msg)
}

func printMessage(msg *treelog.MessageToClient) {
	switch msg.Type {
	case treelog.AckMessage:
		fmt.Println(*msg.AckMessage)
	case treelog.ErrorMessage:
		fmt.Println("error:", *msg.ErrorMessage)
	case treelog.AnswerMessage:
		fmt.Println(msg.AnswerMessage.String())
	case treelog.FactsMessage:
		if len(msg.FactsMessage) == 0 {
			fmt.Println("no facts")
			return
		}
		lines := make([]pp.Doc, len(msg.FactsMessage))
		for idx, fact := range msg.FactsMessage {
			lines[idx] = pp.Textf("%s.", fact)
		}
		fmt.Println(pp.Seq([]pp.Doc{
			pp.Textf("%d facts:", len(lines)),
			pp.Newline,
			pp.Indent(2, pp.Lines(lines)),
		}).String())
	}
}
