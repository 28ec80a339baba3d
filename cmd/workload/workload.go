package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/vilterp/treelog/pkg"
	clog "github.com/vilterp/treelog/pkg/log"
	"golang.org/x/sync/errgroup"
)

var load = flag.Bool("load", true, "store facts before querying")
var url = flag.String("url", "ws://localhost:9000/ws", "url of treelog server to connect to")
var numClients = flag.Int("numClients", 4, "number of connections querying at once")
var numFunctors = flag.Int("numFunctors", 50, "number of distinct functors to store facts under")
var queriesPerClient = flag.Int("numQueriesPerClient", 10000, "number of queries each connection sends")
var depth = flag.Int("depth", 4, "nesting depth of stored terms")

// nested builds f(f(leaf, leaf), leaf) and so on, depth levels deep.
func nested(depth int, leaf string) string {
	if depth == 0 {
		return leaf
	}
	return fmt.Sprintf("f(%s, %s)", nested(depth-1, leaf), leaf)
}

func functor(idx int) string {
	return fmt.Sprintf("rel%d", idx)
}

func main() {
	flag.Parse()
	if err := clog.Init("info"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clog.Sync()
	log := clog.L().Sugar()

	// Store facts.
	if *load {
		client, err := treelog.NewClient(*url)
		if err != nil {
			log.Fatal(err)
		}
		log.Info("storing facts")
		for i := 0; i < *numFunctors; i++ {
			stmt := fmt.Sprintf("%s(X, %s, Y).", functor(i), nested(*depth, "X"))
			if _, err := client.Exec(stmt); err != nil {
				log.Fatal(err)
			}
		}
		client.Close()
	}

	// Query from several connections at once.
	log.Info("querying")
	start := time.Now()
	var g errgroup.Group
	for c := 0; c < *numClients; c++ {
		c := c
		g.Go(func() error {
			client, err := treelog.NewClient(*url)
			if err != nil {
				return err
			}
			defer client.Close()
			rng := rand.New(rand.NewSource(int64(c)))
			yes := 0
			for q := 0; q < *queriesPerClient; q++ {
				// Half the queries bind X consistently, half contradict it.
				leaf := "a"
				if rng.Intn(2) == 0 {
					leaf = "b"
				}
				query := fmt.Sprintf("?- %s(a, %s, Z).", functor(rng.Intn(*numFunctors)), nested(*depth, leaf))
				answer, err := client.Query(query)
				if err != nil {
					return err
				}
				if answer.Yes {
					yes++
				}
				if q > 0 && q%1000 == 0 {
					log.Infof("client %d: %d queries, %d yes", c, q, yes)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	total := *numClients * *queriesPerClient
	elapsed := time.Since(start)
	log.Infof("%d queries in %v (%.0f/s)", total, elapsed, float64(total)/elapsed.Seconds())
}
