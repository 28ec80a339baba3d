package treelog

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vilterp/treelog/pkg/factdb"
)

// Database is the shared state behind every session: the stored facts, the
// open connections, and metrics about both.
type Database struct {
	facts     *factdb.Database
	evaluator *Evaluator

	mu               sync.Mutex // guards connections and nextConnectionID
	connections      map[connectionID]*connection
	nextConnectionID int
	// running connection loops
	connWG sync.WaitGroup

	ctx     context.Context
	metrics *metrics
}

// NewDatabase opens the fact store. An empty dataFile keeps facts in memory.
func NewDatabase(dataFile string) (*Database, error) {
	facts, err := factdb.Open(dataFile)
	if err != nil {
		return nil, err
	}
	database := &Database{
		facts:       facts,
		evaluator:   NewEvaluator(facts),
		connections: make(map[connectionID]*connection),
		ctx:         context.Background(),
	}
	database.metrics = newMetrics(database)
	return database, nil
}

func (db *Database) Facts() *factdb.Database {
	return db.facts
}

// addConnection connects a websocket to the database and serves it until
// the socket closes.
func (db *Database) addConnection(wsConn *websocket.Conn) {
	db.mu.Lock()
	conn := newConnection(wsConn, db, db.nextConnectionID)
	db.nextConnectionID++
	db.connections[conn.id] = conn
	db.connWG.Add(1)
	db.mu.Unlock()

	defer db.connWG.Done()
	conn.handleStatements()
}

func (db *Database) removeConn(conn *connection) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.connections, conn.id)
}

func (db *Database) numConnections() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.connections)
}

func (db *Database) connectionsOpened() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.nextConnectionID
}

func (db *Database) listFacts() []string {
	facts := db.facts.Facts()
	listing := make([]string, len(facts))
	for idx, fact := range facts {
		listing[idx] = fact.String()
	}
	return listing
}

// Close hangs up on every connection, waits for their loops to finish, and
// closes the fact store.
func (db *Database) Close() error {
	db.mu.Lock()
	for _, conn := range db.connections {
		conn.clientConn.Close()
	}
	db.mu.Unlock()
	db.connWG.Wait()
	return db.facts.Close()
}
