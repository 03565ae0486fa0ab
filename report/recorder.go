package report

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// SQLite driver for the recording database.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/quadsim/simulator"
)

// Recorder stores result rows into tables for later analysis.
type Recorder interface {
	// CreateTable creates a table whose columns are the fields of
	// sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry of the table's type.
	InsertData(tableName string, entry any)

	// Flush writes all buffered entries in one transaction.
	Flush()
}

// CoreStatsEntry is one per-core row of a recorded run.
type CoreStatsEntry struct {
	CoreID           int
	ReadCount        uint64
	WriteCount       uint64
	InstructionCount uint64
	TotalCycles      uint64
	IdleCycles       uint64
	MissRate         float64
	Evictions        uint64
	Writebacks       uint64
}

// GlobalStatsEntry is the single global row of a recorded run.
type GlobalStatsEntry struct {
	App              string
	SetBits          int
	Assoc            int
	BlockBits        int
	Seed             int64
	Invalidations    uint64
	DataTrafficBytes uint64
	MaxExecutionTime uint64
}

// NewRecorder opens a SQLite-backed Recorder at path. An empty path gets a
// generated name. The file must not already exist. Buffered rows are flushed
// at exit.
func NewRecorder(path string) (Recorder, error) {
	if path == "" {
		path = "quadsim_" + xid.New().String() + ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("recording database %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open recording database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not open recording database: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Recording statistics to: %s\n", path)

	w := &sqliteWriter{
		db:     db,
		tables: make(map[string]*table),
	}

	atexit.Register(w.Flush)

	return w, nil
}

// RecordResults writes one run's results through the Recorder.
func RecordResults(rec Recorder, r *simulator.Results) {
	rec.CreateTable("core_stats", CoreStatsEntry{})
	rec.CreateTable("global_stats", GlobalStatsEntry{})

	for _, cr := range r.Cores {
		rec.InsertData("core_stats", CoreStatsEntry{
			CoreID:           cr.CoreID,
			ReadCount:        cr.ReadCount,
			WriteCount:       cr.WriteCount,
			InstructionCount: cr.InstructionCount,
			TotalCycles:      cr.TotalCycles,
			IdleCycles:       cr.IdleCycles,
			MissRate:         cr.MissRate,
			Evictions:        cr.Evictions,
			Writebacks:       cr.Writebacks,
		})
	}

	rec.InsertData("global_stats", GlobalStatsEntry{
		App:              r.App,
		SetBits:          r.SetBits,
		Assoc:            r.Assoc,
		BlockBits:        r.BlockBits,
		Seed:             r.Seed,
		Invalidations:    r.Invalidations,
		DataTrafficBytes: r.DataTrafficBytes,
		MaxExecutionTime: r.MaxExecutionTime,
	})

	rec.Flush()
}

type table struct {
	entries []any
}

// sqliteWriter buffers entries per table and writes them in batches.
type sqliteWriter struct {
	db     *sql.DB
	tables map[string]*table
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	names := structs.Names(sampleEntry)
	columns := strings.Join(names, ", \n\t")

	w.mustExecute("CREATE TABLE " + tableName + " (\n\t" + columns + "\n);")

	w.tables[tableName] = &table{}
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)
}

func (w *sqliteWriter) Flush() {
	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	for tableName, t := range w.tables {
		if len(t.entries) == 0 {
			continue
		}

		stmt := w.prepareInsert(tableName, t.entries[0])

		for _, entry := range t.entries {
			values := []any{}
			v := reflect.ValueOf(entry)
			for i := 0; i < v.NumField(); i++ {
				values = append(values, v.Field(i).Interface())
			}

			if _, err := stmt.Exec(values...); err != nil {
				panic(err)
			}
		}

		t.entries = nil
		stmt.Close()
	}
}

func (w *sqliteWriter) prepareInsert(tableName string, sampleEntry any) *sql.Stmt {
	placeholders := structs.Names(sampleEntry)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt, err := w.db.Prepare(
		"INSERT INTO " + tableName + " VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		panic(err)
	}

	return stmt
}

func (w *sqliteWriter) mustExecute(query string) {
	if _, err := w.db.Exec(query); err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}
}
