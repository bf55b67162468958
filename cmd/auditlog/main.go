package main

import (
	"chat-relay/repositories"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	flag "github.com/spf13/pflag"
)

func main() {
	dbPath := flag.StringP("db", "d", "", "Path to the relay Badger directory (BADGER_FILEPATH)")
	limit := flag.IntP("limit", "n", 0, "Maximum number of records to print, 0 for all")
	event := flag.StringP("event", "e", "", "Only print records of this event, e.g. KICK")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db is required")
	}

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	var limitRecords *int
	if *limit > 0 {
		limitRecords = limit
	}
	repository := repositories.NewAuditRepository(db, logs.GetLoggerFromString("WARN"), limitRecords)
	records, err := repository.GetRecords()
	if err != nil {
		log.Fatal(err)
	}

	render(os.Stdout, records, *event)
}

func render(w io.Writer, records []repositories.DiskRecord, event string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Time", "Event", "Details"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, r := range records {
		if event != "" && !strings.EqualFold(r.Record.Event, event) {
			continue
		}
		table.Append([]string{
			shortKey(r.Key),
			r.Record.At.Format("2006-01-02 15:04:05.000"),
			r.Record.Event,
			r.Record.Details,
		})
	}
	table.Render()
}

// shortKey keeps the timestamp and the first 8 characters of the UUID for readability.
func shortKey(key string) string {
	idx := strings.LastIndex(key, ":")
	if idx < 0 || len(key)-idx-1 <= 8 {
		return key
	}
	return key[:idx+9]
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}
