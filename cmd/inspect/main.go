package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"chat-messages/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:""`
	// INSPECT_COLOURS toggles the colored header
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Config error: ", err)
	}
	if config.BadgerFilepath == "" {
		config.BadgerFilepath = database.DefaultPath
	}

	dbPath := flag.String("db", config.BadgerFilepath, "Path to badger DB")
	chatID := flag.String("chat", "", "Only show the messages of this chat")
	prefix := flag.String("prefix", "msg:", "Prefix to scan, ignored when -chat is set")
	flag.Parse()

	scan := *prefix
	if *chatID != "" {
		scan = fmt.Sprintf("msg:%s:", *chatID)
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	header := fmt.Sprintf("  ====== %s (%s) ======", *dbPath, scan)
	if config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	records, err := Scan(db, scan)
	if err != nil {
		log.Fatal(err)
	}
	Render(os.Stdout, records)
}

// Scan decodes every record under prefix, in key order.
func Scan(db *badger.DB, prefix string) ([]repositories.Record, error) {
	var records []repositories.Record
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			// "msg:" also matches the "msgidx:" namespace
			if strings.HasPrefix(key, "msgidx:") && !strings.HasPrefix(prefix, "msgidx") {
				continue
			}
			err := item.Value(func(v []byte) error {
				records = append(records, repositories.DescribeRecord(key, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

func Render(w io.Writer, records []repositories.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "ID", "Detail"})
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
		at := ""
		if !r.At.IsZero() {
			at = r.At.Format("2006-01-02 15:04:05")
		}
		table.Append([]string{r.Key, r.Type, at, r.ID, r.Detail})
	}
	table.Render()
}
