package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"team-lab/protocol"
	"team-lab/repositories"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/journal"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Error while reading config: ", err)
	}
	dbPath := flag.String("db", config.BadgerFilepath, "Path to badger DB")
	viewer := flag.String("viewer", "", "Only show packets sent to this viewer")
	team := flag.String("team", "", "Only show packets of this team")
	flag.Parse()

	prefix := repositories.JournalPrefix()
	switch {
	case *viewer != "" && *team != "":
		prefix = repositories.PacketPrefix(*viewer, *team)
	case *viewer != "":
		prefix = repositories.ViewerPrefix(*viewer)
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Seq", "Viewer", "Team", "Mode", "Time", "Detail"})
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

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			viewerID, teamName, seq, err := repositories.ParsePacketKey(item.Key())
			if err != nil {
				fmt.Printf("Skipping key %q: %v\n", item.Key(), err)
				continue
			}
			// Without a viewer the team cannot be part of the prefix
			if *team != "" && teamName != *team {
				continue
			}
			err = item.Value(func(v []byte) error {
				entry, err := repositories.DecodeEntry(v)
				if err != nil {
					fmt.Printf("Error decoding key %q: %v\n", item.Key(), err)
					return nil
				}
				table.Append([]string{
					fmt.Sprint(seq),
					viewerID,
					teamName,
					entry.Mode.String(),
					time.Unix(0, entry.At).Format("15:04:05.000"),
					detail(entry.Bytes),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func detail(b []byte) string {
	packet, err := protocol.Decode(b)
	if err != nil {
		return "undecodable: " + err.Error()
	}
	return strings.TrimPrefix(fmt.Sprintf("%+v", packet.Action), "{}")
}
