package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/leafscope/leafscope/server/perenual"
)

// Maintenance tool for the Perenual cache database: inspect, seed, delete
// and purge entries without going through the server.
func main() {
	parser := argparse.NewParser("plantcache", "Maintain the Perenual cache database")
	cacheFile := parser.String("c", "cache", &argparse.Options{Help: "Cache database file", Default: "perenual-cache.sqlite"})

	statsCmd := parser.NewCommand("stats", "Show cache entry counts")
	purgeCmd := parser.NewCommand("purge", "Delete expired entries")

	getCmd := parser.NewCommand("get", "Print a cached details record")
	getID := getCmd.Int("i", "id", &argparse.Options{Help: "Species ID", Required: true})

	setCmd := parser.NewCommand("set", "Seed a details record from a JSON file")
	setID := setCmd.Int("i", "id", &argparse.Options{Help: "Species ID", Required: true})
	setFile := setCmd.String("f", "file", &argparse.Options{Help: "JSON file with the details record", Required: true})

	delCmd := parser.NewCommand("delete", "Delete a details record")
	delID := delCmd.Int("i", "id", &argparse.Options{Help: "Species ID", Required: true})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// No API key: this tool only ever touches the local database.
	client, err := perenual.NewClient(logger, "", "", *cacheFile)
	check(logger, err)
	defer client.Close()

	switch {
	case statsCmd.Happened():
		stats, err := client.Stats()
		check(logger, err)
		fmt.Printf("search entries:  %v\ndetails entries: %v\n", stats.SearchEntries, stats.DetailsEntries)
	case purgeCmd.Happened():
		n, err := client.PurgeExpired()
		check(logger, err)
		fmt.Printf("purged %v expired entries\n", n)
	case getCmd.Happened():
		details, err := client.GetCachedDetails(*getID)
		check(logger, err)
		if details == nil {
			fmt.Printf("no cached details for ID %v\n", *getID)
			os.Exit(1)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		check(logger, encoder.Encode(details))
	case setCmd.Happened():
		raw, err := os.ReadFile(*setFile)
		check(logger, err)
		details := perenual.SpeciesDetails{}
		check(logger, json.Unmarshal(raw, &details))
		check(logger, client.PutDetails(*setID, &details))
		fmt.Printf("seeded details for ID %v\n", *setID)
	case delCmd.Happened():
		check(logger, client.DeleteDetails(*delID))
		fmt.Printf("deleted details for ID %v\n", *delID)
	default:
		fmt.Print(parser.Usage(nil))
		os.Exit(1)
	}
}

func check(logger logs.Log, err error) {
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
