package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/coreos/go-systemd/daemon"
	"github.com/leafscope/leafscope/server"
)

func main() {
	parser := argparse.NewParser("leafscope", "Plant identification server")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Configuration file", Default: "leafscope.json"})
	port := parser.String("p", "port", &argparse.Options{Help: "Override HTTP listen address, eg :8080", Default: ""})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	srv, err := server.NewServer(*configFile)
	if err != nil {
		fmt.Printf("Failed to start server: %v\n", err)
		os.Exit(1)
	}
	srv.ListenForKillSignals()

	// Tell systemd that we're alive.
	daemon.SdNotify(false, daemon.SdNotifyReady)

	if err := srv.ListenHTTP(*port); err != nil {
		srv.Log.Infof("ListenHTTP returned: %v", err)
	}
}
