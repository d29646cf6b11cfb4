package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/handiism/bookshelf/internal/config"
	"github.com/handiism/bookshelf/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to config file")
		apiURLFlag = flag.String("api-url", "", "Book collection URL (overrides config)")
	)

	flag.Parse()
	defer glog.Flush()

	path := *configFlag
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	settings.ApplyEnv()
	if *apiURLFlag != "" {
		settings.APIURL = *apiURLFlag
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		glog.Flush()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
