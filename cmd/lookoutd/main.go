// lookoutd is the daemon binary. It loads configuration, then hands control
// to daemonrun which owns logging, the pid file, the sighting store, the IPC
// server, and signal-driven shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"lookout/internal/config"
	"lookout/internal/daemonrun"
)

func main() {
	var (
		configPath = flag.String("config", "", "configuration file path")
		logLevel   = flag.String("log-level", "", "log level override (debug, info, warn, error)")
		socketPath = flag.String("socket", "", "IPC socket path override")
	)
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookoutd: load config: %v\n", err)
		os.Exit(1)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel:   *logLevel,
		SocketPath: *socketPath,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "lookoutd: %v\n", err)
		os.Exit(1)
	}
}
