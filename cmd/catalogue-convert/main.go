package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/aluiziolira/go-fill-catalogue/feed"
	"github.com/aluiziolira/go-fill-catalogue/logging"
)

func main() {
	in := flag.String("in", "script-data.yaml", "YAML source document")
	out := flag.String("out", "script-data.json", "Public JSON feed (published scripts only)")
	private := flag.String("private", "", "Private JSON feed with every script (default: <out>-private.json)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logging.Setup(*verbose, os.Stderr)

	privateOut := *private
	if privateOut == "" {
		privateOut = feed.PrivatePath(*out)
	}

	public, all, err := feed.Convert(*in, *out, privateOut)
	if err != nil {
		slog.Error("conversion failed", slog.String("source", *in), slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("feeds written",
		slog.String("public", *out),
		slog.Int("public_scripts", public),
		slog.String("private", privateOut),
		slog.Int("private_scripts", all),
	)
}
