package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voxelhouse.ai/internal/persistence/snapshot"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "header":
			headerCmd(os.Args[2:])
			return
		case "metrics":
			metricsCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

// listCmd prints the snapshots under the data directory, newest house id last.
func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	paths, err := listSnapshots(filepath.Join(*dataDir, "snapshots"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Println(filepath.Base(p))
	}
}

func headerCmd(args []string) {
	fs := flag.NewFlagSet("header", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	paths := fs.Args()
	if len(paths) == 0 {
		var err error
		paths, err = listSnapshots(filepath.Join(*dataDir, "snapshots"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
	}
	for _, p := range paths {
		h, err := snapshot.ReadHeader(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(p), err)
			os.Exit(1)
		}
		printJSON(struct {
			Path string `json:"path"`
			snapshot.Header
		}{Path: p, Header: h})
	}
}

func listSnapshots(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".snap.zst") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
