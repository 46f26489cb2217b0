// Command lfgunpack extracts every member of an LFG! installer archive
// to an output directory, exploding each member with the implode
// package.
//
// Example usage:
//	$ lfgunpack -d out/ game.lfg
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/SeltmannSoftware/lfgpack/lfgarchive"
)

func main() {
	var (
		outDir  = flag.String("d", ".", "directory to extract files into")
		force   = flag.Bool("f", false, "overwrite existing files")
		verbose = flag.Bool("v", false, "print each file as it is extracted")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lfgunpack [flags] ARCHIVE")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *outDir, *force, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "lfgunpack:", err)
		os.Exit(1)
	}
}

func run(archive, outDir string, force, verbose bool) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	segments := lfgarchive.NewFileSegments(archive, false)
	defer segments.Close()

	rd, err := lfgarchive.NewReader(segments)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("volume %q, %d disk(s), %d bytes expanded\n", rd.Volume.Name, rd.Volume.DiskCount, rd.Volume.ExpandedTotal)
	}

	for {
		fh, member, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := extractFile(outDir, fh.Name, member, force, verbose); err != nil {
			return fmt.Errorf("%s: %w", fh.Name, err)
		}
	}
}

func extractFile(outDir, name string, r io.Reader, force, verbose bool) error {
	path := filepath.Join(outDir, name)

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("extracted %-20s %10d bytes\n", name, n)
	}
	return nil
}
