// Command lfgpack packs one or more files into an LFG! installer
// archive, imploding each member with the implode package. Flag
// handling follows the teacher's own internal/tool/bench/main.go style:
// flag.Parse over flag variables declared in main, no subcommands.
//
// Example usage:
//	$ lfgpack -o game.lfg -dict 6 -ascii readme.txt data.bin
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SeltmannSoftware/lfgpack/implode"
	"github.com/SeltmannSoftware/lfgpack/lfgarchive"
)

func main() {
	var (
		output   = flag.String("o", "", "output archive path (required)")
		diskSize = flag.Int64("disksize", 0, "maximum bytes per disk segment (0 = single segment)")
		dictSize = flag.Uint("dict", 6, "dictionary size (4, 5, or 6)")
		ascii    = flag.Bool("ascii", false, "use ASCII literal mode instead of binary")
		opt      = flag.Int("opt", 2, "optimization level (0-3, or 5 to brute-force parameter combinations)")
		verbose  = flag.Bool("v", false, "print each file as it is packed")
	)
	flag.Parse()

	if *output == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: lfgpack -o ARCHIVE [flags] FILE...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(*output, flag.Args(), *diskSize, uint8(*dictSize), *ascii, *opt, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "lfgpack:", err)
		os.Exit(1)
	}
}

func run(output string, files []string, diskSize int64, dictSize uint8, ascii bool, opt int, verbose bool) error {
	lm := implode.LiteralBinary
	if ascii {
		lm = implode.LiteralASCII
	}

	if diskSize <= 0 {
		diskSize = 1 << 62 // Effectively unbounded: one segment.
	}

	segments := lfgarchive.NewFileSegments(output, true)
	defer segments.Close()

	vol := lfgarchive.VolumeHeader{
		Name:      filepath.Base(output),
		DiskCount: 1,
	}
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			return err
		}
		vol.ExpandedTotal += uint32(fi.Size())
	}

	wr, err := lfgarchive.NewWriter(segments, vol, diskSize)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := packFile(wr, f, dictSize, uint8(lm), opt, verbose); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	}
	return wr.Close()
}

func packFile(wr *lfgarchive.Writer, path string, dictSize, literalMode uint8, opt int, verbose bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("packing %-20s %10d bytes\n", filepath.Base(path), fi.Size())
	}

	return wr.WriteFile(filepath.Base(path), fi.Size(), fi.Size(), f, &implode.ImplodeOptions{
		LiteralMode:       literalMode,
		DictionarySize:    dictSize,
		OptimizationLevel: opt,
	})
}
