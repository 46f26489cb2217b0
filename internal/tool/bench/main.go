// Benchmark tool to compare implode's optimization levels against each
// other and against a production DEFLATE implementation, grounded on
// dsnet-compress's internal/tool/bench harness shape (flag-driven,
// table report) but scoped to the one codec this repository implements
// plus one real-world baseline.
//
// Example usage:
//	$ go run . -size=65536 -opts=0,1,2,3,5
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SeltmannSoftware/lfgpack/implode"
	"github.com/SeltmannSoftware/lfgpack/internal/testutil"
	"github.com/klauspost/compress/flate"
)

func main() {
	var (
		size = flag.Int("size", 1<<16, "size in bytes of the pseudo-random input corpus")
		opts = flag.String("opts", "0,1,2,3,5", "comma-separated implode optimization levels to try")
		seed = flag.Int("seed", 0, "seed for the pseudo-random input corpus")
	)
	flag.Parse()

	input := testutil.NewRand(*seed).Bytes(*size)

	levels, err := parseInts(*opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}

	fmt.Printf("BENCHMARK: implode vs flate, input %d bytes\n", len(input))
	fmt.Printf("%-24s %10s %10s %12s\n", "codec", "bytes", "ratio", "time")

	report := func(name string, n int, d time.Duration) {
		ratio := float64(len(input)) / float64(n)
		fmt.Printf("%-24s %10d %10.2fx %12s\n", name, n, ratio, d.Round(time.Microsecond))
	}

	for _, lvl := range levels {
		start := time.Now()
		var buf bytes.Buffer
		_, err := implode.Implode(bytes.NewReader(input), &buf, &implode.ImplodeOptions{
			Length:            int64(len(input)),
			LiteralMode:       implode.LiteralBinary,
			DictionarySize:    6,
			OptimizationLevel: lvl,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "bench: implode opt=%d: %v\n", lvl, err)
			continue
		}
		report(fmt.Sprintf("implode (opt=%d)", lvl), buf.Len(), time.Since(start))
	}

	start := time.Now()
	var fbuf bytes.Buffer
	fw, err := flate.NewWriter(&fbuf, flate.DefaultCompression)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
	if _, err := fw.Write(input); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
	if err := fw.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
	report("flate (klauspost)", fbuf.Len(), time.Since(start))
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", tok, err)
		}
		out = append(out, n)
	}
	return out, nil
}
