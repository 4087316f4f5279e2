// Command analyzer prints a readable breakdown of a compressed stream: the
// header, the code width schedule, dictionary resets, and the codes that
// dominate the stream.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/exp/slices"

	"zcompress/lzc"
)

var (
	flagIn  = flag.String("i", "", "compressed input file (required)")
	flagTop = flag.Int("top", 10, "number of most frequent codes to list")
	flagCSV = flag.Bool("csv", false, "dump the raw code trace as csv instead")
)

func main() {
	flag.Parse()
	if *flagIn == "" {
		fmt.Fprintln(os.Stderr, "no input file specified")
		os.Exit(1)
	}

	data, err := os.ReadFile(*flagIn)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tr, err := lzc.Trace(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *flagCSV {
		fmt.Println("offset,code,width")
		for _, c := range tr.Codes {
			fmt.Printf("%d,%d,%d\n", c.Offset, c.Code, c.Width)
		}
		return
	}

	fmt.Printf("max code width: %d\n", tr.Header.MaxCodeWidth)
	fmt.Printf("block mode:     %t\n", tr.Header.BlockMode)
	if tr.Header.Flags&^0x80 != 0 {
		fmt.Printf("reserved flags: %#02x\n", tr.Header.Flags)
	}
	fmt.Printf("codes:          %d in %d body bytes\n", len(tr.Codes), len(data)-lzc.HeaderSize)
	fmt.Printf("resets:         %d\n", tr.Resets)

	width := uint8(0)
	for i, c := range tr.Codes {
		if c.Width != width {
			fmt.Printf("width %2d from code #%d (byte %d)\n", c.Width, i+1, c.Offset)
			width = c.Width
		}
	}

	printHistogram(tr, *flagTop)
}

type codeCount struct {
	code  uint16
	count int
}

func printHistogram(tr *lzc.CodeTrace, top int) {
	counts := make(map[uint16]int)
	for _, c := range tr.Codes {
		counts[c.Code]++
	}
	hist := make([]codeCount, 0, len(counts))
	for code, count := range counts {
		hist = append(hist, codeCount{code, count})
	}
	slices.SortFunc(hist, func(a, b codeCount) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return int(a.code) - int(b.code)
	})

	if top > len(hist) {
		top = len(hist)
	}
	fmt.Printf("top %d codes:\n", top)
	for _, h := range hist[:top] {
		if h.code >= 32 && h.code < 127 {
			fmt.Printf("  %5d (%q) x%d\n", h.code, rune(h.code), h.count)
		} else {
			fmt.Printf("  %5d x%d\n", h.code, h.count)
		}
	}
}
