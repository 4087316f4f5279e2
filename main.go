package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"

	"zcompress/lzc"
)

var (
	flagDecompress = flag.Bool("d", false, "decompress")
	flagIn         = flag.String("i", "", "input file (required)")
	flagOut        = flag.String("o", "", "output file")
	flagMaxWidth   = flag.Uint("b", lzc.MaxCodeWidth, "max code width in bits (9-16)")
	flagForce      = flag.Bool("f", false, "overwrite existing output and keep output that expands")
	flagReport     = flag.Bool("r", false, "report compression ratio")
	flagVerbose    = flag.Bool("v", false, "verbose diagnostics on stderr")
	flagVersion    = flag.Bool("version", false, "report executable version")
)

const (
	extension = ".Z"
	version   = "0.1.0"
)

func quitF(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		panic(err)
	}
	os.Exit(1)
}

func assertNoError(err error) {
	if err != nil {
		quitF("%v\n", err)
	}
}

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Println("zcompress v" + version)
		os.Exit(0)
	}

	if *flagIn == "" {
		quitF("no input file specified\n")
	}
	if *flagMaxWidth < lzc.MinCodeWidth || *flagMaxWidth > lzc.MaxCodeWidth {
		quitF("max code width %d not in [%d,%d]\n", *flagMaxWidth, lzc.MinCodeWidth, lzc.MaxCodeWidth)
	}

	logger := log.New()
	lvl := log.LvlInfo
	if *flagVerbose {
		lvl = log.LvlDebug
	}
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))

	in, err := os.ReadFile(*flagIn)
	assertNoError(err)

	if *flagOut == "" { // construct a file name from the input name
		if *flagDecompress {
			switch {
			case strings.HasSuffix(*flagIn, extension):
				*flagOut = (*flagIn)[:len(*flagIn)-len(extension)]
			case strings.HasSuffix(*flagIn, ".taz"):
				*flagOut = (*flagIn)[:len(*flagIn)-len(".taz")] + ".tar"
			default:
				*flagOut = *flagIn + ".out"
			}
		} else {
			*flagOut = *flagIn + extension
		}
	}

	var (
		out        []byte
		lenC, lenD int
	)
	if *flagDecompress {
		opts := lzc.DefaultReaderOptions()
		opts.Logger = logger
		out, err = lzc.Decompress(in, opts)
		assertNoError(err)
		lenC, lenD = len(in), len(out)
	} else {
		opts := lzc.DefaultWriterOptions()
		opts.MaxCodeWidth = uint8(*flagMaxWidth)
		opts.Logger = logger
		out, err = lzc.Compress(in, opts)
		assertNoError(err)
		lenC, lenD = len(out), len(in)
		if lenC >= lenD && !*flagForce {
			quitF("%s: would grow from %d to %d bytes, not compressing (use -f to force)\n", *flagIn, lenD, lenC)
		}
	}

	if !*flagForce {
		if _, err := os.Stat(*flagOut); err == nil {
			quitF("%s already exists (use -f to overwrite)\n", *flagOut)
		}
	}
	assertNoError(os.WriteFile(*flagOut, out, 0600))

	if *flagReport {
		fmt.Printf("%s -> %s compression ratio %.2f\n",
			datasize.ByteSize(lenD).HumanReadable(),
			datasize.ByteSize(lenC).HumanReadable(),
			float64(lenD)/float64(lenC))
	}
}
