// Command bioflow provides a CLI for pairwise DNA alignment.
//
// Usage:
//
//	bioflow [command] [options]
//
// Commands:
//
//	align       Align two sequences
//	dump        Write the score matrix of an alignment as CSV
//	batch       Align a query against every record of a FASTA file
//	stats       Calculate sequence statistics
//	version     Show version information
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/aria-lang/bioflow-align/pkg/bioflow"
	"github.com/dustin/go-humanize"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "align":
		alignCmd(os.Args[2:])
	case "dump":
		dumpCmd(os.Args[2:])
	case "batch":
		batchCmd(os.Args[2:])
	case "stats":
		statsCmd(os.Args[2:])
	case "version":
		fmt.Println(bioflow.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bioflow-align - Pairwise DNA Alignment Tool

Usage:
  bioflow <command> [options]

Commands:
  align     Align two sequences
  dump      Write the score matrix of an alignment as CSV
  batch     Align a query against every record of a FASTA file
  stats     Calculate sequence statistics
  version   Show version information
  help      Show this help message

Use "bioflow <command> -h" for more information about a command.`)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// pairFlags are the inputs shared by align and dump.
type pairFlags struct {
	probe   *string
	target  *string
	file    *string
	profile *string
	global  *bool
	revcomp *bool
}

func addPairFlags(fs *flag.FlagSet) *pairFlags {
	return &pairFlags{
		probe:   fs.String("probe", "", "Probe sequence"),
		target:  fs.String("target", "", "Target sequence"),
		file:    fs.String("file", "", "FASTA file whose first two records are probe and target"),
		profile: fs.String("profile", "", "YAML scoring profile"),
		global:  fs.Bool("global", false, "Use global alignment (Needleman-Wunsch)"),
		revcomp: fs.Bool("revcomp", false, "Reverse complement the target before aligning"),
	}
}

func (f *pairFlags) sequences(fs *flag.FlagSet) (*bioflow.Sequence, *bioflow.Sequence) {
	var probe, target *bioflow.Sequence

	switch {
	case *f.file != "":
		sequences, err := bioflow.ReadFASTA(*f.file)
		if err != nil {
			fatalf("Error reading file: %v\n", err)
		}
		if len(sequences) < 2 {
			fatalf("Error: %s holds %d records, need 2\n", *f.file, len(sequences))
		}
		probe, target = sequences[0], sequences[1]
	case *f.probe != "" && *f.target != "":
		var err error
		if probe, err = bioflow.NewSequenceWithID(*f.probe, "probe"); err != nil {
			fatalf("Error creating probe: %v\n", err)
		}
		if target, err = bioflow.NewSequenceWithID(*f.target, "target"); err != nil {
			fatalf("Error creating target: %v\n", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "Error: Either -file or both -probe and -target are required")
		fs.Usage()
		os.Exit(1)
	}

	if *f.revcomp {
		target = target.ReverseComplement()
	}
	return probe, target
}

// scores resolves the scoring profile and alignment type. -global overrides
// the profile's type and drops any band.
func (f *pairFlags) scores() (bioflow.ScoreConfig, bioflow.AlignmentType) {
	sc := bioflow.DefaultScores()
	alignType := bioflow.Local

	if *f.profile != "" {
		profile, err := bioflow.LoadProfile(*f.profile)
		if err != nil {
			fatalf("Error loading profile: %v\n", err)
		}
		if sc, err = profile.ScoreConfig(); err != nil {
			fatalf("Error in profile %s: %v\n", *f.profile, err)
		}
		if !*f.global {
			if alignType, err = profile.AlignmentType(); err != nil {
				fatalf("Error in profile %s: %v\n", *f.profile, err)
			}
		}
	}

	if *f.global {
		alignType = bioflow.Global
		sc.Band = nil
	}
	return sc, alignType
}

func alignCmd(args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	pf := addPairFlags(fs)
	band := fs.Bool("band", false, "Restrict the local alignment to a band around the diagonal")
	bandWidth := fs.Int("band-width", 0, "Band initial half width (default from profile or 20)")
	bandFrac := fs.Float64("band-frac", 0, "Band max path length difference (default from profile or 0.1)")
	anchors := fs.Int("anchors", 0, "Report 5' and 3' anchors of at least this many bases")
	maxCells := fs.Int64("max-cells", 0, "Traceback cell ceiling (0 keeps the engine default)")
	fs.Parse(args)

	probe, target := pf.sequences(fs)
	sc, alignType := pf.scores()

	if *band || *bandWidth != 0 || *bandFrac != 0 {
		if alignType == bioflow.Global {
			fatalf("Error: global alignment cannot be banded\n")
		}
		if sc.Band == nil {
			sc.Band = bioflow.DefaultBand()
		}
		if *bandWidth != 0 {
			sc.Band.InitialHalfWidth = *bandWidth
		}
		if *bandFrac != 0 {
			sc.Band.MaxPathLenDiff = *bandFrac
		}
	}

	if *anchors > 0 {
		if alignType == bioflow.Global {
			fatalf("Error: anchors need a local alignment\n")
		}
		a, anc, ok, err := bioflow.FindAnchors(probe, target, sc, *anchors)
		if err != nil {
			fatalf("Error aligning sequences: %v\n", err)
		}
		fmt.Println(a.Format())
		fmt.Println()
		if !ok {
			fmt.Printf("No anchors of %d bases\n", *anchors)
			return
		}
		fmt.Printf("5' anchor: probe %d, target %d\n", anc.ProbeStart5, anc.TargetStart5)
		fmt.Printf("3' anchor: probe %d, target %d\n", anc.ProbeEnd3, anc.TargetEnd3)
		return
	}

	a, err := bioflow.AlignWithLimit(probe, target, alignType, sc, *maxCells)
	if err != nil {
		fatalf("Error aligning sequences: %v\n", err)
	}

	fmt.Printf("%s alignment of %s (%s bp) and %s (%s bp)\n", alignType,
		probe.Name(), humanize.Comma(int64(probe.Len())),
		target.Name(), humanize.Comma(int64(target.Len())))
	fmt.Printf("Scores: %s\n\n", sc)
	fmt.Println(a.Format())
}

func dumpCmd(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	pf := addPairFlags(fs)
	out := fs.String("out", "", "Output CSV file (default: stdout)")
	fs.Parse(args)

	probe, target := pf.sequences(fs)
	sc, alignType := pf.scores()
	if sc.Banded() {
		fatalf("Error: banded matrices cannot be dumped\n")
	}

	e, err := bioflow.NewEngine(alignType, sc)
	if err != nil {
		fatalf("Error creating engine: %v\n", err)
	}
	defer e.Close()

	if err := e.SetProbe(probe.Symbols()); err != nil {
		fatalf("Error setting probe: %v\n", err)
	}
	if err := e.SetTarget(target.Symbols()); err != nil {
		fatalf("Error setting target: %v\n", err)
	}
	if _, err := e.Align(); err != nil {
		fatalf("Error aligning sequences: %v\n", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fatalf("Error creating %s: %v\n", *out, err)
		}
		defer f.Close()
		w = f
	}

	if err := e.DumpScores(w, bioflow.DefaultGlyphs()); err != nil {
		fatalf("Error dumping scores: %v\n", err)
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s cells to %s\n",
			humanize.Comma(int64(probe.Len())*int64(target.Len())), *out)
	}
}

func batchCmd(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	queryFile := fs.String("query", "", "FASTA file whose first record is the query")
	targetsFile := fs.String("targets", "", "FASTA file of targets")
	profile := fs.String("profile", "", "YAML scoring profile")
	global := fs.Bool("global", false, "Use global alignment (Needleman-Wunsch)")
	workers := fs.Int("workers", 0, "Worker count (0 = GOMAXPROCS)")
	bins := fs.Int("bins", 10, "Identity histogram bins")
	fs.Parse(args)

	if *queryFile == "" || *targetsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: Both -query and -targets are required")
		fs.Usage()
		os.Exit(1)
	}

	queries, err := bioflow.ReadFASTA(*queryFile)
	if err != nil {
		fatalf("Error reading query: %v\n", err)
	}
	if len(queries) == 0 {
		fatalf("No sequences found in %s\n", *queryFile)
	}
	targets, err := bioflow.ReadFASTA(*targetsFile)
	if err != nil {
		fatalf("Error reading targets: %v\n", err)
	}
	if len(targets) == 0 {
		fatalf("No sequences found in %s\n", *targetsFile)
	}

	pf := &pairFlags{profile: profile, global: global}
	sc, alignType := pf.scores()

	query := queries[0]
	pairs := make([]bioflow.Pair, len(targets))
	for i, t := range targets {
		pairs[i] = bioflow.Pair{Probe: query, Target: t}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := bioflow.AlignBatch(ctx, pairs, bioflow.BatchOptions{
		Type:    alignType,
		Scores:  &sc,
		Workers: *workers,
	})
	if err != nil {
		fatalf("Error aligning batch: %v\n", err)
	}

	fmt.Printf("%s alignment of %s against %s targets\n", alignType, query.Name(), humanize.Comma(int64(len(targets))))
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%-5s %-20s %8s %9s  %s\n", "#", "target", "score", "identity", "cigar")
	for i, a := range results {
		fmt.Printf("%-5d %-20s %8d %8.1f%%  %s\n", i, targets[i].Name(), a.Score, a.Identity*100, a.ToCIGAR())
	}
	fmt.Println()

	summary, err := bioflow.AlignmentSetStats(results)
	if err != nil {
		fatalf("Error summarizing alignments: %v\n", err)
	}
	fmt.Println(summary)

	hist, err := bioflow.IdentityHistogram(results, *bins)
	if err != nil {
		fatalf("Error building histogram: %v\n", err)
	}
	fmt.Print(hist)
}

func statsCmd(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file to analyze")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		fs.Usage()
		os.Exit(1)
	}

	sequences, err := bioflow.ReadFASTA(*file)
	if err != nil {
		fatalf("Error reading file: %v\n", err)
	}

	if len(sequences) == 0 {
		fatalf("No sequences found in file\n")
	}

	stats, err := bioflow.SequenceSetStats(sequences)
	if err != nil {
		fatalf("Error calculating statistics: %v\n", err)
	}

	fmt.Println("Sequence Set Statistics")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Number of sequences: %s\n", humanize.Comma(int64(stats.Count)))
	fmt.Printf("Total bases: %s\n", humanize.Comma(int64(stats.TotalBases)))
	fmt.Printf("Length range: %s - %s bp\n", humanize.Comma(int64(stats.MinLength)), humanize.Comma(int64(stats.MaxLength)))
	fmt.Printf("Mean length: %.1f bp\n", stats.MeanLength)
	fmt.Printf("Median length: %s bp\n", humanize.Comma(int64(stats.MedianLength)))
	fmt.Printf("N50: %s bp\n", humanize.Comma(int64(stats.N50)))
	fmt.Printf("Ambiguous bases: %s\n", humanize.Comma(int64(stats.TotalAmbiguous)))
	fmt.Printf("Soft-masked bases: %s\n", humanize.Comma(int64(stats.TotalMasked)))
}
