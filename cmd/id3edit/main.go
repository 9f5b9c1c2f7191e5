package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/wader/id3edit/internal/genre"
	"github.com/wader/id3edit/internal/tagsio"
	"go.uber.org/zap"
)

var gitCommit = "dev"

var versionFlag = flag.Bool("version", false, "Print version ("+gitCommit+")")

var debugFlag = flag.Bool("debug", false, "Debug output")
var configFlag = flag.String("config", "", "Config file (JSON)")

var coverFlag = flag.String("cover", "", "Set front cover from image file")
var removeFlag = flag.Bool("remove", false, "Remove tag")
var framesFlag = flag.Bool("frames", false, "List raw frames")
var genresFlag = flag.Bool("genres", false, "List genres")

var setFlags setFlag

// setFlag repeatable field=value flag
type setFlag []string

func (s *setFlag) String() string { return strings.Join(*s, ",") }

func (s *setFlag) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected field=value")
	}
	*s = append(*s, v)
	return nil
}

func fatalIfErrorf(err error, format string, a ...interface{}) {
	if err != nil {
		a = append(a, err)
		log.Fatalf(format+": %v", a...)
	}
}

func init() {
	flag.Var(&setFlags, "set", "Set field, field=value, can be repeated ("+strings.Join(tagsio.FieldNames, ", ")+")")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s [flags] PATH...:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "PATH is an mp3 file or a directory to list\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag {
		fmt.Println(gitCommit)
		os.Exit(0)
	}
	if os.Getenv("DEBUG") != "" {
		*debugFlag = true
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if *debugFlag {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	fatalIfErrorf(err, "failed to create logger")
	return logger
}

func printFields(f *tagsio.File) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", f.Path)
	if f.HadTag {
		fmt.Fprintf(tw, "Version:\t%s\n", f.Tag.Header.Version())
	}
	for _, name := range tagsio.FieldNames {
		v, _ := f.Fields.Get(name)
		if name == "Genre" && v != "" {
			if r := genre.Resolve(v); r != v {
				v = fmt.Sprintf("%s (%s)", r, v)
			}
		}
		fmt.Fprintf(tw, "%s:\t%s\n", name, v)
	}
	if c, ok := f.Cover(); ok {
		fmt.Fprintf(tw, "Cover:\t%s %s %d bytes\n", c.PictureType, c.MIMEType, c.Size())
	}
	if f.Tag.Truncated {
		fmt.Fprintf(tw, "Warning:\ttag is truncated\n")
	}
	tw.Flush()
}

func printFrames(f *tagsio.File) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	for _, fr := range f.Tag.Frames.All() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%04x\n", fr.ID, fr.Name(), len(fr.Data), uint16(fr.Flags))
	}
	tw.Flush()
}

func edit(path string, c tagsio.Config, logger *zap.Logger) {
	f, err := tagsio.Open(path, c, logger)
	fatalIfErrorf(err, "failed to open")

	if *removeFlag {
		fatalIfErrorf(f.Remove(), "%s: failed to remove tag", path)
		return
	}

	for _, s := range setFlags {
		parts := strings.SplitN(s, "=", 2)
		fatalIfErrorf(f.Fields.Set(parts[0], parts[1]), "%s: -set %s", path, s)
	}
	changed := len(f.Changed()) > 0
	if *coverFlag != "" {
		fatalIfErrorf(f.SetCover(*coverFlag), "%s: failed to set cover", path)
		changed = true
	}
	if changed {
		fatalIfErrorf(f.Save(), "%s: failed to save", path)
	}

	printFields(f)
	if *framesFlag {
		printFrames(f)
	}
}

func list(ctx context.Context, root string, c tagsio.Config, logger *zap.Logger) {
	entries, err := tagsio.ReadDir(ctx, root, c, logger)
	fatalIfErrorf(err, "failed to read directory")

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PATH\tARTIST\tALBUM\tTRACK\tTITLE\n")
	for _, e := range entries {
		if e.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\n", e.Path, e.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Path, e.Fields.Artist, e.Fields.Album, e.Fields.Track, e.Fields.Title)
	}
	tw.Flush()
}

func main() {
	if *genresFlag {
		for i, name := range genre.Choices() {
			if i < len(genre.List) {
				fmt.Printf("%d\t%s\n", i, name)
			} else {
				fmt.Printf("\t%s\n", name)
			}
		}
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger()
	defer logger.Sync()

	c := tagsio.DefaultConfig()
	if *configFlag != "" {
		var err error
		c, err = tagsio.NewConfigFromFile(*configFlag)
		fatalIfErrorf(err, "failed to read config")
	}

	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelFn()

	for _, path := range flag.Args() {
		fi, err := os.Stat(path)
		fatalIfErrorf(err, "failed to stat")
		if fi.IsDir() {
			list(ctx, path, c, logger)
			continue
		}
		edit(path, c, logger)
	}
}
