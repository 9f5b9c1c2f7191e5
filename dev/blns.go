// https://raw.githubusercontent.com/minimaxir/big-list-of-naughty-strings/master/blns.json
// Usage: go run blns.go -p 100 -f blns.json
// Round trips each string through text and comment frames in all encodings
// and logs the ones that do not come back unchanged.

package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"sync"

	"github.com/wader/id3edit/internal/id3v2"
	"golang.org/x/sync/errgroup"
)

var blnsFileFlag = flag.String("f", "blns.json", "blns.json file")
var parallelismFlag = flag.Int("p", 1, "parallelism")

var encodings = []id3v2.Encoding{
	id3v2.EncodingISO88591,
	id3v2.EncodingUTF16,
	id3v2.EncodingUTF16BE,
	id3v2.EncodingUTF8,
}

func roundTrip(enc id3v2.Encoding, s string) (text string, comment string, err error) {
	tc, err := id3v2.ParseTextContent(&id3v2.Frame{
		ID:   id3v2.FrameTitle,
		Data: id3v2.TextContent{Encoding: enc, Text: s}.Bytes(),
	})
	if err != nil {
		return "", "", err
	}
	cc, err := id3v2.ParseCommentContent(&id3v2.Frame{
		ID: id3v2.FrameComment,
		Data: id3v2.CommentContent{
			Language:    "eng",
			Description: s,
			Text:        id3v2.TextContent{Encoding: enc, Text: s},
		}.Bytes(),
	})
	if err != nil {
		return "", "", err
	}
	return tc.Text, cc.Text.Text, nil
}

func main() {
	flag.Parse()
	if *parallelismFlag < 1 {
		log.Fatal("parallelism must be at least 1")
	}

	blnsFile, blnsFileErr := os.Open(*blnsFileFlag)
	if blnsFileErr != nil {
		log.Fatal(blnsFileErr)
	}
	defer blnsFile.Close()

	blns := []string{}
	blnsDecoder := json.NewDecoder(blnsFile)
	blnsDecoderErr := blnsDecoder.Decode(&blns)
	if blnsDecoderErr != nil {
		log.Fatal(blnsDecoderErr)
	}

	var logMu sync.Mutex
	mismatches := 0
	g := errgroup.Group{}
	g.SetLimit(*parallelismFlag)

	for index, s := range blns {
		index, s := index, s
		g.Go(func() error {
			for _, enc := range encodings {
				text, comment, err := roundTrip(enc, s)
				if err == nil && text == s && comment == s {
					continue
				}
				logMu.Lock()
				mismatches++
				log.Printf("%d %s ================================", index, enc)
				log.Printf("Error: %v", err)
				log.Printf("Input:   %q", s)
				log.Printf("Text:    %q", text)
				log.Printf("Comment: %q", comment)
				logMu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	log.Printf("%d strings, %d mismatches", len(blns), mismatches)
}
