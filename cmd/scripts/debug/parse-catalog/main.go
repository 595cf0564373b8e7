package main

import (
	"fmt"
	"os"

	"github.com/Cyberdude00/aura-scouting-web/pkg/catalog"
	"github.com/Cyberdude00/aura-scouting-web/pkg/legacy"
	"github.com/Cyberdude00/aura-scouting-web/pkg/sortname"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	log := logger.New()

	var opts struct {
		Legacy bool `short:"l" long:"legacy" description:"Also print the group order and media order a legacy file yields"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/parse-catalog [--legacy] <path/to/catalog.ts>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Err(err).Fatal("read file error")
	}

	doc, err := catalog.ParseFile(args[0], string(data))
	if err != nil {
		log.Err(err).Fatal("catalog parse error")
	}

	fmt.Printf("Records: %d\n", doc.Len())
	for i, r := range doc.Records() {
		fmt.Printf("%3d. %s (%s) cover=%q media=%d\n", i+1, r.Name(), r.Slug(), r.Cover(), len(r.Media()))
	}

	if !opts.Legacy {
		return
	}

	text := string(data)
	fmt.Printf("Group order: %v\n", legacy.ExtractGroupOrder(text))
	media := legacy.ExtractMediaOrder(text)
	slugs := make([]string, 0, len(media))
	for slug := range media {
		slugs = append(slugs, slug)
	}
	sortname.Strings(slugs)
	for _, slug := range slugs {
		fmt.Printf("Media order %s: %v\n", slug, media[slug])
	}
}
