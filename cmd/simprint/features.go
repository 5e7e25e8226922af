package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sansecio/simprint/internal/featureset"
)

type featuresArg struct {
	Chunking chunkOpt `group:"Chunking Options"`
	Signing  sigOpt   `group:"Signature Options"`
	Text     bool     `short:"t" long:"text" description:"Treat files as text: normalize and shingle instead of chunking"`
	Output   string   `short:"o" long:"output" description:"Feature set file, merged into when it exists" required:"true"`
	Include  []string `short:"i" long:"include" description:"Only use files matching this glob (repeatable)"`
	Exclude  []string `short:"x" long:"exclude" description:"Skip files matching this glob (repeatable)"`
	Path     struct {
		Path []string `positional-arg-name:"<path>" required:"1"`
	} `positional-args:"yes" required:"true"`
}

func init() {
	cli.AddCommand("features", "Save feature sets", "Collect the features of files into a feature set file", &featuresArg{})
}

func (a *featuresArg) Execute(_ []string) error {
	fp, err := newFingerprinter(a.Chunking, a.Signing)
	if err != nil {
		return err
	}
	filter, err := newFileFilter(a.Include, a.Exclude)
	if err != nil {
		return err
	}
	files, err := collectFiles(a.Path.Path, filter)
	if err != nil {
		return err
	}

	hash := fp.Config().Hash
	set, err := featureset.Open(a.Output)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		set = featureset.New(hash)
	case err != nil:
		return fmt.Errorf("loading %s: %w", a.Output, err)
	case set.Hash != hash:
		return fmt.Errorf("%s holds %v features, not %v", a.Output, set.Hash, hash)
	}

	oldSize := set.Len()
	logInfo(fmt.Sprintf("Extracting features from %d files", len(files)))
	for _, path := range files {
		fh, err := os.Open(path)
		if err != nil {
			return err
		}
		feats, err := fp.Features(fh, a.Text)
		fh.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		var added int
		for _, f := range feats {
			if set.Add(f) {
				added++
			}
		}
		if added > 0 {
			logVerbose(green(fmt.Sprintf(" U %s (%d new)", path, added)))
		} else {
			logVerbose(grey(" - " + path))
		}
	}

	if set.Len() == oldSize {
		fmt.Fprintln(stdout, "Found no new features...")
		return nil
	}
	fmt.Fprintf(stdout, "Saving %s with %d new features, %d in total.\n", a.Output, set.Len()-oldSize, set.Len())
	return set.Save(a.Output)
}
