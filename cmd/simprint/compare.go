package main

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/sansecio/simprint/internal/minhash"
	"github.com/sansecio/simprint/internal/similarity"
)

type compareArg struct {
	Chunking chunkOpt `group:"Chunking Options"`
	Signing  sigOpt   `group:"Signature Options"`
	Text     bool     `short:"t" long:"text" description:"Treat files as text: normalize and shingle instead of chunking"`
	Path     struct {
		A string `positional-arg-name:"<file-a>" required:"true"`
		B string `positional-arg-name:"<file-b>" required:"true"`
	} `positional-args:"yes" required:"true"`
}

func init() {
	cli.AddCommand("compare", "Compare two files", "Print exact set similarities and their signature estimates", &compareArg{})
}

// comparison holds exact and estimated similarities of two files.
type comparison struct {
	Jaccard     float64
	Containment float64
	Cosine      float64
	Slots       float64 // fraction of equal signature slots
	Bits        float64 // fraction of equal digest bits
	Estimate    float64 // Jaccard estimated from Bits
	Profile     int     // differing bits of the byte profiles, -1 for text
}

func (a *compareArg) compare() (*comparison, error) {
	fp, err := newFingerprinter(a.Chunking, a.Signing)
	if err != nil {
		return nil, err
	}
	ra, err := fp.File(a.Path.A, a.Text)
	if err != nil {
		return nil, err
	}
	rb, err := fp.File(a.Path.B, a.Text)
	if err != nil {
		return nil, err
	}

	c := &comparison{Cosine: similarity.Cosine(ra.Features, rb.Features), Profile: -1}
	if !a.Text {
		c.Profile = bits.OnesCount64(ra.Profile ^ rb.Profile)
	}
	if c.Jaccard, err = similarity.Jaccard(ra.Features, rb.Features); err != nil && !errors.Is(err, similarity.ErrEmptyInput) {
		return nil, err
	}
	if c.Containment, err = similarity.Containment(ra.Features, rb.Features); err != nil && !errors.Is(err, similarity.ErrEmptyInput) {
		return nil, err
	}
	if c.Slots, err = minhash.SlotSimilarity(ra.Signature, rb.Signature); err != nil {
		return nil, err
	}
	nbits := len(ra.Signature)
	if c.Bits, err = minhash.BitSimilarity(ra.Body(), rb.Body(), nbits); err != nil {
		return nil, err
	}
	if c.Estimate, err = minhash.EstimateJaccard(ra.Body(), rb.Body(), nbits); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *compareArg) Execute(_ []string) error {
	c, err := a.compare()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, boldwhite(a.Path.A), "<>", boldwhite(a.Path.B))
	fmt.Fprintf(stdout, " - Jaccard              : %.4f\n", c.Jaccard)
	fmt.Fprintf(stdout, " - Containment          : %.4f\n", c.Containment)
	fmt.Fprintf(stdout, " - Cosine               : %.4f\n", c.Cosine)
	fmt.Fprintf(stdout, " - Signature slots      : %.4f\n", c.Slots)
	fmt.Fprintf(stdout, " - Digest bits          : %.4f\n", c.Bits)
	fmt.Fprintf(stdout, " - Estimated Jaccard    : %s\n", warn(fmt.Sprintf("%.4f", c.Estimate)))
	if c.Profile >= 0 {
		fmt.Fprintf(stdout, " - Byte profile distance: %d/64\n", c.Profile)
	}
	return nil
}
