// Package profile serializes finalized profiles and derives per-shot
// statistics from them.
package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ipsim/ipsim/sim"
)

// precision is the number of decimals written per value.
const precision = 5

// WriteText writes one value per line with fixed precision, row-major by shot
// then site.
func WriteText(w io.Writer, p *sim.Profile) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 16)
	for _, v := range p.Values {
		buf = strconv.AppendFloat(buf[:0], v, 'f', precision, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("writing profile: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing profile: %w", err)
	}
	return nil
}

// SaveText writes p to path in the text format. The accumulated profile is
// untouched if the write fails.
func SaveText(path string, p *sim.Profile) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	return WriteText(file, p)
}

// ReadText parses the text format back into a profile with the given number
// of sites per shot.
func ReadText(r io.Reader, sites int) (*sim.Profile, error) {
	if sites <= 0 {
		return nil, fmt.Errorf("sites must be positive, got %d", sites)
	}
	var values []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	if len(values) == 0 || len(values)%sites != 0 {
		return nil, fmt.Errorf("read %d values, not a positive multiple of %d sites", len(values), sites)
	}
	return &sim.Profile{Shots: len(values) / sites, Sites: sites, Values: values}, nil
}

// LoadText reads a profile file written by SaveText.
func LoadText(path string, sites int) (*sim.Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()
	return ReadText(file, sites)
}
