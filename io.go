package megasena

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// ParseNumbers parses a comma-separated list of integers such as "1, 2, 3".
// It only checks syntax; range and duplicates are left to ValidatePool.
func ParseNumbers(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidInput.WithDetails("empty input")
	}

	parts := strings.Split(raw, ",")
	numbers := make([]int, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, ErrInvalidInput.WithDetails("item %d is empty", i+1)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, ErrInvalidInput.WithDetails("item %d: %q is not an integer", i+1, part)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// ReadPool reads a whole text body holding a comma-separated number list
func ReadPool(r io.Reader) ([]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrInvalidInput.WithDetails("read input").WithCause(err)
	}
	return ParseNumbers(string(data))
}

// ReadTabularPool reads CSV and parses the first record whose fields are all integers.
// A leading header row is skipped.
func ReadTabularPool(r io.Reader) ([]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidInput.WithDetails("no numeric row found")
		}
		if err != nil {
			return nil, ErrInvalidInput.WithDetails("read csv").WithCause(err)
		}

		record = trimTrailingEmpty(record)
		if len(record) == 0 || !allIntegers(record) {
			continue
		}
		return ParseNumbers(strings.Join(record, ","))
	}
}

func trimTrailingEmpty(record []string) []string {
	for len(record) > 0 && strings.TrimSpace(record[len(record)-1]) == "" {
		record = record[:len(record)-1]
	}
	return record
}

func allIntegers(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.Atoi(strings.TrimSpace(f)); err != nil {
			return false
		}
	}
	return true
}

// WriteText writes one game per line, e.g. "[1, 2, 3, 4, 5, 6]"
func WriteText(w io.Writer, games []Game) error {
	return WriteTextSeq(w, slices.Values(games))
}

// WriteTextSeq is WriteText for a lazy sequence of games
func WriteTextSeq(w io.Writer, games iter.Seq[Game]) error {
	bw := bufio.NewWriter(w)
	for game := range games {
		if _, err := bw.WriteString(game.String() + "\n"); err != nil {
			return ErrExportFailed.WithCause(err)
		}
	}
	if err := bw.Flush(); err != nil {
		return ErrExportFailed.WithCause(err)
	}
	return nil
}

// WriteCSV writes a header of positions 0..k-1 followed by one row per game
func WriteCSV(w io.Writer, games []Game) error {
	return WriteCSVSeq(w, slices.Values(games))
}

// WriteCSVSeq is WriteCSV for a lazy sequence of games. The header is sized from the
// first game; an empty sequence writes nothing.
func WriteCSVSeq(w io.Writer, games iter.Seq[Game]) error {
	cw := csv.NewWriter(w)

	wroteHeader := false
	var row []string
	for game := range games {
		if !wroteHeader {
			header := make([]string, len(game))
			for i := range header {
				header[i] = strconv.Itoa(i)
			}
			if err := cw.Write(header); err != nil {
				return ErrExportFailed.WithCause(err)
			}
			wroteHeader = true
			row = make([]string, len(game))
		}

		if len(game) != len(row) {
			return ErrExportFailed.WithDetails("game %v has %d numbers, expected %d", game, len(game), len(row))
		}
		for i, n := range game {
			row[i] = strconv.Itoa(n)
		}
		if err := cw.Write(row); err != nil {
			return ErrExportFailed.WithCause(err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return ErrExportFailed.WithCause(err)
	}
	return nil
}
