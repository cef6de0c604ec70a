package dsmc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// WriteField writes a 2-D HaloField's interior as whitespace-delimited
// text, one row per i, per §6's output format. If tag is non-empty the
// filename receives a "_t=<tag>.txt" suffix, otherwise a plain ".txt"
// extension is appended to path.
func WriteField(path, tag string, f *HaloField[float64]) error {
	full := outputPath(path, tag)
	file, err := os.Create(full)
	if err != nil {
		logWriteFailure(full, err)
		return &IOError{Path: full, Err: err}
	}
	defer file.Close()

	lx, ux, ly, uy := f.Bounds()
	w := bufio.NewWriter(file)
	for i := lx; i < ux; i++ {
		for j := ly; j < uy; j++ {
			if j > ly {
				w.WriteByte(' ')
			}
			w.WriteString(strconv.FormatFloat(f.Get(i, j), 'g', -1, 64))
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		logWriteFailure(full, err)
		return &IOError{Path: full, Err: err}
	}
	return nil
}

// WriteCounters writes a slice of per-step scalar counters, one value
// per line, per §6.
func WriteCounters(path string, values []float64) error {
	file, err := os.Create(path)
	if err != nil {
		logWriteFailure(path, err)
		return &IOError{Path: path, Err: err}
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, v := range values {
		fmt.Fprintf(w, "%s\n", strconv.FormatFloat(v, 'g', -1, 64))
	}
	if err := w.Flush(); err != nil {
		logWriteFailure(path, err)
		return &IOError{Path: path, Err: err}
	}
	return nil
}

func outputPath(path, tag string) string {
	if tag == "" {
		return path + ".txt"
	}
	base := strings.TrimSuffix(path, ".txt")
	return fmt.Sprintf("%s_t=%s.txt", base, tag)
}

// logWriteFailure implements §7 kind 4: log and continue, never abort
// the run over an output failure.
func logWriteFailure(path string, err error) {
	logrus.WithError(err).WithField("path", path).Warn("dsmc: failed to write output file, skipping sample")
}

// SaveEnsemble writes every particle's full state, including its stable
// tag, as one whitespace-delimited line per particle (§3.x "Gob-free
// state"): the same textual convention WriteField uses for fields,
// rather than the original's unformatted binary restart dump.
func SaveEnsemble(w io.Writer, e *Ensemble) error {
	bw := bufio.NewWriter(w)
	for _, p := range e.P {
		_, err := fmt.Fprintf(bw, "%d %s %s %s %s %s\n", p.Tag,
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatFloat(p.Vx, 'g', -1, 64),
			strconv.FormatFloat(p.Vy, 'g', -1, 64),
			strconv.FormatFloat(p.Vz, 'g', -1, 64))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadEnsemble reads back a snapshot written by SaveEnsemble, restoring
// every particle's stable tag and recomputing its cached cell index
// against g.
func LoadEnsemble(r io.Reader, g *Grid) (*Ensemble, error) {
	e := NewEnsemble(g, 0)
	scanner := bufio.NewScanner(r)
	var maxTag int64 = -1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, &IOError{Path: "<snapshot>", Err: fmt.Errorf("malformed snapshot line: %q", line)}
		}
		tag, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, &IOError{Path: "<snapshot>", Err: err}
		}
		x, _ := strconv.ParseFloat(fields[1], 64)
		y, _ := strconv.ParseFloat(fields[2], 64)
		vx, _ := strconv.ParseFloat(fields[3], 64)
		vy, _ := strconv.ParseFloat(fields[4], 64)
		vz, _ := strconv.ParseFloat(fields[5], 64)

		e.Add(x, y, vx, vy, vz)
		e.P[len(e.P)-1].Tag = tag
		if tag > maxTag {
			maxTag = tag
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Path: "<snapshot>", Err: err}
	}
	e.nextTag = maxTag + 1
	return e, nil
}
