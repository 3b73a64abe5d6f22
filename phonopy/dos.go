package phonopy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//TotalDOS is the total phonon density of states as written by phonopy to
//total_dos.dat: a frequency grid (THz) and the DOS at each point.
type TotalDOS struct {
	FreqPoints []float64
	DOS        []float64
}

//ReadTotalDOS reads a phonopy total_dos.dat file.
func ReadTotalDOS(filename string) (*TotalDOS, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ReadTotalDOSFrom(f)
	if err != nil {
		return nil, fmt.Errorf("goJarvis/phonopy.ReadTotalDOS %s: %v", filename, err)
	}
	return d, nil
}

//ReadTotalDOSFrom reads a two-column (frequency, dos) table from r, skipping
//comment lines starting with #.
func ReadTotalDOSFrom(r io.Reader) (*TotalDOS, error) {
	scanner := bufio.NewScanner(r)
	d := new(TotalDOS)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("goJarvis/phonopy: malformed total_dos line: %s", line)
		}
		freq, err1 := strconv.ParseFloat(fields[0], 64)
		dos, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("goJarvis/phonopy: malformed total_dos line: %s", line)
		}
		d.FreqPoints = append(d.FreqPoints, freq)
		d.DOS = append(d.DOS, dos)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(d.FreqPoints) == 0 {
		return nil, fmt.Errorf("goJarvis/phonopy: empty total_dos table")
	}
	return d, nil
}
