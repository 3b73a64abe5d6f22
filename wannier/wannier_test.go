package wannier

import (
	"fmt"
	"math"
	"math/cmplx"
	"path/filepath"
	"strings"
	"testing"
)

//A two-orbital model on three R points. The middle block is the on-site
//term; the hopping blocks are Hermitian partners of each other.
const hrdat = `written for testing
2
3
    1    1    1
   -1    0    0    1    1   -0.500000    0.000000
   -1    0    0    1    2    0.100000   -0.200000
   -1    0    0    2    1    0.100000    0.200000
   -1    0    0    2    2   -0.500000    0.000000
    0    0    0    1    1    2.000000    0.000000
    0    0    0    1    2    0.300000    0.000000
    0    0    0    2    1    0.300000    0.000000
    0    0    0    2    2    4.000000    0.000000
    1    0    0    1    1   -0.500000    0.000000
    1    0    0    1    2    0.100000    0.200000
    1    0    0    2    1    0.100000   -0.200000
    1    0    0    2    2   -0.500000    0.000000
`

func readTestHam(Te *testing.T) *Ham {
	h, err := ReadHamFrom(strings.NewReader(hrdat))
	if err != nil {
		Te.Fatal(err)
	}
	return h
}

func TestReadHam(Te *testing.T) {
	h := readTestHam(Te)
	if h.NWan != 2 || h.NR != 3 {
		Te.Fatalf("wrong dimensions: nwan=%d nr=%d", h.NWan, h.NR)
	}
	if r := h.RVec(1); r != [3]float64{0, 0, 0} {
		Te.Errorf("second R vector should be the origin, got %v", r)
	}
	if h.HR[1*4+3] != complex(4, 0) {
		Te.Errorf("on-site element (2,2) wrong: %v", h.HR[1*4+3])
	}
	fmt.Println("hr.dat read!")
}

//TestHKGamma checks that at k=0 the Fourier sum reduces to the plain sum of
//the real-space blocks.
func TestHKGamma(Te *testing.T) {
	h := readTestHam(Te)
	hk, err := h.HK([]float64{0, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	//H(0)[0][0] = -0.5 + 2 - 0.5 = 1.0
	if math.Abs(real(hk.At(0, 0))-1.0) > 1e-12 || math.Abs(imag(hk.At(0, 0))) > 1e-12 {
		Te.Errorf("H(0)[0][0] = %v, want 1.0", hk.At(0, 0))
	}
	//H(0)[0][1] = (0.1-0.2i) + 0.3 + (0.1+0.2i) = 0.5
	if cmplx.Abs(hk.At(0, 1)-complex(0.5, 0)) > 1e-12 {
		Te.Errorf("H(0)[0][1] = %v, want 0.5", hk.At(0, 1))
	}
}

//TestHKHermitian checks the Hermiticity invariant at a handful of arbitrary
//wavevectors.
func TestHKHermitian(Te *testing.T) {
	h := readTestHam(Te)
	ks := [][]float64{
		{0.5, 0, 0},
		{0.123, 0.456, 0.789},
		{-0.25, 0.33, 0.1},
	}
	for _, k := range ks {
		hk, err := h.HK(k)
		if err != nil {
			Te.Fatal(err)
		}
		for i := 0; i < h.NWan; i++ {
			for j := 0; j < h.NWan; j++ {
				d := hk.At(i, j) - cmplx.Conj(hk.At(j, i))
				if cmplx.Abs(d) > 1e-12 {
					Te.Errorf("H(k) not Hermitian at k=%v: (%d,%d) differs by %v", k, i, j, d)
				}
			}
		}
	}
	if _, err := h.HK([]float64{0, 0}); err == nil {
		Te.Error("expected an error for a 2-component wavevector")
	}
}

func TestHamRoundTrip(Te *testing.T) {
	h := readTestHam(Te)
	name := filepath.Join(Te.TempDir(), "wannier90_hr.dat")
	if err := h.WriteFile(name); err != nil {
		Te.Fatal(err)
	}
	h2, err := ReadHam(name)
	if err != nil {
		Te.Fatal(err)
	}
	if h2.NWan != h.NWan || h2.NR != h.NR {
		Te.Fatalf("round trip changed dimensions")
	}
	for i := range h.HR {
		if cmplx.Abs(h.HR[i]-h2.HR[i]) > 1e-9 {
			Te.Errorf("element %d changed in round trip: %v vs %v", i, h.HR[i], h2.HR[i])
		}
	}
}

func TestReadHamErrors(Te *testing.T) {
	if _, err := ReadHamFrom(strings.NewReader("")); err == nil {
		Te.Error("expected an error for an empty file")
	}
	truncated := `comment
2
3
    1    1    1
   -1    0    0    1    1   -0.500000    0.000000
`
	if _, err := ReadHamFrom(strings.NewReader(truncated)); err == nil {
		Te.Error("expected an error for a truncated matrix block")
	}
}
