package phono3py

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jarvis "github.com/RamyaGuru/jarvis"
	"github.com/RamyaGuru/jarvis/phonopy"
)

const meshYAMLFixture = `mesh: [ 2, 2, 2 ]
nqpoint: 2
phonon:
- q-position: [ 0.0000000, 0.0000000, 0.0000000 ]
  weight: 1
  band:
  - # 1
    frequency: 1.0000000000
    group_velocity: [ 1.0000000, 0.0000000, 0.0000000 ]
  - # 2
    frequency: 2.0000000000
    group_velocity: [ 0.0000000, 2.0000000, 0.0000000 ]
- q-position: [ 0.5000000, 0.0000000, 0.0000000 ]
  weight: 7
  band:
  - # 1
    frequency: 3.0000000000
    group_velocity: [ 1.0000000, 1.0000000, 0.0000000 ]
  - # 2
    frequency: 4.0000000000
    group_velocity: [ 2.0000000, 0.0000000, 1.0000000 ]
`

const siPoscar = `Si8
1.0
5.468728 0.0 0.0
0.0 5.468728 0.0
0.0 0.0 5.468728
Si
8
direct
0.0 0.0 0.0
0.25 0.25 0.25
0.0 0.5 0.5
0.25 0.75 0.75
0.5 0.0 0.5
0.75 0.25 0.75
0.5 0.5 0.0
0.75 0.75 0.25
`

func testMesh(Te *testing.T) *phonopy.Mesh {
	m, err := phonopy.ReadMeshFrom(strings.NewReader(meshYAMLFixture))
	if err != nil {
		Te.Fatal(err)
	}
	return m
}

//writes a jdos .dat file where N1 is slope*frequency and N2 is zero, on a
//frequency grid 0..5 THz in steps of 1.
func writeJDOSFixture(Te *testing.T, dir, name string, slope float64) {
	var b strings.Builder
	for f := 0; f <= 5; f++ {
		fmt.Fprintf(&b, "%10.7f %15.7e %15.7e\n", float64(f), slope*float64(f), 0.0)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0644); err != nil {
		Te.Fatal(err)
	}
}

func TestGridPointsAndSelect(Te *testing.T) {
	m := testMesh(Te)
	dir := Te.TempDir()
	//grid-point ids with a gap, as phono3py assigns them, plus distractors
	//from another temperature and another mesh.
	writeJDOSFixture(Te, dir, "jdos-m222-g0-t300.dat", 1)
	writeJDOSFixture(Te, dir, "jdos-m222-g4-t300.dat", 2)
	writeJDOSFixture(Te, dir, "jdos-m222-g0-t400.dat", 9)
	writeJDOSFixture(Te, dir, "jdos-m111111-g0-t300.dat", 9)
	j := NewJDOS(m, dir, [3]int{2, 2, 2})
	gps, err := j.GridPoints()
	if err != nil {
		Te.Fatal(err)
	}
	if len(gps) != 2 || gps[0] != 0 || gps[1] != 4 {
		Te.Fatalf("wrong grid points: %v", gps)
	}
	sel, err := j.Select()
	if err != nil {
		Te.Fatal(err)
	}
	//each mode frequency f sits on a grid line, so the bracketing average is
	//the mean of the values at f and at the next line: slope*(f+0.5).
	want := [][]float64{{1.5, 2.5}, {7, 9}}
	for iq := range want {
		for ib := range want[iq] {
			if math.Abs(sel[iq][ib]-want[iq][ib]) > 1e-9 {
				Te.Errorf("selected jdos [%d][%d]: got %f want %f", iq, ib, sel[iq][ib], want[iq][ib])
			}
		}
	}
	fmt.Println("jdos selected!")
}

func TestGridPointsUnweighted(Te *testing.T) {
	m := testMesh(Te)
	dir := Te.TempDir()
	writeJDOSFixture(Te, dir, "jdos-m222-g0.dat", 1)
	writeJDOSFixture(Te, dir, "jdos-m222-g4-t300.dat", 2)
	j := NewJDOS(m, dir, [3]int{2, 2, 2})
	j.Temperature = -1
	gps, err := j.GridPoints()
	if err != nil {
		Te.Fatal(err)
	}
	if len(gps) != 1 || gps[0] != 0 {
		Te.Errorf("unweighted jdos discovery wrong: %v", gps)
	}
	//one file for two irreducible q-points can not be mapped
	if _, err := j.Select(); err == nil {
		Te.Error("expected an error for an incomplete jdos set")
	}
}

func TestGridPointsEmpty(Te *testing.T) {
	m := testMesh(Te)
	j := NewJDOS(m, Te.TempDir(), [3]int{2, 2, 2})
	if _, err := j.GridPoints(); err == nil {
		Te.Error("expected an error for a directory without jdos files")
	}
}

func TestLinewidthFromJDOS(Te *testing.T) {
	atoms, err := jarvis.PoscarReadFrom(strings.NewReader(siPoscar))
	if err != nil {
		Te.Fatal(err)
	}
	pts := []float64{0, 1, 2, 3}
	jdos := []float64{1, 1, 1, 1}
	lw, err := LinewidthFromJDOS(jdos, pts, atoms, 6000, 1.0, 300)
	if err != nil {
		Te.Fatal(err)
	}
	if lw[0] != 0 {
		Te.Error("linewidth at zero frequency should vanish")
	}
	//the model is quadratic in frequency
	if math.Abs(lw[2]-4*lw[1]) > 1e-12*lw[2] || math.Abs(lw[3]-9*lw[1]) > 1e-12*lw[3] {
		Te.Errorf("linewidth not quadratic in frequency: %v", lw)
	}
	//and quadratic in the Gruneisen parameter
	lw2, err := LinewidthFromJDOS(jdos, pts, atoms, 6000, 2.0, 300)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(lw2[1]-4*lw[1]) > 1e-12*lw2[1] {
		Te.Errorf("linewidth not quadratic in gruneisen: %g vs %g", lw2[1], lw[1])
	}
	if _, err := LinewidthFromJDOS(jdos, pts[:2], atoms, 6000, 1, 300); err == nil {
		Te.Error("expected an error for mismatched grids")
	}
	if _, err := LinewidthFromJDOS(jdos, pts, atoms, 0, 1, 300); err == nil {
		Te.Error("expected an error for a zero speed of sound")
	}
}

func TestKappaFromLinewidth(Te *testing.T) {
	m := testMesh(Te)
	dir := Te.TempDir()
	writeJDOSFixture(Te, dir, "jdos-m222-g0-t300.dat", 1)
	writeJDOSFixture(Te, dir, "jdos-m222-g4-t300.dat", 2)
	j := NewJDOS(m, dir, [3]int{2, 2, 2})
	pts := m.FrequencyPoints(101)
	twoGamma := make([]float64, len(pts))
	for i := range twoGamma {
		twoGamma[i] = 0.1
	}
	kappa, err := j.KappaFromLinewidth(twoGamma, pts, "xx", 300, 0.1)
	if err != nil {
		Te.Fatal(err)
	}
	if len(kappa) != len(pts) {
		Te.Fatalf("wrong spectral kappa length: %d", len(kappa))
	}
	finite := 0
	for i, k := range kappa {
		if math.IsNaN(k) {
			continue
		}
		finite++
		if k < 0 {
			Te.Errorf("negative spectral kappa %g at %f THz", k, pts[i])
		}
	}
	if finite == 0 {
		Te.Error("spectral kappa is NaN everywhere")
	}
	if _, err := j.KappaFromLinewidth(twoGamma[:3], pts, "xx", 300, 0.1); err == nil {
		Te.Error("expected an error for mismatched grids")
	}
	if _, err := j.KappaFromLinewidth(twoGamma, pts, "ww", 300, 0.1); err == nil {
		Te.Error("expected an error for an unknown component")
	}
}

func TestGruneisenApproximation(Te *testing.T) {
	//vt = vl gives (3/2)(3-4)/(1+2) = -1/2
	if g := GruneisenApproximation(1, 1); math.Abs(g+0.5) > 1e-12 {
		Te.Errorf("got %f want -0.5", g)
	}
	//the vt -> 0 limit is 4.5
	if g := GruneisenApproximation(0, 1); math.Abs(g-4.5) > 1e-12 {
		Te.Errorf("got %f want 4.5", g)
	}
}

func testKappa() *Kappa {
	return &Kappa{
		Format:       FormatScalarXX,
		Temperatures: []float64{300, 400},
		Kappa:        [][]float64{{10, 11, 12, 0, 0, 0}, {7, 8, 9, 0, 0, 0}},
		Frequency:    [][]float64{{1, 2}, {3, 4}},
		Gamma: [][][]float64{
			{{0.1, 0.2}, {0.3, 0.4}},
			{{0.5, 0.6}, {0.7, 0.8}},
		},
		ModeKappa: [][][][]float64{
			{{{1, 0, 0, 0, 0, 0}, {2, 0, 0, 0, 0, 0}}, {{3, 0, 0, 0, 0, 0}, {4, 0, 0, 0, 0, 0}}},
			{{{5, 0, 0, 0, 0, 0}, {6, 0, 0, 0, 0, 0}}, {{7, 0, 0, 0, 0, 0}, {8, 0, 0, 0, 0, 0}}},
		},
		GvByGv: [][][]float64{
			{{1, 1, 1, 0, 0, 0}, {4, 4, 4, 0, 0, 0}},
			{{9, 9, 9, 0, 0, 0}, {16, 16, 16, 0, 0, 0}},
		},
		Weights: []int{1, 7},
	}
}

func TestKappaAccessors(Te *testing.T) {
	k := testKappa()
	if k.NQpoints() != 2 || k.NBands() != 2 {
		Te.Fatalf("wrong result shape: nq=%d nb=%d", k.NQpoints(), k.NBands())
	}
	v, err := k.KappaAt(300)
	if err != nil || v != 10 {
		Te.Errorf("KappaAt(300): got %f, %v", v, err)
	}
	if _, err := k.KappaAt(350); err == nil {
		Te.Error("expected an error for a temperature not in the results")
	}
	ten, err := k.KappaTensorAt(400)
	if err != nil || ten[2] != 9 {
		Te.Errorf("KappaTensorAt(400): got %v, %v", ten, err)
	}
	k.Format = FormatTensor
	if _, err := k.KappaAt(300); err == nil {
		Te.Error("expected an error reading a tensor result as a scalar")
	}
	g, err := k.GammaAt(400)
	if err != nil || g[1][0] != 0.7 {
		Te.Errorf("GammaAt(400): got %v, %v", g, err)
	}
	mk, err := k.ModeKappaAt(300, "xx")
	if err != nil || mk[1][1] != 4 {
		Te.Errorf("ModeKappaAt: got %v, %v", mk, err)
	}
	if _, err := k.ModeKappaAt(300, "zz_bogus"); err == nil {
		Te.Error("expected an error for an unknown component")
	}
	gv, err := k.GvByGvComponent("yy")
	if err != nil || gv[1][0] != 9 {
		Te.Errorf("GvByGvComponent: got %v, %v", gv, err)
	}
	if _, err := k.HeatCapacityAt(300); err == nil {
		Te.Error("expected an error when heat_capacity was not stored")
	}
	fmt.Println("kappa accessors checked!")
}

func TestBuildJDOSCommand(Te *testing.T) {
	h := NewHandle()
	h.SetCommand("phono3py")
	cmd, err := h.BuildJDOS(&JDOSOptions{
		Dim:           [3]int{2, 2, 2},
		Mesh:          [3]int{11, 11, 11},
		Poscar:        "POSCAR",
		GridPoints:    []int{0, 8, 16},
		NumFreqPoints: 201,
		Temperatures:  []float64{300},
	})
	if err != nil {
		Te.Fatal(err)
	}
	want := `phono3py --fc2 --dim="2 2 2" --mesh="11 11 11" -c POSCAR --jdos --gp="0 8 16" --num-freq-points=201 --ts="300"`
	if cmd != want {
		Te.Errorf("jdos command:\ngot  %s\nwant %s", cmd, want)
	}
	if _, err := h.BuildJDOS(&JDOSOptions{Poscar: "POSCAR"}); err == nil {
		Te.Error("expected an error without a mesh")
	}
	if _, err := h.BuildJDOS(&JDOSOptions{Mesh: [3]int{2, 2, 2}}); err == nil {
		Te.Error("expected an error without a structure file")
	}
	if _, err := h.BuildJDOS(&JDOSOptions{Mesh: [3]int{2, 2, 2}, Poscar: "POSCAR", PrimitiveAxes: []float64{1, 2}}); err == nil {
		Te.Error("expected an error for malformed primitive axes")
	}
}

func TestBuildGruneisenCommand(Te *testing.T) {
	h := NewHandle()
	h.SetCommand("phono3py")
	cmd, err := h.BuildGruneisenFC3(&GruneisenOptions{
		Dim:    [3]int{2, 2, 2},
		Poscar: "POSCAR",
		NAC:    true,
		Band:   [][]float64{{0, 0, 0}, {0.5, 0.5, 0.5}},
	})
	if err != nil {
		Te.Fatal(err)
	}
	want := `phono3py --fc3 --fc2 --dim="2 2 2" -v -c POSCAR --gruneisen --nac --band="0 0 0  0.5 0.5 0.5"`
	if cmd != want {
		Te.Errorf("gruneisen command:\ngot  %s\nwant %s", cmd, want)
	}
	cmd, err = h.BuildGruneisenFC3(&GruneisenOptions{
		Dim:    [3]int{2, 2, 2},
		Poscar: "POSCAR",
		Mesh:   [3]int{5, 5, 5},
	})
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.HasSuffix(cmd, `--gruneisen --mesh="5 5 5"`) {
		Te.Errorf("mesh gruneisen command wrong: %s", cmd)
	}
	if _, err := h.BuildGruneisenFC3(&GruneisenOptions{Dim: [3]int{2, 2, 2}, Poscar: "POSCAR"}); err == nil {
		Te.Error("expected an error without a band path or mesh")
	}
}

func TestPrepareGruneisenQuasiharmonic(Te *testing.T) {
	dir := Te.TempDir()
	poscar := filepath.Join(dir, "POSCAR")
	if err := os.WriteFile(poscar, []byte(siPoscar), 0644); err != nil {
		Te.Fatal(err)
	}
	if err := PrepareGruneisenQuasiharmonic(poscar, 1.01); err != nil {
		Te.Fatal(err)
	}
	plus, err := jarvis.PoscarRead(filepath.Join(dir, "POSCAR-plus"))
	if err != nil {
		Te.Fatal(err)
	}
	minus, err := jarvis.PoscarRead(filepath.Join(dir, "POSCAR-minus"))
	if err != nil {
		Te.Fatal(err)
	}
	orig, err := jarvis.PoscarReadFrom(strings.NewReader(siPoscar))
	if err != nil {
		Te.Fatal(err)
	}
	ratio := plus.Volume() / orig.Volume()
	if math.Abs(ratio-math.Pow(1.01, 3)) > 1e-9 {
		Te.Errorf("expanded volume ratio: got %f", ratio)
	}
	ratio = minus.Volume() / orig.Volume()
	if math.Abs(ratio-math.Pow(1.01, -3)) > 1e-9 {
		Te.Errorf("compressed volume ratio: got %f", ratio)
	}
	if err := PrepareGruneisenQuasiharmonic(poscar, 0); err == nil {
		Te.Error("expected an error for a non-positive scale")
	}
}
