/*
 * rawfiles.go, part of goJarvis.
 *
 * Copyright 2022 The goJarvis developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package db

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	jarvis "github.com/RamyaGuru/jarvis"
	"github.com/RamyaGuru/jarvis/wannier"
)

//RawFile is one entry of the raw-file index: a named archive and the
//Figshare URL it can be downloaded from.
type RawFile struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

//The decoded raw-file index, memoized for the lifetime of the process.
var rawFileIndex map[string][]RawFile

//RawFiles returns the raw-file index: a map from calculation category (e.g.
//"WANN", "FD-ELAST") to the archives available in that category. The index
//itself is fetched through the regular dataset cache. Malformed entries in a
//category are skipped, as some lists carry stray non-record values.
func RawFiles() (map[string][]RawFile, error) {
	if rawFileIndex != nil {
		return rawFileIndex, nil
	}
	ds, err := Datasets("raw_files")
	if err != nil {
		return nil, err
	}
	raw, err := cachedJSON(ds)
	if err != nil {
		return nil, err
	}
	var loose map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, fmt.Errorf("goJarvis/db.RawFiles: decoding index: %v", err)
	}
	index := make(map[string][]RawFile, len(loose))
	for category, entries := range loose {
		files := make([]RawFile, 0, len(entries))
		for _, e := range entries {
			var f RawFile
			if err := json.Unmarshal(e, &f); err != nil || f.Name == "" {
				continue
			}
			files = append(files, f)
		}
		index[category] = files
	}
	rawFileIndex = index
	return rawFileIndex, nil
}

//findRawFile locates the archive named <jid>.zip in the given index
//category. A missing category or jid is an error.
func findRawFile(category, jid string) (RawFile, error) {
	index, err := RawFiles()
	if err != nil {
		return RawFile{}, err
	}
	files, ok := index[category]
	if !ok {
		return RawFile{}, fmt.Errorf("goJarvis/db: no %s category in the raw-file index", category)
	}
	for _, f := range files {
		if strings.TrimSuffix(f.Name, ".zip") == jid {
			return f, nil
		}
	}
	return RawFile{}, fmt.Errorf("goJarvis/db: no %s archive for %s", category, jid)
}

//wannMeta is the metadata JSON shipped next to each Wannier Hamiltonian.
type wannMeta struct {
	InfoMesh struct {
		EFermi float64 `json:"efermi"`
	} `json:"info_mesh"`
}

//GetWannElectron downloads the electron Wannier tight-binding Hamiltonian
//archive for the given JARVIS id and builds the library objects from its
//members: the Hamiltonian from wannier90_hr.dat, the Fermi energy from
//<jid>.json and the crystal structure from POSCAR.
func GetWannElectron(jid string) (*wannier.Ham, float64, *jarvis.Atoms, error) {
	entry, err := findRawFile("WANN", jid)
	if err != nil {
		return nil, 0, nil, err
	}
	archive, err := fetch(entry.DownloadURL)
	if err != nil {
		return nil, 0, nil, err
	}
	hrdat, err := readZipMember(archive, "wannier90_hr.dat")
	if err != nil {
		return nil, 0, nil, err
	}
	ham, err := wannier.ReadHamFrom(strings.NewReader(string(hrdat)))
	if err != nil {
		return nil, 0, nil, err
	}
	meta, err := readZipMember(archive, jid+".json")
	if err != nil {
		return nil, 0, nil, err
	}
	var m wannMeta
	if err := json.Unmarshal(meta, &m); err != nil {
		return nil, 0, nil, fmt.Errorf("goJarvis/db.GetWannElectron: decoding %s.json: %v", jid, err)
	}
	pos, err := readZipMember(archive, "POSCAR")
	if err != nil {
		return nil, 0, nil, err
	}
	atoms, err := jarvis.PoscarParse(string(pos))
	if err != nil {
		return nil, 0, nil, err
	}
	return ham, m.InfoMesh.EFermi, atoms, nil
}

//GetFDElast downloads the finite-difference elastic/phonon archive for the
//given JARVIS id and returns its vasprun.xml member. Solving the force
//constants in it into a phonon tight-binding Hamiltonian is the job of the
//external phonopy toolchain; this function only does the data access.
func GetFDElast(jid string) ([]byte, error) {
	entry, err := findRawFile("FD-ELAST", jid)
	if err != nil {
		return nil, err
	}
	archive, err := fetch(entry.DownloadURL)
	if err != nil {
		return nil, err
	}
	return readZipMember(archive, "vasprun.xml")
}

//STMImage is one scanning-tunneling-microscopy image of the 2D STM dataset:
//the raw JPEG bytes plus the material id, bias sign and lattice system.
type STMImage struct {
	JID     string
	Bias    string
	LatType string
	Image   []byte
}

//STM2D downloads the 2D STM dataset: a zip of bias images and a JSON map of
//lattice systems. It returns the positive- and negative-bias images
//separately, mirroring how the dataset is normally consumed. The JPEGs are
//returned undecoded.
func STM2D() (pos, neg []STMImage, err error) {
	archive, err := fetch(stm2DImagesURL)
	if err != nil {
		return nil, nil, err
	}
	latraw, err := fetch(stm2DLatticesURL)
	if err != nil {
		return nil, nil, err
	}
	var latts map[string]string
	if err := json.Unmarshal(latraw, &latts); err != nil {
		return nil, nil, fmt.Errorf("goJarvis/db.STM2D: decoding lattice map: %v", err)
	}
	z, err := zipReader(archive)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range z.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(f.Name)
		parts := strings.SplitN(strings.TrimSuffix(base, ".jpg"), "_", 2)
		if len(parts) != 2 {
			continue
		}
		jid, bias := parts[0], parts[1]
		rc, err := f.Open()
		if err != nil {
			return nil, nil, err
		}
		img, err := readAllAndClose(rc)
		if err != nil {
			return nil, nil, err
		}
		im := STMImage{JID: jid, Bias: bias, LatType: latts[jid], Image: img}
		switch bias {
		case "pos":
			pos = append(pos, im)
		case "neg", "nef": //the archive spells negative bias both ways
			neg = append(neg, im)
		}
	}
	return pos, neg, nil
}
