/*
 * figshare.go, part of goJarvis.
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

//Package db downloads curated materials datasets and raw simulation files
//from the JARVIS Figshare repository
//(https://figshare.com/authors/Kamal_Choudhary/4445539) and caches them on
//disk. A dataset is a zip archive holding one JSON document; the archive is
//fetched once, the JSON member is kept under the cache directory and decoded
//on every call.
package db

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

//Dataset describes one downloadable dataset: the Figshare URL of its zip
//archive, the name of the JSON member inside it (which doubles as the cached
//filename) and a short human-readable note printed while fetching.
type Dataset struct {
	Name string
	URL  string
	File string
	Note string
}

//The catalog. The Ref comments point to the publication describing each set.
var catalog = map[string]Dataset{
	//Ref: https://www.nature.com/articles/s41524-020-00440-1
	"dft_2d": {
		Name: "dft_2d",
		URL:  "https://ndownloader.figshare.com/files/22471019",
		File: "jdft_2d-4-26-2020.json",
		Note: "Obtaining 2D dataset ...",
	},
	//Ref: https://www.nature.com/articles/s41524-020-00440-1
	"dft_3d": {
		Name: "dft_3d",
		URL:  "https://ndownloader.figshare.com/files/22471022",
		File: "jdft_3d-4-26-2020.json",
		Note: "Obtaining 3D dataset ...",
	},
	//Ref: https://doi.org/10.1103/PhysRevMaterials.2.083801
	"cfid_3d": {
		Name: "cfid_3d",
		URL:  "https://ndownloader.figshare.com/files/22470818",
		File: "jml_3d-4-26-2020.json",
		Note: "Obtaining JARVIS-3D CFID dataset 37k...",
	},
	//Ref: https://doi.org/10.1063/1.4812323
	"mp_3d": {
		Name: "mp_3d",
		URL:  "https://ndownloader.figshare.com/files/24979850",
		File: "CFID_mp_desc_data_84k.json",
		Note: "Obtaining Materials Project-3D CFID dataset 84k...",
	},
	//Ref: https://doi.org/10.1063/1.4812323
	"mp_3d_2020": {
		Name: "mp_3d_2020",
		URL:  "https://ndownloader.figshare.com/files/26791259",
		File: "all_mp.json",
		Note: "Obtaining Materials Project-3D CFID dataset 127k...",
	},
	//Ref: https://doi.org/10.1021/acs.chemmater.9b01294
	"megnet": {
		Name: "megnet",
		URL:  "https://ndownloader.figshare.com/files/26724977",
		File: "megnet.json",
		Note: "Obtaining MEGNET-3D CFID dataset 69k...",
	},
	//Ref: https://www.nature.com/articles/npjcompumats201510
	"oqmd_3d": {
		Name: "oqmd_3d",
		URL:  "https://ndownloader.figshare.com/files/24981170",
		File: "CFID_OQMD_460k.json",
		Note: "Obtaining OQMD-3D CFID dataset 460k...",
	},
	//Ref: https://www.nature.com/articles/npjcompumats201510
	"oqmd_3d_no_cfid": {
		Name: "oqmd_3d_no_cfid",
		URL:  "https://ndownloader.figshare.com/files/26790182",
		File: "all_oqmd.json",
		Note: "Obtaining OQMD-3D dataset 800k...",
	},
	//Ref: https://www.nature.com/articles/s41597-019-0097-3
	"twod_matpd": {
		Name: "twod_matpd",
		URL:  "https://ndownloader.figshare.com/files/26789006",
		File: "twodmatpd.json",
		Note: "Obtaining 2DMatPedia dataset 6k...",
	},
	//Ref: https://www.nature.com/articles/sdata201422
	"qm9": {
		Name: "qm9",
		URL:  "https://ndownloader.figshare.com/files/25159592",
		File: "qm9_data_cfid.json",
		Note: "Obtaining QM9-molecule CFID dataset 134k...",
	},
	//Ref: https://doi.org/10.1016/j.commatsci.2012.02.005
	"aflow1": {
		Name: "aflow1",
		URL:  "https://ndownloader.figshare.com/files/25453256",
		File: "CFID_AFLOW1.json",
		Note: "Obtaining AFLOW-1 CFID dataset 400k...",
	},
	//Ref: https://doi.org/10.1016/j.commatsci.2012.02.005
	"aflow2": {
		Name: "aflow2",
		URL:  "https://ndownloader.figshare.com/files/25453265",
		File: "CFID_AFLOW2.json",
		Note: "Obtaining AFLOW-2 CFID dataset 400k...",
	},
	//Ref: https://www.kaggle.com/Cornell-University/arxiv
	"arXiv": {
		Name: "arXiv",
		URL:  "https://ndownloader.figshare.com/files/26804795",
		File: "arXivdataset.json",
		Note: "Obtaining arXiv dataset...",
	},
	//Ref: https://github.com/usnistgov/cord19-cdcs-nist
	"cord19": {
		Name: "cord19",
		URL:  "https://ndownloader.figshare.com/files/26804798",
		File: "cord19.json",
		Note: "Obtaining CORD19 dataset...",
	},
	//Ref: https://www.nature.com/articles/s41524-020-00440-1
	"raw_files": {
		Name: "raw_files",
		URL:  "https://ndownloader.figshare.com/files/25295732",
		File: "figshare_data-10-28-2020.json",
		Note: "Obtaining raw io files...",
	},
}

//The 2D STM dataset (Ref: https://www.nature.com/articles/s41597-021-00824-y)
//lives in two separate Figshare files: a zip of bias images and a JSON map
//from material id to lattice system.
var (
	stm2DImagesURL   = "https://ndownloader.figshare.com/files/21884952"
	stm2DLatticesURL = "https://ndownloader.figshare.com/files/21893379"
)

//The URL for the JARVIS-FF energies/elastic data, a plain JSON file.
var ffEnergiesURL = "https://ndownloader.figshare.com/files/10307139"

//Client performs all the HTTP requests of this package. It is a variable so
//callers (and tests) can replace it, e.g. to set a different timeout.
var Client = &http.Client{Timeout: 10 * time.Minute}

var cacheDir string

//SetCacheDir sets the directory where downloaded files are kept. It is
//created on the first download if it doesn't exist.
func SetCacheDir(dir string) {
	cacheDir = dir
}

//CacheDir returns the directory where downloaded files are kept. If none was
//set, it defaults to a "gojarvis" directory under the user cache directory.
func CacheDir() string {
	if cacheDir != "" {
		return cacheDir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	cacheDir = filepath.Join(base, "gojarvis")
	return cacheDir
}

//Datasets returns the catalog entry for the given dataset name. Unlike a map
//lookup, an unknown name is reported as an error.
func Datasets(name string) (Dataset, error) {
	ds, ok := catalog[name]
	if !ok {
		return Dataset{}, fmt.Errorf("goJarvis/db.Datasets: dataset doesn't exist: %s", name)
	}
	return ds, nil
}

//fetch GETs the given URL and returns the response body, failing on any
//non-200 status.
func fetch(url string) ([]byte, error) {
	resp, err := Client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("goJarvis/db: GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

//cachedJSON returns the contents of the dataset's JSON member, downloading
//and extracting the zip archive on a cache miss. The cached file is never
//refreshed or checksummed: a stale cache means deleting the file by hand.
func cachedJSON(ds Dataset) ([]byte, error) {
	dir := CacheDir()
	path := filepath.Join(dir, ds.File)
	if _, err := os.Stat(path); err == nil {
		return os.ReadFile(path)
	}
	fmt.Println(ds.Note)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	body, err := fetch(ds.URL)
	if err != nil {
		return nil, err
	}
	zfile := filepath.Join(dir, "tmp.zip")
	if err := os.WriteFile(zfile, body, 0o644); err != nil {
		return nil, err
	}
	defer os.Remove(zfile)
	if err := unzipTo(dir, body); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func zipReader(archive []byte) (*zip.Reader, error) {
	return zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
}

func readAllAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

//unzipTo extracts every regular member of the archive into dir. Member names
//that would escape dir are rejected.
func unzipTo(dir string, archive []byte) error {
	z, err := zipReader(archive)
	if err != nil {
		return err
	}
	for _, f := range z.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(f.Name) //the JARVIS archives are flat
		if name == "." || strings.Contains(f.Name, "..") {
			return fmt.Errorf("goJarvis/db: refusing zip member name %q", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		data, err := readAllAndClose(rc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

//readZipMember returns the named member of an in-memory zip archive.
func readZipMember(archive []byte, name string) ([]byte, error) {
	z, err := zipReader(archive)
	if err != nil {
		return nil, err
	}
	for _, f := range z.File {
		if f.Name == name || filepath.Base(f.Name) == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			return readAllAndClose(rc)
		}
	}
	return nil, fmt.Errorf("goJarvis/db: member %s not in archive", name)
}

//Data downloads (or reuses the cached copy of) the named dataset and decodes
//its records. The raw-file index is a different shape; use RawFiles for it.
func Data(name string) ([]map[string]interface{}, error) {
	if name == "raw_files" {
		return nil, fmt.Errorf("goJarvis/db.Data: raw_files is an index, not a record list; use RawFiles")
	}
	ds, err := Datasets(name)
	if err != nil {
		return nil, err
	}
	raw, err := cachedJSON(ds)
	if err != nil {
		return nil, err
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("goJarvis/db.Data: decoding %s: %v", ds.File, err)
	}
	return records, nil
}

//GetJidData returns the record with the given JARVIS id in the named
//dataset. A jid that is not in the dataset is an error.
func GetJidData(jid, dataset string) (map[string]interface{}, error) {
	records, err := Data(dataset)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec["jid"] == jid {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("goJarvis/db.GetJidData: jid %s not in dataset %s", jid, dataset)
}

//FFEnergies downloads (or reuses the cached copy of) the JARVIS-FF
//energies/elastic data. This one is a plain JSON file, not zipped.
func FFEnergies() ([]map[string]interface{}, error) {
	dir := CacheDir()
	path := filepath.Join(dir, "jff1.json")
	if _, err := os.Stat(path); err != nil {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		body, err := fetch(ffEnergiesURL)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return nil, err
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("goJarvis/db.FFEnergies: %v", err)
	}
	return records, nil
}
