// seehuhn.de/go/brushmask - brush masks for image text removal
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command export writes the brush scenarios as stroke recordings, which
// can be replayed with cmd/brushmask, together with the masks computed
// for them.
//
// Run from the module root directory.
package main

import (
	"flag"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/brushmask"
	"seehuhn.de/go/brushmask/testcases"
)

func main() {
	outDir := flag.String("o", "testdata/scenarios", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatal(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name

			err := tc.Recording().Save(filepath.Join(*outDir, name+".json"))
			if err != nil {
				log.Fatalf("%s: %v", name, err)
			}

			mask, err := brushmask.Rasterize(tc.Strokes, tc.NativeWidth, tc.NativeHeight, tc.Scale())
			if err != nil {
				log.Fatalf("%s: %v", name, err)
			}
			err = imaging.Save(mask, filepath.Join(*outDir, name+".png"))
			if err != nil {
				log.Fatalf("%s: %v", name, err)
			}
		}
	}
}
