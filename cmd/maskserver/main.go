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

// Maskserver serves the image processing endpoints used by brushmask.
//
//	POST /upload          multipart form with fields file, brush_mask and operation
//	GET  /download/{id}   a processed image
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"seehuhn.de/go/brushmask/config"
	"seehuhn.de/go/brushmask/service"
)

func main() {
	var configFile, listen, resultDir string
	flag.StringVar(&configFile, "config", config.GetConfigPath(), "configuration file")
	flag.StringVar(&listen, "listen", "", "address to listen on (default from config)")
	flag.StringVar(&resultDir, "results", "", "directory for processed images (default from config)")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal(err)
	}
	if listen != "" {
		cfg.Service.Listen = listen
	}
	if resultDir != "" {
		cfg.Service.ResultDir = resultDir
	}

	store, err := service.NewStore(cfg.Service.ResultDir)
	if err != nil {
		log.Fatal(err)
	}
	local := service.NewLocal(store)
	local.Quality = cfg.Output.Quality

	srv := &http.Server{
		Addr:              cfg.Service.Listen,
		Handler:           service.NewServer(local, local),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Service.Timeout(),
	}
	log.Printf("listening on %s, results in %s", cfg.Service.Listen, cfg.Service.ResultDir)
	log.Fatal(srv.ListenAndServe())
}
