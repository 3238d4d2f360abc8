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

package service

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"seehuhn.de/go/brushmask/imageio"
	"seehuhn.de/go/brushmask/session"
)

// uploadResponse is the JSON body returned by the upload endpoint. Image
// data is base64 encoded.
type uploadResponse struct {
	Success        bool   `json:"success,omitempty"`
	OriginalImage  []byte `json:"original_image,omitempty"`
	ProcessedImage []byte `json:"processed_image,omitempty"`
	Filename       string `json:"filename,omitempty"`
	Operation      string `json:"operation,omitempty"`
	Error          string `json:"error,omitempty"`
}

// detectResponse is the JSON body returned by the text detection
// endpoint.
type detectResponse struct {
	Success     bool     `json:"success"`
	Image       []byte   `json:"image"`
	TextRegions []Region `json:"text_regions"`
	Filename    string   `json:"filename"`
}

// Server exposes a processor over HTTP.
//
//	POST /upload          multipart form with fields file, brush_mask and operation
//	POST /detect-text     multipart form with field file
//	GET  /download/{id}   a processed image
//
// Uploads without a brush_mask are processed in the text regions found
// by [Detect].
type Server struct {
	Processor session.Processor
	Results   Results

	mux *http.ServeMux
}

// NewServer returns a server using p for processing and r for downloads.
func NewServer(p session.Processor, r Results) *Server {
	s := &Server{
		Processor: p,
		Results:   r,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("POST /detect-text", s.handleDetect)
	s.mux.HandleFunc("GET /download/{id}", s.handleDownload)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	data, name, ok := formImage(w, r)
	if !ok {
		return
	}
	op, err := session.ParseOperation(r.FormValue("operation"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid operation")
		return
	}

	var mask []byte
	if maskFile, _, err := r.FormFile("brush_mask"); err == nil {
		mask, err = readPart(maskFile)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request")
			return
		}
	}

	req := &session.Request{
		Source:     data,
		SourceName: name,
		Mask:       mask,
		Operation:  op,
	}
	resp, err := s.Processor.Process(r.Context(), req)
	if err != nil {
		log.Printf("upload %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "An error occurred during processing")
		return
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Failed to process image"
		}
		log.Printf("upload %s: %s", name, msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	log.Printf("upload %s: %s -> %s", name, op, resp.ResultID)
	writeJSON(w, http.StatusOK, &uploadResponse{
		Success:        true,
		OriginalImage:  data,
		ProcessedImage: resp.Processed,
		Filename:       resp.ResultID,
		Operation:      string(op),
	})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	data, name, ok := formImage(w, r)
	if !ok {
		return
	}
	img, err := imageio.Decode(data)
	if err != nil {
		log.Printf("detect %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	regions := Detect(img)
	if regions == nil {
		regions = []Region{}
	}
	log.Printf("detect %s: %d regions", name, len(regions))
	writeJSON(w, http.StatusOK, &detectResponse{
		Success:     true,
		Image:       data,
		TextRegions: regions,
		Filename:    uuid.NewString() + "." + imageio.Extension(name),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.Results.Get(id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	} else if err != nil {
		log.Printf("download %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "An error occurred during download")
		return
	}

	w.Header().Set("Content-Type", imageio.ContentType(imageio.Extension(id)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("download %s: %v", id, err)
	}
}

// parseForm reads the multipart form of r. On failure an error response
// is written and false is returned.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if r.ContentLength > imageio.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, imageio.MaxUploadSize)
	if err := r.ParseMultipartForm(imageio.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		} else {
			writeError(w, http.StatusBadRequest, "Invalid request")
		}
		return false
	}
	return true
}

// formImage returns the contents and name of the uploaded image file.
func formImage(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return nil, "", false
	}
	if hdr.Filename == "" {
		file.Close()
		writeError(w, http.StatusBadRequest, "No file selected")
		return nil, "", false
	}
	if !imageio.Allowed(hdr.Filename) {
		file.Close()
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return nil, "", false
	}
	data, err := readPart(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return nil, "", false
	}
	return data, hdr.Filename, true
}

func readPart(f multipart.File) ([]byte, error) {
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &uploadResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("writing response: %v", err)
	}
}
