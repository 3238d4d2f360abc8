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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seehuhn.de/go/brushmask/session"
)

// Client submits images to a remote [Server]. It implements
// [session.Processor].
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the server at serverURL. A zero timeout
// selects two minutes.
func NewClient(serverURL string, timeout time.Duration) *Client {
	if serverURL == "" {
		serverURL = "http://localhost:5001"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimSuffix(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Process uploads the image and mask. Without a mask, the server processes
// the text regions it finds. A failure reported by the server is
// returned as an unsuccessful response; transport problems are returned
// as errors.
func (c *Client) Process(ctx context.Context, req *session.Request) (*session.Response, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := writeFile(mw, "file", req.SourceName, req.Source); err != nil {
		return nil, err
	}
	if len(req.Mask) > 0 {
		if err := writeFile(mw, "brush_mask", "mask.png", req.Mask); err != nil {
			return nil, err
		}
	}
	if err := mw.WriteField("operation", string(req.Operation)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/upload", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var res uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("server returned status %d: invalid response: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !res.Success {
		return &session.Response{Error: res.Error}, nil
	}
	return &session.Response{
		Success:   true,
		Processed: res.ProcessedImage,
		ResultID:  res.Filename,
	}, nil
}

// Detect asks the server for the text regions of an image.
func (c *Client) Detect(ctx context.Context, name string, data []byte) ([]Region, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := writeFile(mw, "file", name, data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/detect-text", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var res uploadResponse
		json.NewDecoder(resp.Body).Decode(&res)
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, res.Error)
	}
	var res detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return res.TextRegions, nil
}

// Download fetches a processed image by its identifier.
func (c *Client) Download(ctx context.Context, id string) ([]byte, error) {
	u := c.baseURL + "/download/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	default:
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
}

func writeFile(mw *multipart.Writer, field, name string, data []byte) error {
	w, err := mw.CreateFormFile(field, name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
