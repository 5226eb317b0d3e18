// server package serves one bitmap editing session over HTTP
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/anas-shakeel/bmprle/internal/adjustments"
	"github.com/anas-shakeel/bmprle/internal/bmp"
	"github.com/anas-shakeel/bmprle/internal/config"
	"github.com/anas-shakeel/bmprle/internal/filters"
	"github.com/anas-shakeel/bmprle/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
)

var errNoBitmap = errors.New("no bitmap loaded")

// Server owns the session bitmap; every request holds mu while it uses it.
type Server struct {
	cfg    config.Config
	router chi.Router

	mu     sync.Mutex
	bitmap *bmp.BitmapImage
}

// Header is the JSON form of a bitmap's metadata
type Header struct {
	Filename    string `json:"filename"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BitCount    uint16 `json:"bit_count"`
	Compression string `json:"compression"`
	ColorsUsed  uint32 `json:"colors_used"`
	PaletteLen  int    `json:"palette_len"`
	Stride      int    `json:"stride"`
	Padding     int    `json:"padding"`
	FileSize    uint32 `json:"file_size"`
	DataSize    uint32 `json:"data_size"`
	Checksum    string `json:"checksum"`
}

// New returns a server for b (which may be nil until a load request)
func New(cfg config.Config, b *bmp.BitmapImage) *Server {
	s := &Server{cfg: cfg, bitmap: b}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/header", s.handleHeader)
	r.Get("/image.png", s.handlePNG)
	r.Get("/image.bmp", s.handleBMP)
	r.Post("/invert", s.handleInvert)
	r.Post("/fill", s.handleFill)
	r.Post("/load", s.handleLoad)
	r.Post("/save", s.handleSave)

	s.router = r
	return s
}

// Handler returns the router with gzip compression
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(middleware.Logger(s.router))
}

func (s *Server) ListenAndServe() error {
	log.Printf("[%s] Serving on http://%s", s.cfg.Server.Name, s.cfg.Server.Listen)
	return http.ListenAndServe(s.cfg.Server.Listen, s.Handler())
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bitmap == nil {
		http.Error(w, errNoBitmap.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, headerOf(s.bitmap))
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bitmap == nil {
		http.Error(w, errNoBitmap.Error(), http.StatusNotFound)
		return
	}

	etag := fmt.Sprintf("%q", fmt.Sprintf("%016x", s.bitmap.Checksum()))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, s.bitmap); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleBMP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bitmap == nil {
		http.Error(w, errNoBitmap.Error(), http.StatusNotFound)
		return
	}

	// Encode a copy, the session headers change only on save
	var buf bytes.Buffer
	if err := s.bitmap.Copy().Encode(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/bmp")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleInvert(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bitmap == nil {
		http.Error(w, errNoBitmap.Error(), http.StatusConflict)
		return
	}
	filters.Invert(s.bitmap)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var coords [4]int
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		v, err := strconv.Atoi(r.URL.Query().Get(name))
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid %s: %v", name, err), http.StatusBadRequest)
			return
		}
		coords[i] = v
	}

	value := s.cfg.Edit.FillValue
	if q := r.URL.Query().Get("value"); q != "" {
		v, err := strconv.ParseUint(q, 10, 8)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid value: %v", err), http.StatusBadRequest)
			return
		}
		value = uint8(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bitmap == nil {
		http.Error(w, errNoBitmap.Error(), http.StatusConflict)
		return
	}
	adjustments.FillRect(s.bitmap, coords[0], coords[1], coords[2], coords[3], value)
	w.WriteHeader(http.StatusNoContent)
}

// A failed load keeps the current bitmap
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}

	b, err := bmp.ReadBitmap(path)
	if err != nil {
		log.Printf("[%s] Failed to load %s: %v", s.cfg.Server.Name, path, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bitmap = b
	log.Printf("[%s] Loaded %s (%dx%d, %d bits)", s.cfg.Server.Name, path, b.Width(), b.Height(), b.BIHeader.BitCount)
	writeJSON(w, headerOf(b))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bitmap == nil {
		http.Error(w, errNoBitmap.Error(), http.StatusConflict)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		path = s.cfg.Edit.SavePath
	}
	if path == "" {
		path = s.bitmap.Filename
	}
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}

	if err := s.bitmap.Save(path); err != nil {
		log.Printf("[%s] Failed to save %s: %v", s.cfg.Server.Name, path, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Printf("[%s] Saved %s (%d bytes)", s.cfg.Server.Name, path, s.bitmap.BFHeader.Size)
	writeJSON(w, headerOf(s.bitmap))
}

func headerOf(b *bmp.BitmapImage) Header {
	return Header{
		Filename:    b.Filename,
		Width:       b.Width(),
		Height:      b.Height(),
		BitCount:    b.BIHeader.BitCount,
		Compression: bmp.CompressionName(b.BIHeader.Compression),
		ColorsUsed:  b.BIHeader.ColorsUsed,
		PaletteLen:  len(b.Palette),
		Stride:      b.Stride,
		Padding:     b.Padding,
		FileSize:    b.BFHeader.Size,
		DataSize:    b.BIHeader.SizeImage,
		Checksum:    fmt.Sprintf("%016x", b.Checksum()),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] writing response: %v", err)
	}
}
