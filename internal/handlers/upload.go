package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Upload handles POST /api/upload (admin).
//
// The multipart part must be named "file" and carry a filename: the
// multipart package treats a part with an empty filename as a plain form
// value, so such requests surface here as a missing file part. Sanitization
// is deliberately minimal: spaces become underscores, and the multipart
// package already strips any directory component from the client filename.
// When the name is taken, a numeric suffix is probed (_1, _2, …) before the
// extension until a free one is found; the probe and the file creation run
// under a process-wide mutex so concurrent uploads of the same name cannot
// land on the same path.
//
// The response carries only the stored filename. Associating it with a game
// is a separate client-driven update call, not part of this request.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	src, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file")
		return
	}
	defer src.Close()

	filename := strings.ReplaceAll(header.Filename, " ", "_")

	s.uploadMu.Lock()
	filename, dst, err := createUnique(s.UploadDir, filename)
	s.uploadMu.Unlock()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		respondError(w, http.StatusInternalServerError, "could not store file")
		return
	}

	respond(w, http.StatusOK, map[string]string{"filename": filename})
}

// StaticUploads serves stored images by name. Only named files are served:
// the bare directory path (and any trailing-slash path) is a 404, never a
// listing of everything that has been uploaded. Mount behind a StripPrefix
// of the public uploads path.
func StaticUploads(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

// createUnique creates a file under dir with the requested name, probing
// name_1, name_2, … before the extension while the name is taken. Callers
// hold uploadMu across the call.
func createUnique(dir, name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		f, err := os.OpenFile(filepath.Join(dir, candidate),
			os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("create upload: %w", err)
		}
	}
}
