package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/logging"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/web/middleware"
)

// multipartOverhead is added to the body limit for boundaries and form fields.
const multipartOverhead = 1 << 20

// maxMemory is how much of a multipart form is kept in memory before
// spilling to temp files.
const maxMemory = 32 << 20

// upload is a file read from a multipart request.
type upload struct {
	data        []byte
	filename    string
	targetTable string
}

// readUpload reads the "file" part and the optional targetTable field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return nil, errNoFile
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &upload{
		data:        data,
		filename:    header.Filename,
		targetTable: r.FormValue("targetTable"),
	}, nil
}

// handleListTables returns every importable table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.importer.Registry().Supported())
}

// handlePreview reports detection and column mapping without writing.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.previewer.Preview(r.Context(), up.data, up.filename, up.targetTable)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleImport imports every sheet, detecting tables unless targetTable is set.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.runImport(w, r, up)
}

// handleImportTable imports every sheet into the table named in the path.
func (s *Server) handleImportTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	registry := s.importer.Registry()
	if _, ok := registry.Get(table); !ok {
		err := fmt.Errorf("%w: %s", core.ErrUnknownTable, table)
		msg := core.MapError(err)
		logging.FromContext(r.Context()).Warn("unsupported table", "table", table)
		writeJSON(w, r, http.StatusBadRequest, unsupportedTableResponse{
			ErrorResponse: middleware.ErrorResponse{
				Error:   "Unsupported table: " + table,
				Message: msg.Message,
				Action:  msg.Action,
				Code:    msg.Code,
			},
			SupportedTables: registry.Keys(),
		})
		return
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	up.targetTable = table
	s.runImport(w, r, up)
}

// runImport takes a limiter slot and runs the import on a context detached
// from the client, so a dropped connection does not leave a half-written file.
func (s *Server) runImport(w http.ResponseWriter, r *http.Request, up *upload) {
	if err := s.limiter.Acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.limiter.Release()

	ctx, cancel := detach(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	start := time.Now()
	result, err := s.importer.Import(ctx, up.data, up.filename, core.ImportOptions{TargetTable: up.targetTable})
	if err != nil {
		respondError(w, r, err)
		return
	}
	duration := time.Since(start)

	actor := actorFrom(r.Context())
	logging.WithFields(ctx,
		"import_id", result.ImportID,
		"user", actor.Username,
	).Info("file import",
		"filename", up.filename,
		"imported", result.SuccessCount,
		"errors", len(result.Errors),
	)

	if s.importLog != nil {
		// The import context may have hit its timeout; partial imports are still logged.
		logCtx, logCancel := detach(ctx, importLogTimeout)
		defer logCancel()
		if err := s.importLog.RecordImport(logCtx, result, actor, duration); err != nil {
			logging.FromContext(ctx).Warn("record import failed",
				"import_id", result.ImportID,
				"error", err,
			)
		}
	}

	writeJSON(w, r, http.StatusOK, result)
}
