package api

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	_ "modernc.org/sqlite"

	"github.com/pcmtools/cdbkit/pkg/cdb"
	"github.com/pcmtools/cdbkit/pkg/relational"
)

// maxUploadBytes bounds conversion uploads.
const maxUploadBytes = 256 << 20

// Server holds the API server state
type Server struct {
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleDecode converts an uploaded CDB file into a SQLite database file.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.recordConversion("decode", 0, false, start)
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	db, err := cdb.Decode(body)
	if err != nil {
		s.recordConversion("decode", len(body), false, start)
		sendError(w, fmt.Sprintf("Failed to decode CDB file: %v", err), http.StatusUnprocessableEntity)
		return
	}

	id := ksuid.New().String()
	path := filepath.Join(s.config.WorkDir, id+".db")
	defer os.Remove(path)

	if err := buildSQLiteFile(path, db); err != nil {
		s.recordConversion("decode", len(body), false, start)
		sendError(w, fmt.Sprintf("Failed to build database: %v", err), http.StatusInternalServerError)
		return
	}

	out, err := os.ReadFile(path)
	if err != nil {
		s.recordConversion("decode", len(body), false, start)
		sendError(w, "Failed to read converted database", http.StatusInternalServerError)
		return
	}

	s.recordConversion("decode", len(body), true, start)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Conversion-ID", id)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleEncode converts an uploaded SQLite database file into a CDB file.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.recordConversion("encode", 0, false, start)
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	id := ksuid.New().String()
	path := filepath.Join(s.config.WorkDir, id+".db")
	defer os.Remove(path)

	if err := os.WriteFile(path, body, 0600); err != nil {
		s.recordConversion("encode", len(body), false, start)
		sendError(w, "Failed to stage uploaded database", http.StatusInternalServerError)
		return
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		s.recordConversion("encode", len(body), false, start)
		sendError(w, "Failed to open uploaded database", http.StatusInternalServerError)
		return
	}
	defer sqlDB.Close()

	db, err := relational.Inspect(sqlDB)
	if err != nil {
		s.recordConversion("encode", len(body), false, start)
		sendError(w, fmt.Sprintf("Failed to inspect database: %v", err), http.StatusUnprocessableEntity)
		return
	}

	out, err := cdb.Encode(db)
	if err != nil {
		s.recordConversion("encode", len(body), false, start)
		sendError(w, fmt.Sprintf("Failed to encode CDB file: %v", err), http.StatusUnprocessableEntity)
		return
	}

	s.recordConversion("encode", len(body), true, start)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Conversion-ID", id)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleTables lists the tables of an uploaded CDB file without building
// the relational mirror.
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.recordConversion("tables", 0, false, start)
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	db, err := cdb.Decode(body)
	if err != nil {
		s.recordConversion("tables", len(body), false, start)
		sendError(w, fmt.Sprintf("Failed to decode CDB file: %v", err), http.StatusUnprocessableEntity)
		return
	}

	infos := make([]TableInfo, 0, len(db.Tables))
	for _, t := range db.Tables {
		infos = append(infos, TableInfo{Name: t.Name, ID: t.ID, Rows: t.Rows, Columns: len(t.Columns)})
	}

	s.recordConversion("tables", len(body), true, start)
	sendSuccess(w, infos)
}

func (s *Server) recordConversion(direction string, inputBytes int, success bool, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordConversion(direction, inputBytes, success, time.Since(start))
	}
}

// buildSQLiteFile materializes a decoded database into a fresh SQLite file.
func buildSQLiteFile(path string, db *cdb.Database) error {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return relational.Build(sqlDB, db)
}
