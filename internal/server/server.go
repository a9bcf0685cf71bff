package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"request-to-standard/internal/models"
	"request-to-standard/internal/pipeline"
	"request-to-standard/internal/reader"
	"request-to-standard/internal/store"
)

const maxRunsPageSize = 100

// APIError is the standardized error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server is the thin HTTP adapter in front of the standardization pipeline.
// The store and vector sink are optional; without them responses are only
// returned, never persisted.
type Server struct {
	pipeline *pipeline.Pipeline
	db       *bun.DB
	vector   *store.VectorSink
}

func New(p *pipeline.Pipeline, db *bun.DB, vector *store.VectorSink) *Server {
	return &Server{pipeline: p, db: db, vector: vector}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.Health)
	r.POST("/standardize", s.Standardize)
	r.POST("/analyze", s.Analyze)
	if s.db != nil {
		r.GET("/runs", s.ListRuns)
	}
	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Standardize accepts a multipart CSV/XLSX upload plus a target_rag form
// field and runs the full pipeline on it.
func (s *Server) Standardize(c *gin.Context) {
	content, filename, size, ok := s.readUpload(c)
	if !ok {
		return
	}

	schema, err := models.ParseSchema(c.PostForm("target_rag"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SCHEMA", err.Error())
		return
	}
	generateEmbeddings, _ := strconv.ParseBool(c.PostForm("generate_embeddings"))

	resp, err := s.pipeline.Process(c.Request.Context(), pipeline.Request{
		Content:            content,
		Filename:           filename,
		SizeBytes:          size,
		TargetSchema:       schema,
		GenerateEmbeddings: generateEmbeddings,
	})
	if err != nil {
		if pipeline.IsStructural(err) {
			respondError(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "PIPELINE_ERROR", "standardization failed")
		return
	}

	s.persist(c, resp)
	c.JSON(http.StatusOK, resp)
}

// Analyze profiles an uploaded file so the orchestrator can decide which
// target schema fits. No LLM involved.
func (s *Server) Analyze(c *gin.Context) {
	content, filename, _, ok := s.readUpload(c)
	if !ok {
		return
	}

	dataset, err := reader.Read(content, filename)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
		return
	}
	c.JSON(http.StatusOK, reader.Summarize(dataset))
}

func (s *Server) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > maxRunsPageSize {
		limit = 20
	}
	runs, err := store.ListRuns(c.Request.Context(), s.db, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORE_ERROR", "could not list runs")
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) readUpload(c *gin.Context) ([]byte, string, int64, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return nil, "", 0, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not open uploaded file")
		return nil, "", 0, false
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		respondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return nil, "", 0, false
	}
	return content, fileHeader.Filename, fileHeader.Size, true
}

// persist saves the response to the optional stores. Persistence failures
// are logged, not surfaced: the caller already has the response.
func (s *Server) persist(c *gin.Context, resp *models.StandardizationResponse) {
	ctx := c.Request.Context()
	if s.db != nil {
		if err := store.SaveRun(ctx, s.db, resp); err != nil {
			log.Warn().Err(err).Msg("Could not persist run")
		}
	}
	if s.vector != nil {
		if err := s.vector.StoreRecords(ctx, resp.Result.Data, resp.SelectedSchema); err != nil {
			log.Warn().Err(err).Msg("Could not store records in vector database")
		}
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIError{Code: code, Message: message})
}
