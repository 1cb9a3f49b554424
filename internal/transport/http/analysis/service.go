// Package analysis is the HTTP surface of the enrichment flows. Each
// handler validates its upload, stages it in a request scope, runs the
// matching pipeline flow and answers in the envelope its clients
// already depend on.
package analysis

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	domainimage "imagesense/internal/domain/image"
	"imagesense/internal/domain/pipeline"
	"imagesense/internal/domain/scope"
	"imagesense/internal/platform/config"
	"imagesense/internal/platform/errors"
	"imagesense/internal/platform/logging"
	httptransport "imagesense/internal/transport/http"
)

// Flows is the pipeline surface the handlers call into.
type Flows interface {
	Social(ctx context.Context, data []byte, format string) (*pipeline.SocialResult, *pipeline.Abort)
	General(ctx context.Context, data []byte, format string) (*pipeline.GeneralResult, *pipeline.Abort)
	SEO(ctx context.Context, data []byte, format string) (*pipeline.SEOResult, *pipeline.Abort)
	Medical(ctx context.Context, data []byte, format string) (*pipeline.MedicalResult, *pipeline.Abort)
	Analyzer(ctx context.Context, data []byte, format string) (*pipeline.AnalyzerResult, *pipeline.Abort)
	Advanced(ctx context.Context, data []byte, format string) (*pipeline.AdvancedResult, *pipeline.Abort)
}

// Fetcher downloads a remote image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Synthesizer renders text as audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Service serves the enrichment endpoints.
type Service struct {
	config  *config.Config
	logger  *logging.Logger
	flows   Flows
	scopes  *scope.Manager
	fetcher Fetcher
	speech  Synthesizer
}

// NewService wires the service to its dependencies.
func NewService(cfg *config.Config, logger *logging.Logger, flows Flows, scopes *scope.Manager, fetcher Fetcher, speech Synthesizer) (*Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "analysis.NewService", "config is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "analysis.NewService", "logger is required")
	}
	if flows == nil {
		return nil, errors.New(errors.KindConfig, "analysis.NewService", "pipeline is required")
	}
	if scopes == nil {
		return nil, errors.New(errors.KindConfig, "analysis.NewService", "scope manager is required")
	}

	return &Service{
		config:  cfg,
		logger:  logger,
		flows:   flows,
		scopes:  scopes,
		fetcher: fetcher,
		speech:  speech,
	}, nil
}

// Register mounts the enrichment routes on the router group.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.POST("/social-media", s.handleSocial)
	router.POST("/general", s.handleGeneral)
	router.POST("/seo", s.handleSEO)
	router.POST("/image-analyzer", s.handleAnalyzer)
	router.POST("/medical-image-analysis", s.handleMedical)
	router.POST("/advanced-analysis", s.handleAdvanced)
	router.POST("/text-to-speech", s.handleSpeech)

	s.registerPages(router)

	s.logger.InfoTag("HTTP", "analysis routes registered")
	return nil
}

// registerPages serves the HTML pages the browser flows start from.
func (s *Service) registerPages(router *gin.RouterGroup) {
	pages := map[string]string{
		"/":                       "landing.html",
		"/social-media":           "social_media.html",
		"/seo":                    "seo.html",
		"/general":                "general.html",
		"/medical-image-analysis": "medical.html",
		"/image-analyzer":         "image_analyzer.html",
		"/advanced-analysis":      "advanced_analysis.html",
	}
	for route, page := range pages {
		file := filepath.Join(s.config.Web.StaticDir, page)
		router.GET(route, func(c *gin.Context) {
			c.File(file)
		})
	}
}

// upload is one validated, staged request payload.
type upload struct {
	data   []byte
	format string
	scope  *scope.Scope
}

func (u *upload) release() {
	if u != nil {
		u.scope.Release()
	}
}

// uploadError classifies an upload rejection for the caller's envelope.
type uploadError struct {
	message string
	code    string
}

// stageUpload validates the multipart file against the allow-set,
// sniffs the content, and stores the payload in a fresh request scope.
func (s *Service) stageUpload(header *multipart.FileHeader, allowed map[string]bool) (*upload, *uploadError) {
	if header.Size > s.config.Upload.MaxFileSize {
		return nil, &uploadError{message: "File is too large", code: "INVALID_IMAGE"}
	}
	if !domainimage.AllowedFile(header.Filename, allowed) {
		return nil, &uploadError{message: "Invalid file type. Please upload a PNG, JPG, JPEG, or GIF", code: "INVALID_TYPE"}
	}

	file, err := header.Open()
	if err != nil {
		return nil, &uploadError{message: "Invalid image file", code: "INVALID_IMAGE"}
	}
	defer file.Close()

	format, err := domainimage.DetectFormat(domainimage.FromStream(file))
	if err != nil {
		return nil, &uploadError{message: "Invalid image file", code: "INVALID_IMAGE"}
	}

	sc, err := s.scopes.Acquire()
	if err != nil {
		s.logger.ErrorTag("HTTP", "failed to acquire scope: %v", err)
		return nil, &uploadError{message: "An unexpected error occurred. Please try again.", code: "SERVER_ERROR"}
	}

	path, err := sc.SaveUpload(header.Filename, file)
	if err != nil {
		sc.Release()
		s.logger.ErrorTag("HTTP", "failed to stage upload: %v", err)
		return nil, &uploadError{message: "An unexpected error occurred. Please try again.", code: "SERVER_ERROR"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		sc.Release()
		return nil, &uploadError{message: "An unexpected error occurred. Please try again.", code: "SERVER_ERROR"}
	}

	return &upload{data: data, format: format, scope: sc}, nil
}

func (s *Service) handleSocial(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		// a file input submitted empty arrives as a bare form value
		if _, ok := c.GetPostForm("image"); ok {
			httptransport.RespondPlainError(c, http.StatusBadRequest, "No selected file")
			return
		}
		httptransport.RespondPlainError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	up, upErr := s.stageUpload(header, nil)
	if upErr != nil {
		httptransport.RespondPlainError(c, http.StatusBadRequest, upErr.message)
		return
	}
	defer up.release()

	result, abort := s.flows.Social(c.Request.Context(), up.data, up.format)
	if abort != nil {
		s.logger.ErrorTag("HTTP", "social flow aborted: %s %s", abort.Code, abort.Message)
		httptransport.RespondPlainError(c, http.StatusInternalServerError, "Error processing image. Please try again.")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Service) handleGeneral(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		if _, ok := c.GetPostForm("image"); ok {
			httptransport.RespondPlainError(c, http.StatusBadRequest, "No selected file")
			return
		}
		httptransport.RespondPlainError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	up, upErr := s.stageUpload(header, nil)
	if upErr != nil {
		httptransport.RespondPlainError(c, http.StatusBadRequest, upErr.message)
		return
	}
	defer up.release()

	result, abort := s.flows.General(c.Request.Context(), up.data, up.format)
	if abort != nil {
		s.logger.ErrorTag("HTTP", "general flow aborted: %s %s", abort.Code, abort.Message)
		httptransport.RespondPlainError(c, http.StatusInternalServerError, "Error processing image. Please try again.")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Service) handleSEO(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		if _, ok := c.GetPostForm("image"); ok {
			httptransport.RespondCodedError(c, http.StatusBadRequest, "No selected file", "EMPTY_FILE")
			return
		}
		httptransport.RespondCodedError(c, http.StatusBadRequest, "No image file provided", "NO_IMAGE")
		return
	}

	up, upErr := s.stageUpload(header, nil)
	if upErr != nil {
		httptransport.RespondCodedError(c, http.StatusBadRequest, upErr.message, upErr.code)
		return
	}
	defer up.release()

	result, abort := s.flows.SEO(c.Request.Context(), up.data, up.format)
	if abort != nil {
		s.logger.ErrorTag("HTTP", "seo flow aborted: %s %s", abort.Code, abort.Message)
		httptransport.RespondCodedError(c, http.StatusInternalServerError, "Error processing image. Please try again.", "PROCESSING_ERROR")
		return
	}
	httptransport.RespondCodedSuccess(c, http.StatusOK, result)
}

func (s *Service) handleAnalyzer(c *gin.Context) {
	var up *upload
	var upErr *uploadError

	if header, err := c.FormFile("image"); err == nil {
		up, upErr = s.stageUpload(header, nil)
		if upErr != nil {
			httptransport.RespondCodedError(c, http.StatusBadRequest, upErr.message, upErr.code)
			return
		}
	} else if _, ok := c.GetPostForm("image"); ok {
		httptransport.RespondCodedError(c, http.StatusBadRequest, "No selected file", "EMPTY_FILE")
		return
	} else if imageURL := c.PostForm("image_url"); imageURL != "" {
		up, upErr = s.stageRemote(c.Request.Context(), imageURL)
		if upErr != nil {
			httptransport.RespondCodedError(c, http.StatusBadRequest, upErr.message, upErr.code)
			return
		}
	} else {
		httptransport.RespondCodedError(c, http.StatusBadRequest, "No image file or URL provided", "NO_INPUT")
		return
	}
	defer up.release()

	result, abort := s.flows.Analyzer(c.Request.Context(), up.data, up.format)
	if abort != nil {
		s.logger.ErrorTag("HTTP", "analyzer flow aborted: %s %s", abort.Code, abort.Message)
		httptransport.RespondCodedError(c, http.StatusInternalServerError, "Error processing image. Please try again.", "PROCESSING_ERROR")
		return
	}
	httptransport.RespondDataSuccess(c, http.StatusOK, result)
}

// stageRemote downloads a URL-referenced image into a request scope.
func (s *Service) stageRemote(ctx context.Context, url string) (*upload, *uploadError) {
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.WarnTag("HTTP", "remote image fetch failed: %v", err)
		if errors.IsKind(err, errors.KindNetwork) {
			return nil, &uploadError{message: "Failed to download image from URL", code: "URL_DOWNLOAD_ERROR"}
		}
		return nil, &uploadError{message: fmt.Sprintf("Error processing URL: %v", err), code: "URL_PROCESSING_ERROR"}
	}

	format, err := domainimage.DetectFormat(domainimage.FromStream(bytes.NewReader(data)))
	if err != nil {
		return nil, &uploadError{message: "Error processing URL: downloaded content is not an image", code: "URL_PROCESSING_ERROR"}
	}

	sc, err := s.scopes.Acquire()
	if err != nil {
		return nil, &uploadError{message: "An unexpected error occurred. Please try again.", code: "SERVER_ERROR"}
	}
	if _, err := sc.WriteFile("url_image."+format, data); err != nil {
		sc.Release()
		return nil, &uploadError{message: "An unexpected error occurred. Please try again.", code: "SERVER_ERROR"}
	}

	return &upload{data: data, format: format, scope: sc}, nil
}

func (s *Service) handleMedical(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if _, ok := c.GetPostForm("file"); ok {
			httptransport.RespondTaggedError(c, http.StatusBadRequest, "No file selected", "EMPTY_FILENAME")
			return
		}
		httptransport.RespondTaggedError(c, http.StatusBadRequest, "No file uploaded", "NO_FILE")
		return
	}
	if !domainimage.AllowedFile(header.Filename, domainimage.MedicalExtensions) {
		httptransport.RespondTaggedError(c, http.StatusBadRequest,
			"File type not allowed. Supported types: png, jpg, jpeg, gif, tiff, dcm", "INVALID_FILE_TYPE")
		return
	}

	up, upErr := s.stageUpload(header, domainimage.MedicalExtensions)
	if upErr != nil {
		if upErr.code == "SERVER_ERROR" {
			httptransport.RespondTaggedError(c, http.StatusInternalServerError, upErr.message, upErr.code)
			return
		}
		httptransport.RespondTaggedError(c, http.StatusBadRequest, "Invalid or corrupted image file", "INVALID_IMAGE")
		return
	}
	defer up.release()

	result, abort := s.flows.Medical(c.Request.Context(), up.data, up.format)
	if abort != nil {
		s.logger.ErrorTag("HTTP", "medical flow aborted: %s %s", abort.Code, abort.Message)
		httptransport.RespondTaggedError(c, http.StatusBadRequest, abort.Message, "PROCESSING_ERROR")
		return
	}
	httptransport.RespondDataSuccess(c, http.StatusOK, result)
}

func (s *Service) handleAdvanced(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if _, ok := c.GetPostForm("file"); ok {
			httptransport.RespondTaggedError(c, http.StatusBadRequest, "No file selected", "EMPTY_FILENAME")
			return
		}
		httptransport.RespondTaggedError(c, http.StatusBadRequest, "No file uploaded", "NO_FILE")
		return
	}
	if !domainimage.AllowedFile(header.Filename, domainimage.AdvancedExtensions) {
		httptransport.RespondTaggedError(c, http.StatusBadRequest,
			"File type not allowed. Supported types: PNG, JPG, JPEG", "INVALID_FILE_TYPE")
		return
	}

	up, upErr := s.stageUpload(header, domainimage.AdvancedExtensions)
	if upErr != nil {
		if upErr.code == "SERVER_ERROR" {
			httptransport.RespondTaggedError(c, http.StatusInternalServerError, upErr.message, upErr.code)
			return
		}
		httptransport.RespondTaggedError(c, http.StatusBadRequest, "Invalid or corrupted image file", "INVALID_IMAGE")
		return
	}
	defer up.release()

	result, abort := s.flows.Advanced(c.Request.Context(), up.data, up.format)
	if abort != nil {
		s.logger.ErrorTag("HTTP", "advanced flow aborted: %s %s", abort.Code, abort.Message)
		httptransport.RespondTaggedError(c, http.StatusBadRequest, abort.Message, abort.Code)
		return
	}
	httptransport.RespondDataSuccess(c, http.StatusOK, result)
}

type speechRequest struct {
	Text string `json:"text"`
}

func (s *Service) handleSpeech(c *gin.Context) {
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		httptransport.RespondPlainError(c, http.StatusBadRequest, "No text provided")
		return
	}

	audio, err := s.speech.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		s.logger.ErrorTag("TTS", "synthesis failed: %v", err)
		httptransport.RespondPlainError(c, http.StatusInternalServerError, "Error generating speech. Please try again.")
		return
	}

	sc, err := s.scopes.Acquire()
	if err != nil {
		httptransport.RespondPlainError(c, http.StatusInternalServerError, "Error generating speech. Please try again.")
		return
	}
	defer sc.Release()

	path, err := sc.WriteFile("speech.mp3", audio)
	if err != nil {
		httptransport.RespondPlainError(c, http.StatusInternalServerError, "Error generating speech. Please try again.")
		return
	}
	c.FileAttachment(path, "speech.mp3")
}
