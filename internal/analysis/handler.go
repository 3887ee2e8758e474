package analysis

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"a11y-backend/internal/extract"
	"a11y-backend/internal/shared/server/middleware"
	"a11y-backend/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the analysis routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/analyze", h.analyze)
	r.POST("/analyze-content", h.analyzeContent)
	r.POST("/apply-fix", h.applyFix)
	r.POST("/analyze_text", h.analyzeText)
	r.POST("/analyze_image", h.analyzeImage)
	r.POST("/generate_image_from_alt_text", h.generateImage)
}

func (h *Handler) requestContext(c *gin.Context) RequestContext {
	return RequestContext{SessionID: middleware.SessionIDFromContext(c)}
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.formLimit())
	doc, err := h.readUpload(c, "document")
	if err != nil {
		h.fail(c, err)
		return
	}
	img, err := h.readUpload(c, "image")
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.Svc.Analyze(c.Request.Context(), AnalyzeInput{
		Content:         c.PostForm("content"),
		Document:        doc,
		Image:           img,
		ExistingAltText: c.PostForm("existing_alt_text"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("parseKind", string(res.ParseKind))
	respond.OK(c, analyzeResponse{
		TextAnalysis:  res.TextAnalysis,
		ImageAnalysis: res.ImageAnalysis,
		TextFixes:     res.TextFixes,
		ImageFixes:    res.ImageFixes,
	})
}

func (h *Handler) analyzeContent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.formLimit())
	img, err := h.readUpload(c, "image")
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.Svc.AnalyzeContent(c.Request.Context(), h.requestContext(c), ContentInput{
		TextContent: c.PostForm("text_content"),
		AltText:     c.PostForm("alt_text"),
		Image:       img,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("parseKind", string(res.ParseKind))
	if res.ArtifactID != "" {
		c.Set("artifactId", res.ArtifactID)
	}
	respond.OK(c, analyzeContentResponse{
		TextReport:        res.TextReport,
		ImageReport:       res.ImageReport,
		OriginalImageData: encodeBase64(res.OriginalPNG),
		ArtifactID:        res.ArtifactID,
	})
}

func (h *Handler) applyFix(c *gin.Context) {
	var req applyFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}
	rc := h.requestContext(c)
	rc.PriorArtifactID = strings.TrimSpace(req.ArtifactID)

	res, err := h.Svc.ApplyFix(c.Request.Context(), rc, req.FixPrompt)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("artifactId", res.ArtifactID)
	respond.OK(c, applyFixResponse{
		FixedImageData: encodeBase64(res.PNG),
		Filter:         string(res.Filter),
		ArtifactID:     res.ArtifactID,
	})
}

func (h *Handler) analyzeText(c *gin.Context) {
	var text string
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req analyzeTextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
			return
		}
		text = req.Text
	} else {
		text = c.PostForm("content")
	}

	outcome, err := h.Svc.AnalyzeText(c.Request.Context(), extract.HTMLToText(text))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("parseKind", string(outcome.Kind))
	respond.OK(c, toTextResponse(outcome.Report))
}

func (h *Handler) analyzeImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.formLimit())
	img, err := h.readUpload(c, "image")
	if err != nil {
		h.fail(c, err)
		return
	}
	if img == nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "image is required", nil)
		return
	}

	outcome, err := h.Svc.AnalyzeImage(c.Request.Context(), *img, c.PostForm("existing_alt_text"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("parseKind", string(outcome.Kind))
	respond.OK(c, toImageResponse(outcome.Report))
}

func (h *Handler) generateImage(c *gin.Context) {
	var req generateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}
	img, err := h.Svc.GenerateImage(c.Request.Context(), req.AltText)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, generateImageResponse{ImageURL: dataURI(img.MimeType, img.Data), MimeType: img.MimeType})
}

// formLimit leaves headroom for the text fields around the file parts.
func (h *Handler) formLimit() int64 {
	return 2*h.MaxUploadBytes + 1<<20
}

var errUploadTooLarge = errors.New("upload too large")

// readUpload returns nil when the field is absent.
func (h *Handler) readUpload(c *gin.Context, field string) (*Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		case errors.As(err, &maxErr):
			return nil, errUploadTooLarge
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if fh.Size > h.MaxUploadBytes {
		return nil, errUploadTooLarge
	}
	data, err := readAll(fh)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read %s", ErrInvalidInput, field)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &Upload{FileName: fh.Filename, MimeType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// fail maps service errors onto the error envelope. External failures carry
// the underlying error text.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUploadTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Sprintf("uploads are limited to %d bytes", h.MaxUploadBytes), nil)
	case errors.Is(err, ErrNoPriorUpload):
		respond.Error(c, http.StatusBadRequest, ErrorCodeNoPriorUpload, "upload an image with /analyze-content before applying a fix", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "artifact not found", nil)
	case errors.Is(err, extract.ErrUnsupported):
		respond.Error(c, http.StatusBadRequest, ErrorCodeUnsupportedDoc, err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
	case isExternal(err):
		status, code := externalStatus(err)
		respond.Error(c, status, code, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, err.Error(), nil)
	}
}
