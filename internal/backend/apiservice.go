package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jo-hoe/sialiccatalog/internal/common"
	"github.com/jo-hoe/sialiccatalog/internal/core"

	"github.com/labstack/echo/v4"
)

const (
	msgQuestionSent     = "Question sent successfully!"
	msgAnswerSaved      = "Answer saved successfully!"
	msgFileNotFound     = "File not found"
	msgQuestionNotFound = "Question not found"
)

type APIService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

type questionForm struct {
	UserQuestion string `form:"user_question" validate:"required"`
}

type answerForm struct {
	QuestionID string `form:"question_id" validate:"required"`
	Answer     string `form:"answer" validate:"required"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
		config:      config,
	}
}

func (service *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", service.probeHandler)
	e.GET("/metrics", echo.WrapHandler(service.coreService.MetricsHandler()))

	e.GET("/suggestions", service.suggestionsHandler)
	e.GET("/search", service.searchHandler)
	e.GET("/all_names", service.allNamesHandler)
	e.GET("/browse_all_json", service.browseHandler)
	e.GET("/download/:filename", service.downloadHandler)
	e.GET(service.config.Images.URLPrefix+"/:file", service.compoundImageHandler)

	e.POST("/submit_question", service.submitQuestionHandler)
	e.GET("/get_qa", service.answeredQuestionsHandler)
	e.GET("/admin/questions", service.allQuestionsHandler)
	e.POST("/admin/answer", service.answerQuestionHandler)
}

func jsonError(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, map[string]string{"error": message})
}

// pathParam returns a decoded route parameter. echo routes on URL.RawPath
// when the request carried one, and its params are then still escaped.
func pathParam(ctx echo.Context, name string) string {
	value := ctx.Param(name)
	if ctx.Request().URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

func (service *APIService) probeHandler(ctx echo.Context) error {
	if !service.coreService.Ready() {
		slog.Warn("probeHandler: question store unavailable", "status", http.StatusServiceUnavailable)
		return ctx.String(http.StatusServiceUnavailable, "question store unavailable")
	}
	return ctx.String(http.StatusOK, "ok")
}

func (service *APIService) suggestionsHandler(ctx echo.Context) error {
	suggestions := service.coreService.Suggest(ctx.QueryParam("query"))
	return ctx.JSON(http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (service *APIService) searchHandler(ctx echo.Context) error {
	results, suggestions, err := service.coreService.Search(ctx.Request().Context(), ctx.QueryParam("query"))
	if err != nil {
		return jsonError(ctx, http.StatusInternalServerError, fmt.Sprintf("Error processing the search: %v", err))
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"results":     results,
		"suggestions": suggestions,
	})
}

func (service *APIService) allNamesHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{"names": service.coreService.AllNames()})
}

func (service *APIService) browseHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{"results": service.coreService.Browse()})
}

func (service *APIService) downloadHandler(ctx echo.Context) error {
	filename := pathParam(ctx, "filename")
	rc, info, err := service.coreService.OpenDownload(ctx.Request().Context(), filename)
	if errors.Is(err, common.ErrNotFound) {
		slog.Warn("downloadHandler: file not found", "status", http.StatusNotFound, "filename", filename)
		return jsonError(ctx, http.StatusNotFound, msgFileNotFound)
	}
	if err != nil {
		slog.Error("downloadHandler: failed to open file",
			"status", http.StatusInternalServerError, "filename", filename, "error", err)
		return jsonError(ctx, http.StatusInternalServerError, "Failed to read file")
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			slog.Error("downloadHandler: failed to close file reader", "filename", filename, "error", cerr)
		}
	}()

	contentType := info.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	header := ctx.Response().Header()
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if info.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}
	return ctx.Stream(http.StatusOK, contentType, rc)
}

func (service *APIService) compoundImageHandler(ctx echo.Context) error {
	file := pathParam(ctx, "file")
	width := 0
	if raw := ctx.QueryParam("width"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return jsonError(ctx, http.StatusBadRequest, "width must be a positive integer")
		}
		width = parsed
	}

	data, contentType, err := service.coreService.CompoundImage(ctx.Request().Context(), file, width)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return jsonError(ctx, http.StatusNotFound, msgFileNotFound)
	case errors.Is(err, common.ErrValidation):
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	case err != nil:
		slog.Error("compoundImageHandler: failed to serve image",
			"status", http.StatusInternalServerError, "file", file, "error", err)
		return jsonError(ctx, http.StatusInternalServerError, "Failed to load image")
	}

	ctx.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return ctx.Blob(http.StatusOK, contentType, data)
}

func (service *APIService) submitQuestionHandler(ctx echo.Context) error {
	var form questionForm
	if err := ctx.Bind(&form); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "Invalid request")
	}
	if err := ctx.Validate(&form); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "No question provided")
	}

	id, err := service.coreService.Questions().Submit(ctx.Request().Context(), form.UserQuestion)
	if errors.Is(err, common.ErrValidation) {
		return jsonError(ctx, http.StatusBadRequest, "No question provided")
	}
	if err != nil {
		slog.Error("submitQuestionHandler: failed to store question",
			"status", http.StatusInternalServerError, "error", err)
		return jsonError(ctx, http.StatusInternalServerError, "Failed to store question")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"message":     msgQuestionSent,
		"question_id": id,
	})
}

func (service *APIService) answeredQuestionsHandler(ctx echo.Context) error {
	questions, err := service.coreService.Questions().ListAnswered(ctx.Request().Context())
	if err != nil {
		slog.Error("answeredQuestionsHandler: failed to list questions", "error", err)
		return jsonError(ctx, http.StatusInternalServerError, "Failed to load questions")
	}
	return ctx.JSON(http.StatusOK, map[string]any{"qa_list": questions})
}

func (service *APIService) allQuestionsHandler(ctx echo.Context) error {
	questions, err := service.coreService.Questions().ListAll(ctx.Request().Context())
	if err != nil {
		slog.Error("allQuestionsHandler: failed to list questions", "error", err)
		return jsonError(ctx, http.StatusInternalServerError, "Failed to load questions")
	}
	return ctx.JSON(http.StatusOK, map[string]any{"questions": questions})
}

func (service *APIService) answerQuestionHandler(ctx echo.Context) error {
	var form answerForm
	if err := ctx.Bind(&form); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "Invalid request")
	}
	if err := ctx.Validate(&form); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "Question ID and answer are required")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(form.QuestionID), 10, 64)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "Question ID must be an integer")
	}

	question, err := service.coreService.Questions().Answer(ctx.Request().Context(), id, form.Answer)
	switch {
	case errors.Is(err, common.ErrValidation):
		return jsonError(ctx, http.StatusBadRequest, "Question ID and answer are required")
	case errors.Is(err, common.ErrNotFound):
		return jsonError(ctx, http.StatusNotFound, msgQuestionNotFound)
	case err != nil:
		slog.Error("answerQuestionHandler: failed to store answer",
			"status", http.StatusInternalServerError, "question_id", id, "error", err)
		return jsonError(ctx, http.StatusInternalServerError, "Failed to store answer")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"message":  msgAnswerSaved,
		"question": question,
	})
}
