package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/sialiccatalog/internal/backend/assets"
	"github.com/jo-hoe/sialiccatalog/internal/backend/catalog"
	"github.com/jo-hoe/sialiccatalog/internal/backend/commands"
	"github.com/jo-hoe/sialiccatalog/internal/backend/commandstructure"
	"github.com/jo-hoe/sialiccatalog/internal/backend/database"
	"github.com/jo-hoe/sialiccatalog/internal/backend/images"
	"github.com/jo-hoe/sialiccatalog/internal/backend/notification"
	"github.com/jo-hoe/sialiccatalog/internal/backend/search"
	"github.com/jo-hoe/sialiccatalog/internal/common"
	"github.com/redis/go-redis/v9"
)

const mimePNG = "image/png"

type CoreService struct {
	config          *ServiceConfig
	catalog         *catalog.Catalog
	engine          *search.Engine
	imageStore      assets.Store
	downloadStore   assets.Store
	imagePipeline   *commandstructure.CommandInvoker
	databaseService database.DatabaseService
	questions       *QuestionBoard
	redisClient     *redis.Client
	metrics         *serviceMetrics
}

// NewCoreService loads the catalog and opens every backing store. Any failure
// is fatal: the service never runs with a broken catalog.
func NewCoreService(config *ServiceConfig) *CoreService {
	service, err := newCoreService(context.Background(), config)
	if err != nil {
		slog.Error("failed to initialize core service", "error", err)
		panic(err)
	}
	return service
}

func newCoreService(ctx context.Context, config *ServiceConfig) (_ *CoreService, err error) {
	service := &CoreService{
		config:  config,
		metrics: newServiceMetrics(),
	}
	defer func() {
		if err != nil {
			_ = service.Close()
		}
	}()

	service.catalog, err = catalog.LoadWorkbook(config.Catalog.Path, config.Catalog.NameColumn)
	if err != nil {
		return nil, err
	}

	service.imageStore, err = assets.Open(ctx, config.Images.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open image store: %w", err)
	}
	service.downloadStore, err = assets.Open(ctx, config.Downloads.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open download store: %w", err)
	}

	if config.Redis.Address != "" {
		service.redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Address,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		service.imageStore = assets.NewCachedStore(service.imageStore, service.redisClient, "images", config.Redis.TTL)
		slog.Info("image existence cache enabled", "address", config.Redis.Address)
	}

	service.imagePipeline, err = commandstructure.BuildInvoker(commandstructure.DefaultRegistry, config.Images.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("invalid image pipeline: %w", err)
	}

	resolver := images.NewResolver(service.imageStore, config.Images.URLPrefix, config.Images.Extension)
	service.engine = search.NewEngine(service.catalog, resolver)

	service.databaseService, err = getDatabaseService(config)
	if err != nil {
		return nil, err
	}

	service.questions = NewQuestionBoard(service.databaseService, getNotifier(config), config.Notification.Timeout)
	service.questions.metrics = service.metrics
	return service, nil
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func getNotifier(config *ServiceConfig) notification.Notifier {
	if !config.Notification.SMTP.Enabled() {
		slog.Warn("smtp credentials not configured; new questions are only logged")
		return notification.LogNotifier{}
	}
	return notification.NewSMTPNotifier(config.Notification.SMTP)
}

func (service *CoreService) Catalog() *catalog.Catalog {
	return service.catalog
}

func (service *CoreService) Questions() *QuestionBoard {
	return service.questions
}

func (service *CoreService) Suggest(query string) []string {
	suggestions := service.engine.Suggest(query)
	service.metrics.queries.WithLabelValues("suggest", "ok").Inc()
	service.metrics.queryResults.WithLabelValues("suggest").Observe(float64(len(suggestions)))
	return suggestions
}

func (service *CoreService) Search(ctx context.Context, query string) ([]search.Result, []string, error) {
	results, suggestions, err := service.engine.Search(ctx, query)
	service.metrics.queries.WithLabelValues("search", outcome(err)).Inc()
	if err != nil {
		slog.Error("search failed", "query", query, "error", err)
		return results, suggestions, err
	}
	service.metrics.queryResults.WithLabelValues("search").Observe(float64(len(results)))
	return results, suggestions, nil
}

// AllNames returns the distinct compound names.
func (service *CoreService) AllNames() []string {
	return service.catalog.Names()
}

// Browse returns every catalog row as header → value.
func (service *CoreService) Browse() []map[string]any {
	columns := service.catalog.Columns()
	records := make([]map[string]any, 0, service.catalog.Len())
	for _, compound := range service.catalog.Compounds() {
		records = append(records, compound.ToMap(columns))
	}
	return records
}

// OpenDownload opens a molecule file. Only plain file names are accepted.
func (service *CoreService) OpenDownload(ctx context.Context, filename string) (io.ReadCloser, assets.Info, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return nil, assets.Info{}, fmt.Errorf("download %q: %w", filename, common.ErrNotFound)
	}
	return service.downloadStore.Open(ctx, filename)
}

// CompoundImage reads an image and runs it through the configured pipeline,
// adding a thumbnail step when width is positive.
func (service *CoreService) CompoundImage(ctx context.Context, file string, width int) ([]byte, string, error) {
	rc, info, err := service.imageStore.Open(ctx, file)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			slog.Warn("failed to close image reader", "file", file, "error", cerr)
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", file, err)
	}

	invoker := service.imagePipeline
	if width > 0 {
		converter, err := commands.NewPngConverterCommand(nil)
		if err != nil {
			return nil, "", err
		}
		thumbnail, err := commands.NewThumbnailCommand(map[string]any{"width": width})
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		invoker = invoker.With(converter, thumbnail)
	}
	if invoker.Len() == 0 {
		contentType := info.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		return data, contentType, nil
	}

	processed, err := invoker.Execute(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to process image %s: %w", file, err)
	}
	return processed, mimePNG, nil
}

// Ready reports whether the question store answers. The catalog cannot be
// unhealthy once the service exists.
func (service *CoreService) Ready() bool {
	return service.databaseService != nil && service.databaseService.DoesDatabaseExist()
}

// MetricsHandler exposes the service metrics in the Prometheus format.
func (service *CoreService) MetricsHandler() http.Handler {
	return service.metrics.handler()
}

func (service *CoreService) Close() error {
	var errs []error
	if service.databaseService != nil {
		errs = append(errs, service.databaseService.Close())
	}
	if service.redisClient != nil {
		errs = append(errs, service.redisClient.Close())
	}
	return errors.Join(errs...)
}
