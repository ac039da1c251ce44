package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tdakarsh8-beep/cropeye-server/internal/config"
	redisdb "github.com/tdakarsh8-beep/cropeye-server/internal/database/redis"
	"github.com/tdakarsh8-beep/cropeye-server/internal/models"

	"github.com/google/uuid"
)

const (
	plotSyncTimeout = 10 * time.Second
	bulkSyncTimeout = 30 * time.Second

	syncReportTTL = 24 * time.Hour
)

// SyncTarget is one downstream indexing service that mirrors plot records.
type SyncTarget interface {
	Name() string
	SyncPlot(ctx context.Context, payload models.PlotSyncPayload) error
	SyncPlots(ctx context.Context, payloads []models.PlotSyncPayload) error
	DeletePlot(ctx context.Context, plotID uuid.UUID) error
}

// HTTPSyncTarget talks to one downstream service over plain HTTP. A 200
// response is success; anything else is a failure.
type HTTPSyncTarget struct {
	name    string
	baseURL string
	client  *http.Client
}

func NewHTTPSyncTarget(name, baseURL string) *HTTPSyncTarget {
	return &HTTPSyncTarget{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (t *HTTPSyncTarget) Name() string {
	return t.name
}

func (t *HTTPSyncTarget) SyncPlot(ctx context.Context, payload models.PlotSyncPayload) error {
	ctx, cancel := context.WithTimeout(ctx, plotSyncTimeout)
	defer cancel()
	return t.post(ctx, t.baseURL+"/sync/plot", payload)
}

func (t *HTTPSyncTarget) SyncPlots(ctx context.Context, payloads []models.PlotSyncPayload) error {
	ctx, cancel := context.WithTimeout(ctx, bulkSyncTimeout)
	defer cancel()
	return t.post(ctx, t.baseURL+"/sync/plots", map[string]any{"plots": payloads})
}

func (t *HTTPSyncTarget) DeletePlot(ctx context.Context, plotID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, plotSyncTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/sync/plot/%s", t.baseURL, plotID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", t.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned status %d: %s", t.name, resp.StatusCode, string(body))
	}
	return nil
}

func (t *HTTPSyncTarget) post(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", t.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned status %d: %s", t.name, resp.StatusCode, string(respBody))
	}
	return nil
}

// PlotSyncDispatcher pushes the canonical plot representation to every
// configured downstream service. Failures are isolated per target and
// accumulated into the report; they never abort the remaining targets and
// never surface as an error to the caller.
type PlotSyncDispatcher struct {
	targets []SyncTarget
	cache   *redisdb.Client
}

// NewPlotSyncDispatcher builds the dispatcher over the five downstream
// services. The cache is optional; when present the last report per plot is
// kept for the sync-status endpoint.
func NewPlotSyncDispatcher(cfg config.SyncConfig, cache *redisdb.Client) *PlotSyncDispatcher {
	targets := []SyncTarget{
		NewHTTPSyncTarget("events", cfg.EventsAPIURL),
		NewHTTPSyncTarget("soil", cfg.SoilAPIURL),
		NewHTTPSyncTarget("admin", cfg.AdminAPIURL),
		NewHTTPSyncTarget("et", cfg.ETAPIURL),
		NewHTTPSyncTarget("field", cfg.FieldAPIURL),
	}
	return &PlotSyncDispatcher{targets: targets, cache: cache}
}

// NewPlotSyncDispatcherWithTargets injects an explicit target list.
func NewPlotSyncDispatcherWithTargets(targets []SyncTarget, cache *redisdb.Client) *PlotSyncDispatcher {
	return &PlotSyncDispatcher{targets: targets, cache: cache}
}

// SyncPlot mirrors one plot to every target.
func (d *PlotSyncDispatcher) SyncPlot(ctx context.Context, plot *models.Plot) models.SyncReport {
	payload := BuildPlotSyncPayload(plot)
	report := models.SyncReport{Successful: []string{}, Failed: []string{}}

	for _, target := range d.targets {
		if err := target.SyncPlot(ctx, payload); err != nil {
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s)", target.Name(), err))
			slog.Error("plot sync failed", "plot_id", plot.ID, "target", target.Name(), "error", err)
			continue
		}
		report.Successful = append(report.Successful, target.Name())
		slog.Info("plot synced", "plot_id", plot.ID, "target", target.Name())
	}

	slog.Info("plot sync summary",
		"plot_id", plot.ID,
		"successful", len(report.Successful),
		"failed", len(report.Failed),
	)

	d.storeReport(ctx, plot.ID, &report)
	return report
}

// SyncAllPlots mirrors the full plot set to every target in one bulk call
// per target.
func (d *PlotSyncDispatcher) SyncAllPlots(ctx context.Context, plots []models.Plot) models.SyncReport {
	payloads := make([]models.PlotSyncPayload, 0, len(plots))
	for i := range plots {
		payloads = append(payloads, BuildPlotSyncPayload(&plots[i]))
	}

	report := models.SyncReport{Successful: []string{}, Failed: []string{}}
	for _, target := range d.targets {
		if err := target.SyncPlots(ctx, payloads); err != nil {
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s)", target.Name(), err))
			slog.Error("bulk plot sync failed", "target", target.Name(), "plots", len(payloads), "error", err)
			continue
		}
		report.Successful = append(report.Successful, target.Name())
		slog.Info("bulk plot sync completed", "target", target.Name(), "plots", len(payloads))
	}
	return report
}

// DeletePlot removes one plot from every target.
func (d *PlotSyncDispatcher) DeletePlot(ctx context.Context, plotID uuid.UUID) models.SyncReport {
	report := models.SyncReport{Successful: []string{}, Failed: []string{}}

	for _, target := range d.targets {
		if err := target.DeletePlot(ctx, plotID); err != nil {
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s)", target.Name(), err))
			slog.Error("plot delete sync failed", "plot_id", plotID, "target", target.Name(), "error", err)
			continue
		}
		report.Successful = append(report.Successful, target.Name())
	}

	slog.Info("plot delete sync summary",
		"plot_id", plotID,
		"successful", len(report.Successful),
		"failed", len(report.Failed),
	)
	return report
}

// LastReport returns the cached report of the most recent fan-out for the
// plot, or nil when none is cached or no cache is configured.
func (d *PlotSyncDispatcher) LastReport(ctx context.Context, plotID uuid.UUID) (*models.SyncReport, error) {
	if d.cache == nil {
		return nil, nil
	}

	data, err := d.cache.GetClient().Get(ctx, syncReportKey(plotID)).Bytes()
	if err != nil {
		return nil, nil
	}

	var report models.SyncReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached sync report: %w", err)
	}
	return &report, nil
}

func (d *PlotSyncDispatcher) storeReport(ctx context.Context, plotID uuid.UUID, report *models.SyncReport) {
	if d.cache == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := d.cache.GetClient().Set(ctx, syncReportKey(plotID), data, syncReportTTL).Err(); err != nil {
		slog.Warn("failed to cache sync report", "plot_id", plotID, "error", err)
	}
}

func syncReportKey(plotID uuid.UUID) string {
	return "plot:sync:" + plotID.String()
}

// BuildPlotSyncPayload builds the canonical plot representation consumed by
// the downstream services: generated name, address properties and a
// GeoJSON-shaped geometry block. Boundary wins over location; with neither
// present the geometry degrades to a point at the origin.
func BuildPlotSyncPayload(plot *models.Plot) models.PlotSyncPayload {
	name := plot.SyncName()
	payload := models.PlotSyncPayload{
		ID:   plot.ID,
		Name: name,
		Properties: models.PlotSyncProperties{
			Name: name,
			Description: fmt.Sprintf("GAT: %s, Plot: %s, Village: %s",
				plot.GatNumber, orDefault(plot.PlotNumber, "N/A"), orDefault(plot.Village, "Unknown")),
			GatNumber:  plot.GatNumber,
			PlotNumber: plot.PlotNumber,
			Village:    plot.Village,
			Taluka:     plot.Taluka,
			District:   plot.District,
			State:      plot.State,
			Country:    plot.Country,
			PinCode:    plot.PinCode,
		},
	}

	switch {
	case plot.Boundary != nil:
		payload.Geometry = models.PlotSyncGeometry{
			Type:        "Polygon",
			Coordinates: plot.Boundary.Coordinates,
		}
	case plot.Location != nil && len(plot.Location.Coordinates) >= 2:
		payload.Geometry = models.PlotSyncGeometry{
			Type:        "Point",
			Coordinates: []float64{plot.Location.Coordinates[0], plot.Location.Coordinates[1], 0.0},
		}
	default:
		payload.Geometry = models.PlotSyncGeometry{
			Type:        "Point",
			Coordinates: []float64{0.0, 0.0, 0.0},
		}
	}

	return payload
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
