// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard serves a dataset over a JSON API. It owns the current
// dataset and replaces it whole on every upload.
package dashboard

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/jcodagnone/mapaelectoral/utils/fileutils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultClusterMeters is the grouping distance of /api/clusters.
const DefaultClusterMeters = 50

const xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errNoDataset = errors.New("no dataset loaded")

type Server struct {
	mu             sync.RWMutex // guards engine and dataset
	engine         *electoral.Engine
	dataset        *electoral.Dataset
	metrics        *metrics
	maxUploadBytes int64
}

func NewServer(engine *electoral.Engine, cfg Config) *Server {
	return &Server{
		engine:         engine,
		metrics:        newMetrics(),
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Load ingests raw and, when it succeeds, replaces the current dataset.
// A failed ingestion leaves the previous dataset in place.
func (s *Server) Load(raw string) (*electoral.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.engine.Ingest(raw)
	if err != nil {
		s.metrics.ingestions.WithLabelValues("rejected").Inc()

		return nil, err
	}

	s.metrics.ingestions.WithLabelValues("ok").Inc()
	s.metrics.observe(ds)
	s.dataset = ds

	log.Printf("✅ Loaded %d stations (%d exact, %d approximate), %d rows skipped",
		ds.Report.Total, ds.Report.Exact, ds.Report.Approximate, ds.Report.SkippedRows)

	return ds, nil
}

// SetDataset replaces the current dataset with one built elsewhere, such as
// an imported snapshot.
func (s *Server) SetDataset(ds *electoral.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.observe(ds)
	s.dataset = ds
}

// Dataset returns the current dataset, nil before the first load.
func (s *Server) Dataset() *electoral.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dataset
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/dataset", s.getDataset)
	api.POST("/dataset", s.uploadDataset)
	api.GET("/stations", s.listStations)
	api.GET("/stations/*id", s.getStation)
	api.GET("/aggregate", s.aggregate)
	api.GET("/comunas", s.comunaBreakdown)
	api.GET("/cells", s.cells)
	api.GET("/clusters", s.clusters)

	return r
}

func (s *Server) Run(addr string) error {
	log.Printf("📊 Dashboard listening on http://%s", addr)

	return s.Router().Run(addr)
}

// current returns the dataset, answering 404 when there is none.
func (s *Server) current(ctx *gin.Context) (*electoral.Dataset, bool) {
	ds := s.Dataset()
	if ds == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": errNoDataset.Error()})

		return nil, false
	}

	return ds, true
}

// filter binds the comuna and corporation query parameters.
func filter(ctx *gin.Context) (electoral.Filter, bool) {
	var f electoral.Filter
	if err := ctx.ShouldBindQuery(&f); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return f, false
	}

	return f, true
}

type DatasetSummary struct {
	Report       electoral.LoadReport   `json:"report"`
	Candidates   []*electoral.Candidate `json:"candidates"`
	Comunas      []string               `json:"comunas"`
	Corporations []string               `json:"corporations"`
}

func summarize(ds *electoral.Dataset) DatasetSummary {
	return DatasetSummary{
		Report:       ds.Report,
		Candidates:   ds.Candidates,
		Comunas:      ds.Comunas,
		Corporations: ds.Corporations,
	}
}

func (s *Server) getDataset(ctx *gin.Context) {
	ds, ok := s.current(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, summarize(ds))
}

// readUpload returns the text of an uploaded results file, sent either as
// the "file" field of a multipart form or as the raw request body.
func (s *Server) readUpload(ctx *gin.Context) (string, error) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(ctx.ContentType())
	if mediaType == "multipart/form-data" {
		header, err := ctx.FormFile("file")
		if err != nil {
			return "", err
		}

		f, err := header.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}

		return fileutils.Decode(header.Filename, content)
	}

	content, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return "", err
	}

	if mediaType == xlsxMediaType {
		return fileutils.Decode("upload.xlsx", content)
	}

	return fileutils.Decode(ctx.Query("name"), content)
}

func (s *Server) uploadDataset(ctx *gin.Context) {
	raw, err := s.readUpload(ctx)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})

			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ds, err := s.Load(raw)
	if err != nil {
		if electoral.IsConfigurationError(err) {
			var ie *electoral.IngestError
			errors.As(err, &ie)
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "type": ie.Type.String()})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, summarize(ds))
}

func (s *Server) listStations(ctx *gin.Context) {
	ds, ok := s.current(ctx)
	if !ok {
		return
	}

	f, ok := filter(ctx)
	if !ok {
		return
	}

	stations := f.Stations(ds)
	if stations == nil {
		stations = []*electoral.Station{}
	}

	ctx.JSON(http.StatusOK, stations)
}

type StationDetail struct {
	*electoral.Station
	Shares map[string]float64 `json:"shares"`
}

func (s *Server) getStation(ctx *gin.Context) {
	ds, ok := s.current(ctx)
	if !ok {
		return
	}

	// IDs may contain slashes, so the route takes the rest of the path.
	station, found := ds.Station(strings.TrimPrefix(ctx.Param("id"), "/"))
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "station not found"})

		return
	}

	shares := make(map[string]float64, station.Votes.Len())
	for name := range station.Votes.All() {
		shares[name] = station.Share(name)
	}

	ctx.JSON(http.StatusOK, StationDetail{Station: station, Shares: shares})
}

type AggregateResponse struct {
	*electoral.AggregateResult
	Ranking []electoral.RankEntry `json:"ranking"`
}

func (s *Server) aggregate(ctx *gin.Context) {
	ds, ok := s.current(ctx)
	if !ok {
		return
	}

	f, ok := filter(ctx)
	if !ok {
		return
	}

	res := electoral.Aggregate(ds, f)

	ranking := res.Ranking()
	if ranking == nil {
		ranking = []electoral.RankEntry{}
	}

	ctx.JSON(http.StatusOK, AggregateResponse{AggregateResult: res, Ranking: ranking})
}

func (s *Server) comunaBreakdown(ctx *gin.Context) {
	ds, ok := s.current(ctx)
	if !ok {
		return
	}

	breakdown := electoral.ComunaBreakdown(ds, ctx.Query("corporation"))
	if breakdown == nil {
		breakdown = []electoral.ComunaVotes{}
	}

	ctx.JSON(http.StatusOK, breakdown)
}

func (s *Server) cells(ctx *gin.Context) {
	ds, ok := s.current(ctx)
	if !ok {
		return
	}

	f, ok := filter(ctx)
	if !ok {
		return
	}

	res, err := strconv.Atoi(ctx.DefaultQuery("res", strconv.Itoa(electoral.CellResolution)))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "res must be an integer"})

		return
	}

	cells, err := electoral.AggregateCells(ds, f, res)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if cells == nil {
		cells = []*electoral.CellAggregate{}
	}

	ctx.JSON(http.StatusOK, cells)
}

type Cluster struct {
	Stations []string `json:"stations"`
	Names    []string `json:"names"`
}

func (s *Server) clusters(ctx *gin.Context) {
	ds, ok := s.current(ctx)
	if !ok {
		return
	}

	f, ok := filter(ctx)
	if !ok {
		return
	}

	meters, err := strconv.ParseFloat(ctx.DefaultQuery("meters", strconv.Itoa(DefaultClusterMeters)), 64)
	if err != nil || meters < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "meters must be a non-negative number"})

		return
	}

	clusters := []Cluster{}

	for _, group := range electoral.ClusterStations(f.Stations(ds), meters) {
		var c Cluster
		for _, station := range group {
			c.Stations = append(c.Stations, station.ID)
			c.Names = append(c.Names, station.Name)
		}

		clusters = append(clusters, c)
	}

	ctx.JSON(http.StatusOK, clusters)
}
