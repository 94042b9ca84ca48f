// Command server exposes trained inflection trees as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/models
//	POST /api/models   body: {"name":"...","phonology":"english","pairs":[{"lemma":"...","inflected":"...","features":["PL"]}]}
//	GET  /api/inflect?lemma=<word>&features=<a;b>[&model=<id>][&relaxed=true]
//	GET  /api/leaves[?model=<id>]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/cours-de-latin/atp"
	"github.com/cours-de-latin/atp/config"
)

// defaultModel is the id of the model trained at startup.
const defaultModel = "default"

// ---- JSON request and response types -----------------------------------

type pairJSON struct {
	Lemma     string   `json:"lemma"`
	Inflected string   `json:"inflected"`
	Features  []string `json:"features"`
}

type trainRequest struct {
	Name      string     `json:"name"`
	Phonology string     `json:"phonology,omitempty"`
	Features  []string   `json:"features,omitempty"`
	Pairs     []pairJSON `json:"pairs"`
}

type modelJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Pairs     int       `json:"pairs"`
	Leaves    int       `json:"leaves"`
	Features  []string  `json:"features"`
	CreatedAt time.Time `json:"created_at"`
}

type modelsResponse struct {
	Models []modelJSON `json:"models"`
}

type inflectResponse struct {
	Model    string   `json:"model"`
	Lemma    string   `json:"lemma"`
	Features []string `json:"features"`
	Form     string   `json:"form"`
	Guessed  bool     `json:"guessed"`
	Leaf     string   `json:"leaf"`
}

type leafJSON struct {
	Name       string `json:"name"`
	Productive bool   `json:"productive"`
	Suffix     string `json:"suffix,omitempty"`
	Size       int    `json:"size"`
	// Closest names the strongest rule of an unproductive leaf.
	Closest     string `json:"closest,omitempty"`
	ClosestHits int    `json:"closest_hits,omitempty"`
}

type leavesResponse struct {
	Model  string     `json:"model"`
	Leaves []leafJSON `json:"leaves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- model registry -----------------------------------------------------

type model struct {
	id      string
	name    string
	learner *atp.Learner
	pairs   int
	created time.Time
}

func (m *model) toJSON() modelJSON {
	return modelJSON{
		ID:        m.id,
		Name:      m.name,
		Pairs:     m.pairs,
		Leaves:    len(m.learner.Leaves()),
		Features:  m.learner.FeatureSpace(),
		CreatedAt: m.created,
	}
}

// registry holds the trained models. Learners are trained before they are
// added and never retrained, so only the map needs the lock.
type registry struct {
	mu     sync.RWMutex
	models map[string]*model
}

func newRegistry() *registry {
	return &registry{models: make(map[string]*model)}
}

func (r *registry) add(m *model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.id] = m
}

func (r *registry) get(id string) (*model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	return m, ok
}

func (r *registry) list() []*model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].created.Equal(out[j].created) {
			return out[i].created.Before(out[j].created)
		}
		return out[i].id < out[j].id
	})
	return out
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode error", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// errorStatus maps library errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, atp.ErrNoTrainingPairs):
		return http.StatusBadRequest
	case errors.Is(err, atp.ErrNoMatchingBranch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, atp.ErrNotTrained):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*model, bool) {
	id := r.URL.Query().Get("model")
	if id == "" {
		id = defaultModel
	}
	m, ok := s.models.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("model %q not found", id))
	}
	return m, ok
}

// ---- handlers -----------------------------------------------------------

type server struct {
	cfg    *config.Config
	models *registry
	logger *slog.Logger
}

func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		models := s.models.list()
		out := make([]modelJSON, 0, len(models))
		for _, m := range models {
			out = append(out, m.toJSON())
		}
		writeJSON(w, http.StatusOK, modelsResponse{Models: out})
	case http.MethodPost:
		s.handleTrain(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

func (s *server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var body trainRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "body must be JSON with a 'pairs' array")
		return
	}
	lc := s.cfg.Learner
	if body.Phonology != "" {
		lc.Phonology = body.Phonology
	}
	phon, err := lc.NewPhonology()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pairs := make([]atp.Pair, 0, len(body.Pairs))
	for _, p := range body.Pairs {
		pairs = append(pairs, atp.NewPair(p.Lemma, p.Inflected, p.Features...))
	}
	space := atp.NewFeatures(body.Features...)
	if len(space) == 0 {
		space = atp.FeatureSpace(pairs)
	}

	l := atp.New(space, atp.WithPhonology(phon), atp.WithLogger(s.logger))
	if err := l.Train(pairs); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	m := &model{id: uuid.NewString(), name: body.Name, learner: l, pairs: len(pairs), created: time.Now()}
	s.models.add(m)
	s.logger.Info("model trained", "id", m.id, "name", m.name, "pairs", m.pairs)
	writeJSON(w, http.StatusCreated, m.toJSON())
}

func (s *server) handleInflect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	q := r.URL.Query()
	lemma := q.Get("lemma")
	if lemma == "" {
		writeError(w, http.StatusBadRequest, "missing 'lemma' query parameter")
		return
	}
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	feats := atp.ParseFeatures(q.Get("features"), s.cfg.Data.FeatSep)
	relaxed, _ := strconv.ParseBool(q.Get("relaxed"))

	var pred atp.Prediction
	var err error
	if relaxed {
		pred, err = m.learner.PredictIgnoringFeatures(lemma, feats)
	} else {
		pred, err = m.learner.Predict(lemma, feats)
	}
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inflectResponse{
		Model:    m.id,
		Lemma:    lemma,
		Features: feats,
		Form:     pred.Form,
		Guessed:  pred.Guessed,
		Leaf:     pred.Leaf.Name(),
	})
}

func (s *server) handleLeaves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	leaves := m.learner.Leaves()
	out := make([]leafJSON, 0, len(leaves))
	for _, leaf := range leaves {
		suffix, _ := leaf.ProductiveSuffix()
		lj := leafJSON{
			Name:       leaf.Name(),
			Productive: leaf.Productive(),
			Suffix:     suffix,
			Size:       len(leaf.Table().Vocabulary()),
		}
		if r := leaf.ClosestRule(); r != nil {
			lj.Closest, lj.ClosestHits = r.Name(), r.Hits()
		}
		out = append(out, lj)
	}
	writeJSON(w, http.StatusOK, leavesResponse{Model: m.id, Leaves: out})
}

// handler routes the API and wraps it in the CORS policy of the config.
func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/models", s.handleModels)
	mux.HandleFunc("/api/inflect", s.handleInflect)
	mux.HandleFunc("/api/leaves", s.handleLeaves)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// loadDefault trains the startup dataset as the default model.
func (s *server) loadDefault(path string) error {
	opts, err := s.cfg.Data.LoadOptions()
	if err != nil {
		return err
	}
	ds, err := atp.LoadPairsFile(path, opts)
	if err != nil {
		return err
	}
	phon, err := s.cfg.Learner.NewPhonology()
	if err != nil {
		return err
	}
	l := atp.New(ds.FeatureSpace, atp.WithPhonology(phon), atp.WithLogger(s.logger))
	if err := l.Train(ds.Pairs); err != nil {
		return fmt.Errorf("train %s: %w", path, err)
	}
	s.models.add(&model{id: defaultModel, name: path, learner: l, pairs: len(ds.Pairs), created: time.Now()})
	return nil
}

// ---- main ---------------------------------------------------------------

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	dataset := flag.String("data", "", "dataset trained at startup as the default model")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *dataset != "" {
		cfg.Server.Dataset = *dataset
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	s := &server{cfg: cfg, models: newRegistry(), logger: logger}
	if cfg.Server.Dataset != "" {
		logger.Info("loading data", "path", cfg.Server.Dataset)
		if err := s.loadDefault(cfg.Server.Dataset); err != nil {
			logger.Error("failed to load data", "error", err)
			os.Exit(1)
		}
		logger.Info("data loaded")
	}

	logger.Info("listening", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, s.handler()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
