package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gitgraph/pkg/core/hierarchy"
	"github.com/matzehuels/gitgraph/pkg/errors"
	"github.com/matzehuels/gitgraph/pkg/graph"
	"github.com/matzehuels/gitgraph/pkg/pipeline"
	"github.com/matzehuels/gitgraph/pkg/render/flow"
	"github.com/matzehuels/gitgraph/pkg/render/nodelink"
	"github.com/matzehuels/gitgraph/pkg/source/github"
	"github.com/matzehuels/gitgraph/pkg/view"
)

// viewResponse describes a view and its current scene.
type viewResponse struct {
	ViewID     string            `json:"view_id"`
	Generation uint64            `json:"generation"`
	Scene      flow.Scene        `json:"scene"`
	Issues     []hierarchy.Issue `json:"issues"`
	Applied    *bool             `json:"applied,omitempty"`
	Cached     *bool             `json:"cached,omitempty"`
}

func newViewResponse(v *view.View) viewResponse {
	issues := v.Issues()
	if issues == nil {
		issues = []hierarchy.Issue{}
	}
	return viewResponse{
		ViewID:     v.ID(),
		Generation: v.Generation(),
		Scene:      v.Scene(),
		Issues:     issues,
	}
}

// githubRequest is the body of POST /api/views/github.
type githubRequest struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"ref"`
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*view.View, bool) {
	v, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return nil, false
	}
	return v, true
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	g, err := graph.DecodePayload(data)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.open(w, r, g, nil)
}

func (s *Server) handleCreateGitHub(w http.ResponseWriter, r *http.Request) {
	var req githubRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := github.ValidateRepoRef(req.Owner, req.Repo, req.Ref); err != nil {
		writeError(w, s.logger, err)
		return
	}

	g, hit, err := s.runner.FetchWithCacheInfo(r.Context(), pipeline.FetchOptions{
		Source:  pipeline.SourceGitHub,
		Owner:   req.Owner,
		Repo:    req.Repo,
		Ref:     req.Ref,
		Exclude: s.cfg.Exclude,
		Token:   s.cfg.GitHubToken,
		Logger:  s.logger,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.open(w, r, g, &hit)
}

func (s *Server) open(w http.ResponseWriter, r *http.Request, g graph.Graph, cached *bool) {
	v, err := s.runner.Open(r.Context(), g, s.viewOptions())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.views.Add(v)
	s.logger.Info("view opened", "view", v.ID(), "nodes", len(g.Nodes))

	resp := newViewResponse(v)
	resp.Cached = cached
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newViewResponse(v))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceGraph(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	g, err := graph.DecodePayload(data)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	applied, err := v.Load(r.Context(), g)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	resp := newViewResponse(v)
	resp.Applied = &applied
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var ev flow.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, s.logger, err)
		return
	}
	up, err := v.Dispatch(r.Context(), ev)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	d, err := v.Detail(r.Context(), chi.URLParam(r, "nodeID"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) dot(r *http.Request, v *view.View) string {
	return nodelink.ToDOT(v.Scene(), nodelink.Options{Detailed: r.URL.Query().Get("detailed") == "true"})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(s.dot(r, v)))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	svg, err := nodelink.RenderSVG(s.dot(r, v))
	if err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}
