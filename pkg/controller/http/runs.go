package http

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/EngrShabir135/koboimg/pkg/domain/interfaces"
	"github.com/EngrShabir135/koboimg/pkg/domain/model"
	"github.com/EngrShabir135/koboimg/pkg/utils/async"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxUploadSize bounds the multipart form, not the downloaded images.
const maxUploadSize = 32 << 20

// RunHandler serves the interactive upload-and-download flow
type RunHandler struct {
	pipelineUC interfaces.PipelineUseCase
	runs       *RunStore
	templates  *template.Template
}

// NewRunHandler creates a new RunHandler
func NewRunHandler(pipelineUC interfaces.PipelineUseCase, runs *RunStore) (*RunHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse templates")
	}

	return &RunHandler{
		pipelineUC: pipelineUC,
		runs:       runs,
		templates:  tmpl,
	}, nil
}

// Index renders the upload form.
func (h *RunHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", nil)
}

// Create accepts the uploaded spreadsheet plus credentials, registers a
// run and executes the pipeline in the background. Credentials live only
// in the dispatched closure and are never stored on the run.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, goerr.Wrap(err, "failed to parse upload"), http.StatusBadRequest)
		return
	}

	creds := model.Credentials{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if !creds.IsValid() {
		writeError(w, goerr.New("username and password are required"), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, goerr.Wrap(err, "spreadsheet file is required"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, goerr.Wrap(err, "failed to read upload"), http.StatusBadRequest)
		return
	}

	startIndex := 1
	if v := r.FormValue("start_index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, goerr.New("start index must be a positive integer"), http.StatusBadRequest)
			return
		}
		startIndex = n
	}

	run := h.runs.Create()

	input := &model.RunInput{
		Filename:    header.Filename,
		Data:        data,
		Credentials: creds,
		Prefix:      r.FormValue("prefix"),
		StartIndex:  startIndex,
		OnProgress: func(done, total int) {
			h.runs.Update(run.ID, func(r *model.Run) {
				r.Done = done
				r.Total = total
			})
		},
	}

	logger.Info("Run accepted",
		"run_id", run.ID,
		"filename", header.Filename,
		"size_bytes", len(data),
	)

	async.Dispatch(ctx, func(ctx context.Context) error {
		return h.execute(ctx, run.ID, input)
	})

	http.Redirect(w, r, "/runs/"+run.ID, http.StatusSeeOther)
}

func (h *RunHandler) execute(ctx context.Context, runID string, input *model.RunInput) error {
	h.runs.Update(runID, func(r *model.Run) {
		r.Status = model.RunStatusRunning
	})

	result, err := h.pipelineUC.Execute(ctx, input)
	if err != nil {
		h.runs.Update(runID, func(r *model.Run) {
			r.Status = model.RunStatusFailed
			r.Error = err.Error()
			r.FinishedAt = time.Now()
		})
		return goerr.Wrap(err, "run failed", goerr.V("run_id", runID))
	}

	h.runs.Update(runID, func(r *model.Run) {
		r.Status = model.RunStatusCompleted
		r.FinishedAt = time.Now()
		r.Done = result.Summary.Total
		r.Total = result.Summary.Total
		r.Summary = result.Summary
		r.Archive = result.Archive
		r.FailureCSV = result.FailureCSV
	})

	return nil
}

// Show renders the progress/result page for one run.
func (h *RunHandler) Show(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, goerr.New("run not found"), http.StatusNotFound)
		return
	}

	h.render(w, r, "run.html", run)
}

// runStatusResponse is the JSON view of a run, without artifacts.
type runStatusResponse struct {
	ID      string           `json:"id"`
	Status  model.RunStatus  `json:"status"`
	Done    int              `json:"done"`
	Total   int              `json:"total"`
	Error   string           `json:"error,omitempty"`
	Summary model.RunSummary `json:"summary"`
}

// Status returns the run state as JSON for polling.
func (h *RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, goerr.New("run not found"), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(runStatusResponse{
		ID:      run.ID,
		Status:  run.Status,
		Done:    run.Done,
		Total:   run.Total,
		Error:   run.Error,
		Summary: run.Summary,
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode status response", "error", err)
	}
}

// Archive serves the ZIP of successfully fetched images.
func (h *RunHandler) Archive(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, goerr.New("run not found"), http.StatusNotFound)
		return
	}
	if run.Status != model.RunStatusCompleted {
		writeError(w, goerr.New("run is not completed"), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="images.zip"`)
	if _, err := w.Write(run.Archive); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write archive response", "error", err)
	}
}

// Failures serves the failure report. Offered only when at least one
// fetch failed; otherwise the report does not exist as a download.
func (h *RunHandler) Failures(w http.ResponseWriter, r *http.Request) {
	run, ok := h.runs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, goerr.New("run not found"), http.StatusNotFound)
		return
	}
	if run.Status != model.RunStatusCompleted {
		writeError(w, goerr.New("run is not completed"), http.StatusConflict)
		return
	}
	if run.Summary.Failed == 0 {
		writeError(w, goerr.New("run has no failures"), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="failed_links.csv"`)
	if _, err := w.Write(run.FailureCSV); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write report response", "error", err)
	}
}

func (h *RunHandler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		ctxlog.From(r.Context()).Error("Failed to render template", "template", name, "error", err)
	}
}
