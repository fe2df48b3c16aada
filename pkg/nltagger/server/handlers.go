package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/api"
)

// RunRequest the first (and only) message a client sends over the websocket.
type RunRequest struct {
	Directory   string  `json:"directory"`
	Temperature float64 `json:"temperature"`
}

// RunMessage every message the server sends: a snapshot of the log, or an error if the request was rejected.
type RunMessage struct {
	api.Snapshot
	Error string `json:"error,omitempty"`
}

// RunHandler streams runs to the browser.
type RunHandler struct {
	tagger   api.API
	logger   common.Logger
	upgrader websocket.Upgrader
}

func NewRunHandler(tagger api.API, logger common.Logger) *RunHandler {
	return &RunHandler{
		tagger: tagger,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// HealthCheck handles GET /api/health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// StreamRun handles GET /api/runs/ws. The display is reset with an empty snapshot, then every snapshot of the run
// follows. The connection is closed once the run is over.
func (h *RunHandler) StreamRun(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.LogError("failed to upgrade connection to websocket", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()
	var request RunRequest
	err = conn.ReadJSON(&request)
	if err != nil {
		h.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}
	request.Directory = common.CleanUserPath(request.Directory)
	err = validateRunRequest(request)
	if err != nil {
		h.writeError(conn, err.Error())
		return
	}
	err = conn.WriteJSON(RunMessage{})
	if err != nil {
		return
	}
	h.logger.LogFields("run requested", common.Fields{"directory": request.Directory, "remote": r.RemoteAddr})
	for snapshot := range h.tagger.DescribeImages(r.Context(), request.Directory, request.Temperature) {
		err = conn.WriteJSON(RunMessage{Snapshot: snapshot})
		if err != nil {
			// The browser went away; stopping the iteration stops the run before the next picture.
			h.logger.LogError("failed to send snapshot", err)
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}

func (h *RunHandler) writeError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(RunMessage{Error: message})
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message))
}

func validateRunRequest(request RunRequest) error {
	if strings.TrimSpace(request.Directory) == "" {
		return fmt.Errorf("directory is required")
	}
	if request.Temperature < api.MinTemperature || request.Temperature > api.MaxTemperature {
		return fmt.Errorf("temperature must be between %.1f and %.1f", api.MinTemperature, api.MaxTemperature)
	}
	return nil
}
