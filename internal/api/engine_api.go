package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swipedeck/swipedeck/internal/app/gamify"
	"github.com/swipedeck/swipedeck/internal/app/queue"
	"github.com/swipedeck/swipedeck/internal/domain"
	"github.com/swipedeck/swipedeck/internal/infra/ingest"
	"github.com/swipedeck/swipedeck/internal/infra/sqlite"
)

// EngineAPI exposes the queue processor and its surrounding stores over
// REST handlers.
type EngineAPI struct {
	proc    *queue.Processor
	db      *sqlite.DB
	scanner *ingest.FeedScanner
	log     *zap.Logger
}

// NewEngineAPI wires the engine handlers.
func NewEngineAPI(proc *queue.Processor, db *sqlite.DB, scanner *ingest.FeedScanner, log *zap.Logger) *EngineAPI {
	if log == nil {
		log = zap.NewNop()
	}
	if scanner == nil {
		scanner = ingest.NewFeedScanner(nil)
	}
	return &EngineAPI{proc: proc, db: db, scanner: scanner, log: log}
}

// statusForError maps engine errors onto HTTP statuses: state conflicts
// are 409, bad decisions are 400, everything else is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrStaleBatch):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidDecision), errors.Is(err, domain.ErrMalformedItem):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// --- /api/stats ---

func (e *EngineAPI) HandleStats(w http.ResponseWriter, r *http.Request) {
	snap := e.proc.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats": snap.Stats.View(),
		"level": snap.Level,
		"combo": snap.Combo,
	})
}

// --- /api/level ---

func (e *EngineAPI) HandleLevel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gamify.InfoForXP(e.proc.Stats().XP))
}

// --- /api/achievements ---

func (e *EngineAPI) HandleAchievements(w http.ResponseWriter, r *http.Request) {
	type achievement struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Icon        string     `json:"icon"`
		RewardXP    int64      `json:"reward_xp"`
		Unlocked    bool       `json:"unlocked"`
		UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	}

	unlocked := e.proc.Stats().Unlocked
	defs := gamify.Defs()
	out := make([]achievement, len(defs))
	for i, def := range defs {
		a := achievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			RewardXP:    def.RewardXP,
		}
		if at, ok := unlocked[def.ID]; ok {
			a.Unlocked = true
			t := at
			a.UnlockedAt = &t
		}
		out[i] = a
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": out,
		"unlocked":     len(unlocked),
		"total":        len(defs),
	})
}

// --- /api/challenges ---

func (e *EngineAPI) HandleChallenges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"challenges": e.proc.Challenges(),
	})
}

// --- /api/events/recent ---

func (e *EngineAPI) HandleRecentEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be 1-500")
			return
		}
		limit = n
	}

	events, err := e.db.RecentEvents(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// --- /api/queue ---

func (e *EngineAPI) HandleQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, e.proc.Snapshot())
}

// --- /api/queue/load ---

func (e *EngineAPI) HandleQueueLoad(w http.ResponseWriter, r *http.Request) {
	n, err := e.proc.Load(r.Context())
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	snap := e.proc.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loaded": n,
		"state":  snap.State,
	})
}

// --- /api/queue/decision ---

type decisionRequest struct {
	Kind      string `json:"kind"`
	Reason    string `json:"reason,omitempty"`
	Choice    string `json:"choice,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms,omitempty"`
}

func (e *EngineAPI) HandleDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dec := domain.Decision{
		Kind:    domain.DecisionKind(req.Kind),
		Reason:  req.Reason,
		Choice:  req.Choice,
		Elapsed: time.Duration(req.ElapsedMs) * time.Millisecond,
	}

	result, err := e.proc.Submit(dec)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	// The item never comes back in a later batch. A miss is fine: items
	// loaded from a fixture fetcher are not in the table.
	if err := e.db.MarkDecided(result.ItemID); err != nil && !errors.Is(err, domain.ErrItemNotFound) {
		e.log.Warn("mark decided failed", zap.String("item", result.ItemID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, result)
}

// --- /api/ingest ---

type ingestRequest struct {
	URL string `json:"url"`
}

// HandleIngest accepts either a JSON body naming a feed URL to crawl, or
// a raw HTML feed document, and queues the extracted items.
func (e *EngineAPI) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var (
		items []domain.QueueItem
		err   error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req ingestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		items, err = e.scanner.Fetch(r.Context(), req.URL)
	} else {
		items, err = ingest.ParseFeed(r.Body)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	inserted, err := e.db.InsertItems(items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	e.log.Info("feed ingested",
		zap.Int("parsed", len(items)), zap.Int("inserted", inserted))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"parsed":   len(items),
		"inserted": inserted,
	})
}
