package handlers

import (
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/cssocial/desk/internal/config"
	"github.com/cssocial/desk/internal/interact"
	"github.com/cssocial/desk/internal/localdb"
	"github.com/cssocial/desk/internal/media"
	"github.com/cssocial/desk/internal/pins"
	"github.com/cssocial/desk/internal/preview"
	"github.com/cssocial/desk/internal/realtime"
	"github.com/cssocial/desk/internal/remote"
	"github.com/cssocial/desk/internal/worker"
)

type Handler struct {
	API       *remote.Client
	DB        *localdb.Store
	Pins      *pins.Store
	State     *SessionState
	Config    *config.AppConfig
	Refresher *worker.Refresher
	Unread    *realtime.UnreadCounter
	Media     *media.Uploader
	Previews  *preview.Fetcher
}

func NewHandler(api *remote.Client, db *localdb.Store, pinStore *pins.Store, state *SessionState, cfg *config.AppConfig, r *worker.Refresher, unread *realtime.UnreadCounter, uploader *media.Uploader, previews *preview.Fetcher) *Handler {
	return &Handler{
		API:       api,
		DB:        db,
		Pins:      pinStore,
		State:     state,
		Config:    cfg,
		Refresher: r,
		Unread:    unread,
		Media:     uploader,
		Previews:  previews,
	}
}

// SessionState holds the one signed-in viewer's token and interaction
// state. The remote client's token func reads from here, so swapping
// the session re-points every outgoing request.
type SessionState struct {
	mu      sync.Mutex
	token   string
	session *interact.Session
}

func NewSessionState() *SessionState {
	return &SessionState{}
}

func (s *SessionState) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *SessionState) Current() *interact.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Set installs a new signed-in session, closing the previous one so
// its in-flight results are dropped.
func (s *SessionState) Set(token string, session *interact.Session) {
	s.mu.Lock()
	prev := s.session
	s.token = token
	s.session = session
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (s *SessionState) Clear() {
	s.Set("", nil)
}

// GetAuthenticatedUser returns the signed-in viewer when the browser
// session matches the stored one.
func (h *Handler) GetAuthenticatedUser(c *gin.Context) (remote.User, bool) {
	sess := h.State.Current()
	if sess == nil {
		return remote.User{}, false
	}
	viewer := sess.Viewer()
	browser := sessions.Default(c)
	if id, ok := browser.Get("viewer_id").(string); !ok || id != viewer.ID {
		return remote.User{}, false
	}
	return viewer, true
}

// CommonData merges the keys every page needs into data.
func (h *Handler) CommonData(c *gin.Context, data gin.H) gin.H {
	out := gin.H{
		"app_version": config.AppVersion,
	}

	if sess := h.State.Current(); sess != nil {
		viewer := sess.Viewer()
		out["username"] = viewer.Username
		out["viewer_id"] = viewer.ID
		out["avatar_url"] = viewer.Avatar()
		out["notices"] = sess.Notices.Drain()
	}
	if h.Unread != nil {
		out["unread_count"] = h.Unread.Total()
	}

	for k, v := range data {
		out[k] = v
	}
	return out
}
