package http

import (
	"bufio"
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/university/internal/config"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

// Session data keys
const (
	SessionKeySearchKind      = "search_kind"
	SessionKeySearchCondition = "search_condition"
	SessionKeySearchRan       = "search_ran"
)

// SessionManager wraps scs.SessionManager with the per-browser search state.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager. With a nil sqlDB
// sessions are kept in memory; otherwise sqlDB must be a sqlite database
// and the sessions table is created in it.
func NewSessionManager(sqlDB *sql.DB, cfg config.Sessions) (*SessionManager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	}

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
		sm.IdleTimeout = cfg.Lifetime / 2
	}

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// SearchState returns the search state saved for this browser. A browser
// without a saved state has no kind selected.
func (sm *SessionManager) SearchState(ctx context.Context) search.State {
	kind, _ := entities.ParseKind(sm.GetString(ctx, SessionKeySearchKind))
	return search.State{
		Kind:      kind,
		Condition: sm.GetString(ctx, SessionKeySearchCondition),
		Ran:       sm.GetBool(ctx, SessionKeySearchRan),
	}
}

// PutSearchState saves the search state for this browser.
func (sm *SessionManager) PutSearchState(ctx context.Context, state search.State) {
	sm.Put(ctx, SessionKeySearchKind, string(state.Kind))
	sm.Put(ctx, SessionKeySearchCondition, state.Condition)
	sm.Put(ctx, SessionKeySearchRan, state.Ran)
}

// sessionResponseWriter wraps http.ResponseWriter to intercept WriteHeader
// and write session cookies before headers are sent.
type sessionResponseWriter struct {
	gin.ResponseWriter
	sm            *SessionManager
	request       *http.Request
	wroteHeader   bool
	cookieWritten bool
}

func (w *sessionResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeSessionCookie()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionResponseWriter) WriteHeaderNow() {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeSessionCookie()
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.writeSessionCookie()
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionResponseWriter) writeSessionCookie() {
	if w.cookieWritten {
		return
	}
	w.cookieWritten = true

	ctx := w.request.Context()
	switch w.sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := w.sm.Commit(ctx)
		if err != nil {
			return
		}
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

func (w *sessionResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

// SessionLoadSave returns a Gin middleware that loads the session into the
// request context and commits it before the response headers are written.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		cookie, err := c.Request.Cookie(sm.Cookie.Name)
		if err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		srw := &sessionResponseWriter{
			ResponseWriter: c.Writer,
			sm:             sm,
			request:        c.Request,
		}
		c.Writer = srw

		c.Next()

		if !srw.wroteHeader {
			srw.writeSessionCookie()
		}
	}
}
