package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/raian-antunes/group-management-platform/internal/config"
	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/present/rest/middleware"
	"github.com/raian-antunes/group-management-platform/internal/present/rest/presenter"
	"github.com/raian-antunes/group-management-platform/internal/service"
	"github.com/raian-antunes/group-management-platform/internal/usecase"
)

type Handler struct {
	session       config.Session
	intentions    *usecase.IntentionUsecase
	invites       *usecase.InviteUsecase
	users         *usecase.UserUsecase
	announcements *usecase.AnnouncementUsecase
	auth          *service.AuthService
	ratelimit     *service.RateLimitService
	signal        *service.SignalService
}

func NewHandler(
	session config.Session,
	intentions *usecase.IntentionUsecase,
	invites *usecase.InviteUsecase,
	users *usecase.UserUsecase,
	announcements *usecase.AnnouncementUsecase,
	auth *service.AuthService,
	ratelimit *service.RateLimitService,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		session:       session,
		intentions:    intentions,
		invites:       invites,
		users:         users,
		announcements: announcements,
		auth:          auth,
		ratelimit:     ratelimit,
		signal:        signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/signin", h.handleSignIn)
	e.POST("/signup", h.handleSignUp)
	e.POST("/signout", h.handleSignOut)
	e.GET("/signup/validate", h.handleValidateToken)

	e.POST("/api/v1/intentions", h.handleCreateIntention)
	e.GET("/api/v1/intentions", h.handleListIntentions)
	e.GET("/api/v1/intentions/:id", h.handleGetIntention)
	e.PUT("/api/v1/intentions/:id", h.handleReviewIntention)
	e.POST("/api/v1/invites", h.handleIssueInvite)
	e.GET("/api/v1/invites", h.handleLookupInvite)
	e.PUT("/api/v1/invites/:token", h.handleConsumeInvite)
	e.POST("/api/v1/users", h.handleCreateUser)
	e.GET("/api/v1/users/:email", h.handleGetUserByEmail)
	e.POST("/api/v1/announcements", h.handlePostAnnouncement)

	e.GET("/dashboard/announcements", h.handleListAnnouncements)
	e.GET("/dashboard/intentions", h.handleListIntentions)
	e.GET("/dashboard/intentions/:id", h.handleGetIntention)
	e.PUT("/dashboard/intentions/:id", h.handleReviewIntention)
	e.GET("/dashboard/user/edit", h.handleGetProfile)
	e.PUT("/dashboard/user/edit", h.handleUpdateProfile)

	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) requireRequester(c echo.Context) (string, domain.Role, error) {
	id, role, ok := middleware.Requester(c)
	if !ok {
		return "", "", domain.ErrUnauthenticated
	}
	return id, role, nil
}

func (h *Handler) requireAdmin(c echo.Context) (string, error) {
	id, role, err := h.requireRequester(c)
	if err != nil {
		return "", err
	}
	if role != domain.RoleAdmin {
		return "", domain.ErrForbidden
	}
	return id, nil
}

func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.session.Lifetime / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// --- auth entry ---

func (h *Handler) handleSignIn(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.ratelimit.Allow(ctx, "signin:"+c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many attempts"})
	}

	var input usecase.SignInInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, err := h.users.SignIn(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}

	token, err := h.auth.IssueSession(ctx, user)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	h.setSessionCookie(c, token)

	return presenter.OK(c, user)
}

func (h *Handler) handleSignUp(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.SignUpInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}
	if input.Token == "" {
		input.Token = c.QueryParam("token")
	}

	user, err := h.users.SignUp(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}

	token, err := h.auth.IssueSession(ctx, user)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	h.setSessionCookie(c, token)

	return presenter.Created(c, user)
}

func (h *Handler) handleSignOut(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleValidateToken(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return presenter.BadRequestMessage(c, "token parameter is required")
	}

	status, err := h.invites.Validate(ctx, token)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, status)
}

// --- intentions ---

func (h *Handler) handleCreateIntention(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.ratelimit.Allow(ctx, "intentions:"+c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many submissions"})
	}

	var input usecase.CreateIntentionInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	intention, err := h.intentions.Create(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, intention)
}

func (h *Handler) handleListIntentions(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.requireAdmin(c); err != nil {
		return presenter.Error(c, err)
	}

	intentions, err := h.intentions.List(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, intentions)
}

func (h *Handler) handleGetIntention(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.requireAdmin(c); err != nil {
		return presenter.Error(c, err)
	}

	intention, err := h.intentions.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, intention)
}

func (h *Handler) handleReviewIntention(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.requireAdmin(c); err != nil {
		return presenter.Error(c, err)
	}

	var request struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&request); err != nil {
		return presenter.BadRequest(c, err)
	}
	if request.Status == "" {
		return presenter.BadRequestMessage(c, "status is required")
	}

	result, err := h.intentions.SetStatus(ctx, c.Param("id"), domain.IntentionStatus(request.Status))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

// --- invites ---

func (h *Handler) handleIssueInvite(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.requireAdmin(c); err != nil {
		return presenter.Error(c, err)
	}

	var request struct {
		IntentionID string `json:"intentionId"`
	}
	if err := c.Bind(&request); err != nil {
		return presenter.BadRequest(c, err)
	}
	if request.IntentionID == "" {
		return presenter.BadRequestMessage(c, "intentionId is required")
	}

	invite, err := h.invites.Issue(ctx, request.IntentionID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, invite)
}

func (h *Handler) handleLookupInvite(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return presenter.BadRequestMessage(c, "token parameter is required")
	}

	invite, intention, err := h.invites.Lookup(ctx, token)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{
		"invite":    invite,
		"intention": intention,
	})
}

func (h *Handler) handleConsumeInvite(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.Param("token")
	if token == "" {
		return presenter.BadRequestMessage(c, "token is required")
	}

	invite, err := h.invites.Consume(ctx, token)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, invite)
}

// --- users ---

func (h *Handler) handleCreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.CreateUserInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, err := h.users.Create(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, user)
}

func (h *Handler) handleGetUserByEmail(c echo.Context) error {
	ctx := c.Request().Context()

	if _, _, err := h.requireRequester(c); err != nil {
		return presenter.Error(c, err)
	}

	user, err := h.users.GetByEmail(ctx, c.Param("email"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, user)
}

func (h *Handler) handleGetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	id, _, err := h.requireRequester(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	user, err := h.users.Get(ctx, id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, user)
}

func (h *Handler) handleUpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	id, _, err := h.requireRequester(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, err := h.users.UpdateProfile(ctx, id, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, user)
}

// --- announcements ---

func (h *Handler) handleListAnnouncements(c echo.Context) error {
	ctx := c.Request().Context()

	if _, _, err := h.requireRequester(c); err != nil {
		return presenter.Error(c, err)
	}

	announcements, err := h.announcements.List(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, announcements)
}

func (h *Handler) handlePostAnnouncement(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := h.requireAdmin(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	var input usecase.PostAnnouncementInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	announcement, err := h.announcements.Post(ctx, id, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, announcement)
}

// --- realtime ---

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type string `json:"type"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if _, _, err := h.requireRequester(c); err != nil {
		return presenter.Error(c, err)
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	output := make(chan service.Event)
	go h.signal.Realtime(ctx, service.AnnouncementChannel, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
